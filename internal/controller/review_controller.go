package controller

import (
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// SubmitReview godoc
// @Summary 评价课程
// @Description 已选课用户提交评分（1-5 的整数）与评论，再次提交覆盖原评价
// @Tags 评价
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param body body dto.ReviewRequest true "评价内容"
// @Success 200 {object} util.Response{data=model.Review}
// @Failure 400 {object} util.Response "评分不合法"
// @Failure 403 {object} util.Response "未选课"
// @Router /api/enrollments/review [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	review, err := c.ReviewService.SubmitReview(ctx.Request.Context(), session.FromContext(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// CourseRating godoc
// @Summary 课程平均分
// @Tags 评价
// @Produce  json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/rating [get]
func (c *ReviewController) CourseRating(ctx *gin.Context) {
	courseID := ctx.Param("id")
	avg, err := c.ReviewService.AverageRating(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID, "avgRating": avg})
}
