package controller

import (
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 选课
// @Tags 选课
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param body body dto.EnrollRequest true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "课程未发布或已选过"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), session.FromContext(ctx), req.CourseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// MyEnrollments godoc
// @Summary 我的选课
// @Description 每门课程的进度记录与完成百分比，最新选课在前
// @Tags 选课
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.EnrollmentView}
// @Router /api/enrollments/my [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	views, err := c.EnrollmentService.ListMyEnrollments(ctx.Request.Context(), session.FromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// RecordProgress godoc
// @Summary 标记课时完成
// @Tags 选课
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param body body dto.ProgressRequest true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/enrollments/progress [post]
func (c *EnrollmentController) RecordProgress(ctx *gin.Context) {
	var req dto.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	progress, err := c.EnrollmentService.RecordCompletion(ctx.Request.Context(), session.FromContext(ctx), req.LessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
