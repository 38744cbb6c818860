package controller

import (
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// ListByCourse godoc
// @Summary 课程目录
// @Tags 课时
// @Produce  json
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.LessonSummary}
// @Router /api/lessons/course/{courseId} [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	lessons, err := c.LessonService.ListByCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// GetLesson godoc
// @Summary 课时详情
// @Description 免费课时对所有人开放，其余需选课或为课程讲师；附带上一节/下一节ID
// @Tags 课时
// @Produce  json
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonView}
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lesson, err := c.LessonService.Get(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param body body dto.LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 409 {object} util.Response "order 已被占用"
// @Router /api/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req dto.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewCreateLessonInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	lesson, err := c.LessonService.Create(ctx.Request.Context(), session.FromContext(ctx), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Param body body dto.LessonRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	var req dto.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewUpdateLessonInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	lesson, err := c.LessonService.Update(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id"), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	if err := c.LessonService.Delete(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Lesson deleted"})
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Description 校验文件类型，探测视频时长后写入对象存储
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	// 缺少文件时由服务层返回校验错误
	file, _ := ctx.FormFile("file")

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id"), file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
