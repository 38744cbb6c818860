package controller

import (
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary 课程列表
// @Description 已发布课程，支持关键字、难度、分类筛选与分页
// @Tags 课程
// @Produce  json
// @Param search query string false "标题或简介关键字"
// @Param level query string false "BEGINNER | INTERMEDIATE | ADVANCED"
// @Param categoryId query string false "分类ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.CourseSummary}}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit, offset := util.Pagination(ctx.Query("page"), ctx.Query("limit"), util.DefaultCourseLimit, util.MaxCourseLimit)
	filter := dto.CourseFilter{
		Search:     strings.TrimSpace(ctx.Query("search")),
		Level:      model.CourseLevel(strings.ToUpper(ctx.Query("level"))),
		CategoryID: ctx.Query("categoryId"),
		Page:       page,
		Limit:      limit,
		Offset:     offset,
	}

	courses, total, err := c.CourseService.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(courses, total, page, limit))
}

// GetCourse godoc
// @Summary 课程详情
// @Description 讲师、课时目录、分类、最新评价与平均分；未发布课程仅讲师本人和管理员可见
// @Tags 课程
// @Produce  json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	detail, err := c.CourseService.Detail(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param body body dto.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewCreateCourseInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), session.FromContext(ctx), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 仅课程讲师或管理员，可通过 published 发布课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body dto.CourseRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewUpdateCourseInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id"), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.Delete(ctx.Request.Context(), session.FromContext(ctx), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Course deleted"})
}

// MyCourses godoc
// @Summary 我的授课
// @Description 当前讲师创建的全部课程（含未发布）
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CourseSummary}
// @Router /api/courses/instructor/my-courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	courses, err := c.CourseService.MyCourses(ctx.Request.Context(), session.FromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.CategoryWithCount}
// @Router /api/courses/categories/all [get]
func (c *CourseController) ListCategories(ctx *gin.Context) {
	categories, err := c.CourseService.Categories(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
