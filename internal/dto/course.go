package dto

import (
	"miniudemy_backend/internal/model"
	"strings"
)

// CourseRequest 创建/更新课程请求体，更新时缺省字段保持不变
// swagger:model CourseRequest
type CourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Level       *string  `json:"level"`
	Thumbnail   *string  `json:"thumbnail"`
	Published   *bool    `json:"published"`
	CategoryIDs []string `json:"categoryIds"`
}

type CreateCourseInput struct {
	Title       string            `validate:"required,min=3"`
	Description string            `validate:"required,min=10"`
	Price       float64           `validate:"gte=0"`
	Level       model.CourseLevel `validate:"oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Thumbnail   *string           `validate:"omitempty,url"`
	CategoryIDs []string          `validate:"dive,required"`
}

func NewCreateCourseInput(req CourseRequest) (CreateCourseInput, error) {
	in := CreateCourseInput{
		Level:       model.Beginner,
		Thumbnail:   trimPtr(req.Thumbnail),
		CategoryIDs: req.CategoryIDs,
	}
	if req.Title != nil {
		in.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		in.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Level != nil {
		in.Level = model.CourseLevel(strings.ToUpper(*req.Level))
	}
	return in, check(in)
}

type UpdateCourseInput struct {
	Title       *string            `validate:"omitempty,min=3"`
	Description *string            `validate:"omitempty,min=10"`
	Price       *float64           `validate:"omitempty,gte=0"`
	Level       *model.CourseLevel `validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Thumbnail   *string            `validate:"omitempty,url"`
	Published   *bool
}

func NewUpdateCourseInput(req CourseRequest) (UpdateCourseInput, error) {
	in := UpdateCourseInput{
		Title:       trimPtr(req.Title),
		Description: trimPtr(req.Description),
		Price:       req.Price,
		Thumbnail:   trimPtr(req.Thumbnail),
		Published:   req.Published,
	}
	if req.Level != nil {
		level := model.CourseLevel(strings.ToUpper(*req.Level))
		in.Level = &level
	}
	return in, check(in)
}

// CourseFilter 课程列表查询条件
type CourseFilter struct {
	Search     string
	Level      model.CourseLevel
	CategoryID string
	Page       int
	Limit      int
	Offset     int
}
