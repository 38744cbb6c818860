package dto

import (
	"strings"
)

// LessonRequest 创建/更新课时请求体
// swagger:model LessonRequest
type LessonRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	VideoURL *string `json:"videoUrl"`
	Duration *int    `json:"duration"`
	Order    *int    `json:"order"`
	Free     *bool   `json:"free"`
	CourseID string  `json:"courseId"`
}

type CreateLessonInput struct {
	CourseID string  `validate:"required"`
	Title    string  `validate:"required,min=3"`
	Content  *string
	VideoURL *string `validate:"omitempty,url"`
	Duration int     `validate:"gte=0"`
	Order    int     `validate:"gte=1"`
	Free     bool
}

func NewCreateLessonInput(req LessonRequest) (CreateLessonInput, error) {
	in := CreateLessonInput{
		CourseID: strings.TrimSpace(req.CourseID),
		Content:  req.Content,
		VideoURL: trimPtr(req.VideoURL),
	}
	if req.Title != nil {
		in.Title = strings.TrimSpace(*req.Title)
	}
	if req.Duration != nil {
		in.Duration = *req.Duration
	}
	if req.Order != nil {
		in.Order = *req.Order
	}
	if req.Free != nil {
		in.Free = *req.Free
	}
	return in, check(in)
}

// UpdateLessonInput 课时不可更换所属课程
type UpdateLessonInput struct {
	Title    *string `validate:"omitempty,min=3"`
	Content  *string
	VideoURL *string `validate:"omitempty,url"`
	Duration *int    `validate:"omitempty,gte=0"`
	Order    *int    `validate:"omitempty,gte=1"`
	Free     *bool
}

func NewUpdateLessonInput(req LessonRequest) (UpdateLessonInput, error) {
	in := UpdateLessonInput{
		Title:    trimPtr(req.Title),
		Content:  req.Content,
		VideoURL: trimPtr(req.VideoURL),
		Duration: req.Duration,
		Order:    req.Order,
		Free:     req.Free,
	}
	return in, check(in)
}
