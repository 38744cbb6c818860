package dto

import (
	"miniudemy_backend/internal/util"
	"strings"
)

// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID string `json:"courseId"`
}

// swagger:model ProgressRequest
type ProgressRequest struct {
	LessonID string `json:"lessonId"`
}

// ReviewRequest 评分使用 float64 接收，以便拒绝 4.5 这类非整数
// swagger:model ReviewRequest
type ReviewRequest struct {
	CourseID string   `json:"courseId"`
	Rating   *float64 `json:"rating"`
	Comment  *string  `json:"comment"`
}

// ReviewInput 合法的评价输入
type ReviewInput struct {
	CourseID string  `validate:"required"`
	Rating   int     `validate:"gte=1,lte=5"`
	Comment  *string `validate:"omitempty,max=2000"`
}

func NewReviewInput(courseID string, rating int, comment *string) (ReviewInput, error) {
	in := ReviewInput{
		CourseID: strings.TrimSpace(courseID),
		Rating:   rating,
		Comment:  trimPtr(comment),
	}
	return in, in.Validate()
}

func NewReviewInputFromRequest(req ReviewRequest) (ReviewInput, error) {
	if req.Rating == nil {
		return ReviewInput{}, util.ErrInvalidRating
	}
	r := *req.Rating
	if r != float64(int(r)) {
		return ReviewInput{}, util.ErrInvalidRating
	}
	return NewReviewInput(req.CourseID, int(r), req.Comment)
}

func (in ReviewInput) Validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return util.ErrInvalidRating
	}
	return check(in)
}
