package dto

import (
	"miniudemy_backend/internal/model"
	"strings"
)

// RegisterRequest 注册请求体
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type RegisterInput struct {
	Email    string         `validate:"required,email"`
	Password string         `validate:"required,min=6"`
	Name     string         `validate:"required,min=2"`
	Role     model.UserRole `validate:"oneof=STUDENT INSTRUCTOR"`
}

// NewRegisterInput 仅允许注册学生或讲师，其他角色一律按学生处理
func NewRegisterInput(req RegisterRequest) (RegisterInput, error) {
	role := model.Student
	if strings.EqualFold(req.Role, string(model.Instructor)) {
		role = model.Instructor
	}
	in := RegisterInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Role:     role,
	}
	return in, check(in)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func NewLoginInput(req LoginRequest) (LoginInput, error) {
	in := LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}
	return in, check(in)
}
