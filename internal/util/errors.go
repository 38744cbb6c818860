package util

import (
	"errors"
	"fmt"
)

// ErrorKind 业务错误类别，与传输层状态码无关
type ErrorKind string

const (
	KindAuthentication ErrorKind = "AUTHENTICATION"
	KindAuthorization  ErrorKind = "AUTHORIZATION"
	KindValidation     ErrorKind = "VALIDATION"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindConflict       ErrorKind = "CONFLICT"
	KindInternal       ErrorKind = "INTERNAL"
)

// AppError 携带错误类别的业务错误
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同类别、同消息的 AppError 视为相等，便于与下方哨兵错误比较
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return newError(KindAuthentication, message)
}

func NewAuthorizationError(message string) *AppError {
	return newError(KindAuthorization, message)
}

func NewValidationError(message string) *AppError {
	return newError(KindValidation, message)
}

func NewNotFoundError(message string) *AppError {
	return newError(KindNotFound, message)
}

func NewConflictError(message string) *AppError {
	return newError(KindConflict, message)
}

// Wrap 为底层错误附加类别
func Wrap(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf 返回错误类别，非 AppError 一律视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrTokenMissing       = NewAuthenticationError("access token required")
	ErrTokenInvalid       = NewAuthenticationError("invalid or expired token")
	ErrInvalidCredentials = NewAuthenticationError("invalid email or password")

	ErrNotEnrolled        = NewAuthorizationError("not enrolled in this course")
	ErrLessonForbidden    = NewAuthorizationError("you must enroll in this course to access this lesson")
	ErrReviewForbidden    = NewAuthorizationError("you must be enrolled to review")
	ErrNotCourseOwner     = NewAuthorizationError("not your course")
	ErrInstructorRequired = NewAuthorizationError("only instructors can perform this action")

	ErrUserNotFound   = NewNotFoundError("user not found")
	ErrCourseNotFound = NewNotFoundError("course not found")
	ErrLessonNotFound = NewNotFoundError("lesson not found")

	ErrEmailRegistered    = NewConflictError("email already registered")
	ErrAlreadyEnrolled    = NewConflictError("already enrolled")
	ErrCourseNotPublished = NewConflictError("course is not available")
	ErrLessonOrderTaken   = NewConflictError("lesson order already used in this course")
	ErrCourseExists       = NewConflictError("course already exists")

	ErrInvalidRating   = NewValidationError("rating must be an integer between 1 and 5")
	ErrCourseIDMissing = NewValidationError("courseId is required")
	ErrLessonIDMissing = NewValidationError("lessonId is required")
	ErrInvalidVideoExt = NewValidationError("unsupported video format")
)
