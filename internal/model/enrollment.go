package model

import (
	"time"
)

// Enrollment 用户选课记录，(user, course) 唯一
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress 记录选课下每个课时的完成状态
// swagger:model LessonProgress
type LessonProgress struct {
	UUIDBase
	EnrollmentID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_enrollment_lesson" json:"enrollmentId"`
	LessonID     string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_enrollment_lesson;index" json:"lessonId"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`

	Enrollment *Enrollment `gorm:"foreignKey:EnrollmentID" json:"-"`
	Lesson     *Lesson     `gorm:"foreignKey:LessonID" json:"-"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
