package model

// Lesson 课时，order 在同一课程内唯一，用于上一节/下一节导航
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title    string  `gorm:"size:255;not null" json:"title"`
	Content  *string `gorm:"type:text" json:"content,omitempty"`
	VideoURL *string `gorm:"size:500" json:"videoUrl,omitempty"`
	Duration int     `gorm:"not null;default:0" json:"duration"` // 秒
	Order    int     `gorm:"column:sort_order;not null;uniqueIndex:idx_lesson_course_order" json:"order"`
	Free     bool    `gorm:"not null;default:false" json:"free"`
	CourseID string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_lesson_course_order" json:"courseId"`

	Course *Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Lesson) TableName() string {
	return "lessons"
}
