package model

// Review 课程评价，每个用户对每门课程只保留一条
// swagger:model Review
type Review struct {
	UUIDBase
	UserID   string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_course" json:"userId"`
	CourseID string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_course;index" json:"courseId"`
	Rating   int     `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment  *string `gorm:"type:text" json:"comment,omitempty"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
