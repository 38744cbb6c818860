package model

type CourseLevel string

const (
	Beginner     CourseLevel = "BEGINNER"
	Intermediate CourseLevel = "INTERMEDIATE"
	Advanced     CourseLevel = "ADVANCED"
)

// Course 课程，由创建它的讲师独占
// swagger:model Course
type Course struct {
	UUIDBase
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Price        float64     `gorm:"not null;default:0" json:"price"`
	Level        CourseLevel `gorm:"size:20;not null;default:'BEGINNER'" json:"level"`
	Thumbnail    *string     `gorm:"size:255" json:"thumbnail,omitempty"`
	Published    bool        `gorm:"not null;default:false;index" json:"published"`
	InstructorID string      `gorm:"type:varchar(36);not null;index" json:"instructorId"`

	Instructor *User `gorm:"foreignKey:InstructorID" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Category
type Category struct {
	UUIDBase
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
}

func (Category) TableName() string {
	return "categories"
}

// CourseCategory 课程与分类的多对多关联
type CourseCategory struct {
	CourseID   string `gorm:"primaryKey;type:varchar(36)" json:"courseId"`
	CategoryID string `gorm:"primaryKey;type:varchar(36)" json:"categoryId"`

	Course   *Course   `gorm:"foreignKey:CourseID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (CourseCategory) TableName() string {
	return "course_categories"
}
