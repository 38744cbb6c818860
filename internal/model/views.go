package model

import "time"

// 以下为查询投影类型，不对应数据表。每个查询返回的字段由类型本身声明。

type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

type CourseCounts struct {
	Enrollments int64 `json:"enrollments"`
	Lessons     int64 `json:"lessons"`
	Reviews     int64 `json:"reviews"`
}

// CourseSummary 课程列表项
type CourseSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Level       CourseLevel  `json:"level"`
	Thumbnail   *string      `json:"thumbnail,omitempty"`
	Published   bool         `json:"published"`
	CreatedAt   time.Time    `json:"createdAt"`
	Instructor  UserSummary  `json:"instructor"`
	Categories  []Category   `json:"categories"`
	Counts      CourseCounts `json:"counts"`
	AvgRating   float64      `json:"avgRating"`
}

// LessonSummary 课时目录项，不含正文和视频地址
type LessonSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Order    int    `gorm:"column:sort_order" json:"order"`
	Free     bool   `json:"free"`
}

type ReviewView struct {
	ID        string      `json:"id"`
	Rating    int         `json:"rating"`
	Comment   *string     `json:"comment,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	User      UserSummary `json:"user"`
}

// CourseDetail 课程详情：讲师、课时目录、分类、最新评价
type CourseDetail struct {
	CourseSummary
	Lessons []LessonSummary `json:"lessons"`
	Reviews []ReviewView    `json:"reviews"`
}

// LessonView 单个课时及其前后导航
type LessonView struct {
	Lesson
	PrevLessonID *string `json:"prevLessonId"`
	NextLessonID *string `json:"nextLessonId"`
}

type EnrolledCourse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Thumbnail   *string     `json:"thumbnail,omitempty"`
	Level       CourseLevel `json:"level"`
	Instructor  UserSummary `json:"instructor"`
	LessonCount int64       `json:"lessonCount"`
}

// EnrollmentView 我的选课：课程、全部进度记录及完成百分比
type EnrollmentView struct {
	ID              string           `json:"id"`
	CreatedAt       time.Time        `json:"createdAt"`
	Course          EnrolledCourse   `json:"course"`
	Progress        []LessonProgress `json:"progress"`
	ProgressPercent int              `json:"progressPercent"`
}

type CategoryWithCount struct {
	Category
	CourseCount int64 `json:"courseCount"`
}
