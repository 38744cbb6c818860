package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 课程列表分页
const (
	DefaultCourseLimit = 12
	MaxCourseLimit     = 50
	CourseReviewLimit  = 10
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
)
