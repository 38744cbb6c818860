package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"
	"miniudemy_backend/pkg/tracing"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	DB         *gorm.DB
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	Access     *AccessService
	Storage    StorageProvider

	// Probe 读取视频元数据，默认使用 ffprobe
	Probe func(path string) (*util.VideoInfo, error)
}

func NewLessonService(
	db *gorm.DB,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	access *AccessService,
	storage StorageProvider,
) *LessonService {
	return &LessonService{
		DB:         db,
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		Access:     access,
		Storage:    storage,
		Probe:      util.GetVideoInfo,
	}
}

// ListByCourse 课程目录，按 order 升序
func (s *LessonService) ListByCourse(ctx context.Context, courseID string) ([]model.LessonSummary, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListSummaries(ctx, courseID)
}

// Get 经过访问控制后返回课时全文及前后课时 ID
func (s *LessonService) Get(ctx context.Context, principal *session.Session, id string) (*model.LessonView, error) {
	lesson, err := s.LessonRepo.FindWithCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Access.AuthorizeLesson(ctx, principal, lesson); err != nil {
		return nil, err
	}

	prev, next, err := s.LessonRepo.Neighbors(ctx, lesson.CourseID, lesson.Order)
	if err != nil {
		return nil, err
	}
	return &model.LessonView{Lesson: *lesson, PrevLessonID: prev, NextLessonID: next}, nil
}

func (s *LessonService) Create(ctx context.Context, principal *session.Session, in dto.CreateLessonInput) (*model.Lesson, error) {
	if err := requireInstructor(principal); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		Title:    in.Title,
		Content:  in.Content,
		VideoURL: in.VideoURL,
		Duration: in.Duration,
		Order:    in.Order,
		Free:     in.Free,
		CourseID: in.CourseID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.CourseRepo.WithTx(tx).FindByID(ctx, in.CourseID)
		if err != nil {
			return err
		}
		if !principal.CanManage(course.InstructorID) {
			return util.ErrNotCourseOwner
		}
		return s.LessonRepo.WithTx(tx).Create(ctx, lesson)
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, principal *session.Session, id string, in dto.UpdateLessonInput) (*model.Lesson, error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}

	var lesson *model.Lesson
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons := s.LessonRepo.WithTx(tx)
		existing, err := lessons.FindWithCourse(ctx, id)
		if err != nil {
			return err
		}
		if !principal.CanManage(existing.Course.InstructorID) {
			return util.ErrNotCourseOwner
		}
		if err := lessons.Update(ctx, id, lessonUpdates(in)); err != nil {
			return err
		}
		lesson, err = lessons.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(ctx context.Context, principal *session.Session, id string) error {
	if principal == nil {
		return util.ErrTokenMissing
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons := s.LessonRepo.WithTx(tx)
		existing, err := lessons.FindWithCourse(ctx, id)
		if err != nil {
			return err
		}
		if !principal.CanManage(existing.Course.InstructorID) {
			return util.ErrNotCourseOwner
		}
		return lessons.Delete(ctx, id)
	})
}

// UploadVideo 保存课时视频并用探测到的时长更新课时
func (s *LessonService) UploadVideo(ctx context.Context, principal *session.Session, id string, file *multipart.FileHeader) (lesson *model.Lesson, err error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}

	ctx, span := tracing.Start(ctx, "lesson.upload_video", attribute.String("lesson.id", id))
	defer func() { tracing.End(span, err) }()

	existing, err := s.LessonRepo.FindWithCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanManage(existing.Course.InstructorID) {
		return nil, util.ErrNotCourseOwner
	}
	if file == nil {
		return nil, util.NewValidationError("file is required")
	}
	if !util.IsAllowedVideoExt(file.Filename) {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo})
	if err != nil {
		return nil, util.Wrap(util.KindValidation, "file is not a video", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	tmpPath, err := spool(src, ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	duration := existing.Duration
	if info, perr := s.Probe(tmpPath); perr != nil {
		logger.Log.Warn("probe lesson video failed", zap.String("lessonId", id), zap.Error(perr))
	} else if d := info.DurationSeconds(); d > 0 {
		duration = d
	}

	key := fmt.Sprintf("lessons/%s/%s%s", existing.CourseID, model.GenerateUUID(), ext)
	url, err := s.Storage.UploadFile(ctx, key, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	err = s.LessonRepo.Update(ctx, id, map[string]interface{}{
		"video_url": url,
		"duration":  duration,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("lesson video uploaded", zap.String("lessonId", id), zap.String("key", key), zap.Int("duration", duration))
	return s.LessonRepo.FindByID(ctx, id)
}

// spool 将上传内容写入临时文件，ffprobe 需要本地路径
func spool(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "lesson-video-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func lessonUpdates(in dto.UpdateLessonInput) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.VideoURL != nil {
		fields["video_url"] = *in.VideoURL
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}
	if in.Free != nil {
		fields["free"] = *in.Free
	}
	return fields
}
