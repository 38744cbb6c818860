package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, filename, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	args := m.Called(ctx, filename, localPath, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, filename string) error {
	return m.Called(ctx, filename).Error(0)
}

func (m *mockStorage) GetURL(filename string) string {
	return m.Called(filename).String(0)
}

// 最小的 MP4 文件头，足以让 MIME 嗅探识别为 video/mp4
var mp4Header = append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42\x00\x00\x00\x00mp42isom")...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLessonCreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, owner := f.user(t, "inst@example.com", model.Instructor)
	_, other := f.user(t, "other@example.com", model.Instructor)
	course := f.course(t, instructor.ID, true)

	in, err := dto.NewCreateLessonInput(dto.LessonRequest{CourseID: course.ID, Title: strPtr("Intro"), Order: intPtr(1)})
	require.NoError(t, err)

	_, err = f.lessons.Create(ctx, other, in)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	missing := in
	missing.CourseID = "missing"
	_, err = f.lessons.Create(ctx, owner, missing)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	lesson, err := f.lessons.Create(ctx, owner, in)
	require.NoError(t, err)

	_, err = f.lessons.Create(ctx, owner, in)
	assert.ErrorIs(t, err, util.ErrLessonOrderTaken)

	second, err := dto.NewCreateLessonInput(dto.LessonRequest{CourseID: course.ID, Title: strPtr("Next"), Order: intPtr(3)})
	require.NoError(t, err)
	next, err := f.lessons.Create(ctx, owner, second)
	require.NoError(t, err)

	// 改成已占用的 order
	_, err = f.lessons.Update(ctx, owner, next.ID, dto.UpdateLessonInput{Order: intPtr(1)})
	assert.ErrorIs(t, err, util.ErrLessonOrderTaken)

	updated, err := f.lessons.Update(ctx, owner, next.ID, dto.UpdateLessonInput{Order: intPtr(2), Free: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Order)
	assert.True(t, updated.Free)

	summaries, err := f.lessons.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, lesson.ID, summaries[0].ID)

	require.NoError(t, f.lessons.Delete(ctx, owner, lesson.ID))
	_, err = f.lessons.Get(ctx, owner, lesson.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestLessonGetEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, _ := f.user(t, "inst@example.com", model.Instructor)
	course := f.course(t, instructor.ID, true)
	first := f.lesson(t, course.ID, 1, true)
	paid := f.lesson(t, course.ID, 2, false)

	view, err := f.lessons.Get(ctx, nil, first.ID)
	require.NoError(t, err)
	assert.Nil(t, view.PrevLessonID)
	assert.Equal(t, paid.ID, *view.NextLessonID)

	_, err = f.lessons.Get(ctx, nil, paid.ID)
	assert.True(t, util.IsKind(err, util.KindAuthentication))
}

func TestUploadVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, owner := f.user(t, "inst@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	course := f.course(t, instructor.ID, true)
	lesson := f.lesson(t, course.ID, 1, false)

	storage := &mockStorage{}
	f.lessons.Storage = storage
	f.lessons.Probe = func(path string) (*util.VideoInfo, error) {
		return &util.VideoInfo{Duration: 95.6}, nil
	}

	storage.On("UploadFile", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0 && bytes.HasPrefix([]byte(key), []byte("lessons/"+course.ID+"/"))
	}), mock.Anything, "video/mp4").Return("/uploads/lessons/video.mp4", nil).Once()

	_, err := f.lessons.UploadVideo(ctx, student, lesson.ID, fileHeader(t, "intro.mp4", mp4Header))
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	_, err = f.lessons.UploadVideo(ctx, owner, lesson.ID, fileHeader(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, util.ErrInvalidVideoExt)

	_, err = f.lessons.UploadVideo(ctx, owner, lesson.ID, fileHeader(t, "fake.mp4", []byte("plain text pretending")))
	assert.True(t, util.IsKind(err, util.KindValidation))

	updated, err := f.lessons.UploadVideo(ctx, owner, lesson.ID, fileHeader(t, "intro.mp4", mp4Header))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/lessons/video.mp4", *updated.VideoURL)
	assert.Equal(t, 96, updated.Duration)
	storage.AssertExpectations(t)
}

func TestUploadVideoKeepsDurationWhenProbeFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, owner := f.user(t, "inst@example.com", model.Instructor)
	course := f.course(t, instructor.ID, true)
	lesson := f.lesson(t, course.ID, 1, false)
	require.NoError(t, f.db.Model(lesson).Update("duration", 42).Error)

	storage := &mockStorage{}
	f.lessons.Storage = storage
	f.lessons.Probe = func(path string) (*util.VideoInfo, error) {
		return nil, errors.New("ffprobe not installed")
	}
	storage.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("/uploads/x.mp4", nil)

	updated, err := f.lessons.UploadVideo(ctx, owner, lesson.ID, fileHeader(t, "intro.mp4", mp4Header))
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Duration)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
