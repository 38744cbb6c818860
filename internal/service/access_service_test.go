package service

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeLesson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, instSession := f.user(t, "inst@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	_, outsider := f.user(t, "out@example.com", model.Student)
	_, admin := f.user(t, "admin@example.com", model.Admin)

	course := f.course(t, instructor.ID, true)
	free := f.lesson(t, course.ID, 1, true)
	paid := f.lesson(t, course.ID, 2, false)
	f.enroll(t, student, course.ID)

	t.Run("free lesson is open to anonymous", func(t *testing.T) {
		assert.NoError(t, f.access.AuthorizeLesson(ctx, nil, free))
		assert.NoError(t, f.access.AuthorizeLesson(ctx, outsider, free))
	})

	t.Run("anonymous on paid lesson needs authentication", func(t *testing.T) {
		err := f.access.AuthorizeLesson(ctx, nil, paid)
		assert.True(t, util.IsKind(err, util.KindAuthentication))
	})

	t.Run("instructor of the course", func(t *testing.T) {
		assert.NoError(t, f.access.AuthorizeLesson(ctx, instSession, paid))
	})

	t.Run("enrolled student", func(t *testing.T) {
		assert.NoError(t, f.access.AuthorizeLesson(ctx, student, paid))
	})

	t.Run("not enrolled", func(t *testing.T) {
		err := f.access.AuthorizeLesson(ctx, outsider, paid)
		assert.True(t, util.IsKind(err, util.KindAuthorization))
	})

	t.Run("admin without enrollment is refused", func(t *testing.T) {
		err := f.access.AuthorizeLesson(ctx, admin, paid)
		assert.True(t, util.IsKind(err, util.KindAuthorization))
	})
}

func TestCanAccessLessonIsReevaluated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, _ := f.user(t, "inst@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	course := f.course(t, instructor.ID, true)
	paid := f.lesson(t, course.ID, 1, false)

	ok, err := f.access.CanAccessLesson(ctx, student, paid)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.access.CanAccessLesson(ctx, nil, paid)
	require.NoError(t, err)
	assert.False(t, ok)

	f.enroll(t, student, course.ID)

	ok, err = f.access.CanAccessLesson(ctx, student, paid)
	require.NoError(t, err)
	assert.True(t, ok)
}
