package service

import (
	"context"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCourseDetailVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, owner := f.user(t, "inst@example.com", model.Instructor)
	_, other := f.user(t, "other@example.com", model.Instructor)
	_, admin := f.user(t, "admin@example.com", model.Admin)
	draft := f.course(t, instructor.ID, false)
	f.lesson(t, draft.ID, 2, false)
	f.lesson(t, draft.ID, 1, true)

	_, err := f.courses.Detail(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	_, err = f.courses.Detail(ctx, other, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	detail, err := f.courses.Detail(ctx, owner, draft.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lessons, 2)
	assert.Equal(t, 1, detail.Lessons[0].Order)
	assert.EqualValues(t, 2, detail.Counts.Lessons)

	_, err = f.courses.Detail(ctx, admin, draft.ID)
	assert.NoError(t, err)
}

func TestCourseCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, owner := f.user(t, "inst@example.com", model.Instructor)
	_, other := f.user(t, "other@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	_, admin := f.user(t, "admin@example.com", model.Admin)

	web := &model.Category{Name: "Web", Slug: "web"}
	require.NoError(t, f.db.Create(web).Error)

	in, err := dto.NewCreateCourseInput(dto.CourseRequest{
		Title:       strPtr("Practical Go"),
		Description: strPtr("Services, testing and tooling"),
		CategoryIDs: []string{web.ID, web.ID},
	})
	require.NoError(t, err)

	_, err = f.courses.Create(ctx, student, in)
	assert.ErrorIs(t, err, util.ErrInstructorRequired)

	bad := in
	bad.CategoryIDs = []string{"nope"}
	_, err = f.courses.Create(ctx, owner, bad)
	assert.True(t, util.IsKind(err, util.KindValidation))

	course, err := f.courses.Create(ctx, owner, in)
	require.NoError(t, err)
	assert.False(t, course.Published)
	assert.Equal(t, model.Beginner, course.Level)

	publish := true
	update := dto.UpdateCourseInput{Published: &publish}

	_, err = f.courses.Update(ctx, other, course.ID, update)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	_, err = f.courses.Update(ctx, owner, "missing", update)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	updated, err := f.courses.Update(ctx, owner, course.ID, update)
	require.NoError(t, err)
	assert.True(t, updated.Published)

	title := "Practical Go, second edition"
	updated, err = f.courses.Update(ctx, admin, course.ID, dto.UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.Published)

	list, total, err := f.courses.List(ctx, dto.CourseFilter{Limit: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list[0].Categories, 1)

	cats, err := f.courses.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 1, cats[0].CourseCount)
}

func TestMyCoursesOnlyListsCallersCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, me := f.user(t, "me@example.com", model.Instructor)
	theirs, _ := f.user(t, "them@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	f.course(t, mine.ID, true)
	f.course(t, mine.ID, false)
	f.course(t, theirs.ID, true)

	courses, err := f.courses.MyCourses(ctx, me)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	for _, c := range courses {
		assert.Equal(t, mine.ID, c.Instructor.ID)
	}

	_, err = f.courses.MyCourses(ctx, student)
	assert.ErrorIs(t, err, util.ErrInstructorRequired)
}

func TestCourseDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, owner := f.user(t, "inst@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	course := f.course(t, instructor.ID, true)
	lesson := f.lesson(t, course.ID, 1, false)
	f.enroll(t, student, course.ID)
	_, err := f.enrollments.RecordCompletion(ctx, student, lesson.ID)
	require.NoError(t, err)

	err = f.courses.Delete(ctx, student, course.ID)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	require.NoError(t, f.courses.Delete(ctx, owner, course.ID))

	err = f.courses.Delete(ctx, owner, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	views, err := f.enrollments.ListMyEnrollments(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, views)
}
