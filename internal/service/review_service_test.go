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

func rating(v float64) *float64 { return &v }

func TestSubmitReviewPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, _ := f.user(t, "inst@example.com", model.Instructor)
	_, student := f.user(t, "stu@example.com", model.Student)
	_, outsider := f.user(t, "out@example.com", model.Student)
	course := f.course(t, instructor.ID, true)
	f.enroll(t, student, course.ID)

	_, err := f.reviews.SubmitReview(ctx, nil, dto.ReviewRequest{CourseID: course.ID, Rating: rating(5)})
	assert.True(t, util.IsKind(err, util.KindAuthentication))

	_, err = f.reviews.SubmitReview(ctx, student, dto.ReviewRequest{CourseID: "missing", Rating: rating(5)})
	assert.True(t, util.IsKind(err, util.KindNotFound))

	// 未选课时即使评分非法也返回 Authorization
	_, err = f.reviews.SubmitReview(ctx, outsider, dto.ReviewRequest{CourseID: course.ID, Rating: rating(9)})
	assert.True(t, util.IsKind(err, util.KindAuthorization))

	for _, r := range []float64{0, 6, 3.5} {
		_, err = f.reviews.SubmitReview(ctx, student, dto.ReviewRequest{CourseID: course.ID, Rating: rating(r)})
		assert.True(t, util.IsKind(err, util.KindValidation), "rating %v", r)
	}

	var n int64
	require.NoError(t, f.db.Model(&model.Review{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitReviewUpsertsAndAverages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	instructor, _ := f.user(t, "inst@example.com", model.Instructor)
	_, a := f.user(t, "a@example.com", model.Student)
	_, b := f.user(t, "b@example.com", model.Student)
	course := f.course(t, instructor.ID, true)
	f.enroll(t, a, course.ID)
	f.enroll(t, b, course.ID)

	avg, err := f.reviews.AverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = f.reviews.SubmitReview(ctx, a, dto.ReviewRequest{CourseID: course.ID, Rating: rating(1)})
	require.NoError(t, err)
	comment := "better on second watch"
	r, err := f.reviews.SubmitReview(ctx, a, dto.ReviewRequest{CourseID: course.ID, Rating: rating(4), Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, comment, *r.Comment)

	_, err = f.reviews.SubmitReview(ctx, b, dto.ReviewRequest{CourseID: course.ID, Rating: rating(5)})
	require.NoError(t, err)

	var n int64
	require.NoError(t, f.db.Model(&model.Review{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	avg, err = f.reviews.AverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)

	_, err = f.reviews.AverageRating(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	other := f.course(t, instructor.ID, true)
	avgs, err := f.reviews.AverageRatings(ctx, []string{course.ID, other.ID})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avgs[course.ID], 1e-9)
	assert.Zero(t, avgs[other.ID])
}
