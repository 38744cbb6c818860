package service

import (
	"context"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := dto.NewRegisterInput(dto.RegisterRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann", Role: "INSTRUCTOR"})
	require.NoError(t, err)

	res, err := f.auth.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.Password)
	assert.NotEmpty(t, res.Token)

	_, err = f.auth.Register(ctx, in)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = f.auth.Login(ctx, dto.LoginInput{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	login, err := f.auth.Login(ctx, dto.LoginInput{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	sess, err := f.auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, sess.UserID)
	assert.Equal(t, model.Instructor, sess.Role)

	me, err := f.auth.Me(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", me.Email)

	require.NoError(t, f.store.Revoke(ctx, sess.TokenID, time.Hour))
	_, err = f.auth.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, util.ErrTokenInvalid)

	// 注销只影响当前令牌
	_, err = f.auth.Authenticate(ctx, res.Token)
	assert.NoError(t, err)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, util.ErrTokenMissing)

	_, err = f.auth.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, util.ErrTokenInvalid)

	user := &model.User{Role: model.Student}
	user.ID = "u1"
	token, _, err := util.GenerateJWT(user, "another-secret", time.Hour)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, util.ErrTokenInvalid)

	expired, _, err := util.GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, util.ErrTokenInvalid)
}
