package session

import (
	"context"
	"miniudemy_backend/internal/model"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiresRevocations(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Revoke(ctx, "tok-1", time.Minute))

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLoadAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/auth/logout", nil)

	assert.Nil(t, FromContext(c))

	s := &Session{UserID: "u1", Role: model.Student, TokenID: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}
	Load(c, s)
	assert.Same(t, s, FromContext(c))

	store := NewMemoryStore()
	require.NoError(t, Clear(c, store))
	assert.Nil(t, FromContext(c))

	revoked, err := store.IsRevoked(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestClearWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/auth/logout", nil)

	assert.Error(t, Clear(c, NewMemoryStore()))
}

func TestCanManage(t *testing.T) {
	owner := &Session{UserID: "i1", Role: model.Instructor}
	other := &Session{UserID: "i2", Role: model.Instructor}
	admin := &Session{UserID: "a1", Role: model.Admin}
	var anonymous *Session

	assert.True(t, owner.CanManage("i1"))
	assert.False(t, other.CanManage("i1"))
	assert.True(t, admin.CanManage("i1"))
	assert.False(t, anonymous.CanManage("i1"))
}
