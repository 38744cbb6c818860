// Package session 定义请求级的登录会话：由鉴权中间件显式加载到请求上下文，
// 由注销接口显式清除（吊销令牌 ID）。
package session

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Session 当前请求的主体
type Session struct {
	UserID    string
	Role      model.UserRole
	TokenID   string
	ExpiresAt time.Time
}

func FromClaims(claims *util.Claims) *Session {
	s := &Session{
		UserID:  claims.UserID,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.Admin
}

// CanManage 课程所有者或管理员
func (s *Session) CanManage(ownerID string) bool {
	return s != nil && (s.UserID == ownerID || s.Role == model.Admin)
}

// Store 保存已吊销的令牌 ID，直到令牌自然过期
type Store interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func Load(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext 未登录时返回 nil
func FromContext(c *gin.Context) *Session {
	v, exists := c.Get(contextKey)
	if !exists {
		return nil
	}
	s, ok := v.(*Session)
	if !ok {
		return nil
	}
	return s
}

// Clear 吊销当前令牌并从上下文移除会话
func Clear(c *gin.Context, store Store) error {
	s := FromContext(c)
	if s == nil {
		return util.ErrTokenMissing
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl > 0 {
		if err := store.Revoke(c.Request.Context(), s.TokenID, ttl); err != nil {
			return err
		}
	}
	c.Set(contextKey, nil)
	return nil
}
