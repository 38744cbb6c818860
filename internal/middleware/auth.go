package middleware

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// Authenticator 将访问令牌解析为会话
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// AuthMiddleware 必须登录，会话加载到请求上下文
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}
		session.Load(c, s)
		c.Next()
	}
}

// TryAuthMiddleware 可选登录：令牌有效时加载会话，否则按匿名继续
func TryAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if s, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				session.Load(c, s)
			}
		}
		c.Next()
	}
}

// RoleMiddleware 角色白名单，管理员直接放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil {
			util.HandleError(c, util.ErrTokenMissing)
			c.Abort()
			return
		}

		if s.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if s.Role == role {
				c.Next()
				return
			}
		}

		util.HandleError(c, util.ErrInstructorRequired)
		c.Abort()
	}
}
