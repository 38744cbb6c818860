package service

import (
	"context"
	"errors"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Sessions session.Store
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, sessions session.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Cfg:      cfg,
	}
}

// AuthResult 注册/登录返回的用户与访问令牌
// swagger:model AuthResult
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, in dto.RegisterInput) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    in.Email,
		Password: string(hashed),
		Name:     in.Name,
		Role:     in.Role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.String("userId", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in dto.LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, _, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate 校验令牌签名、有效期及是否已注销，返回请求会话
func (s *AuthService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, util.ErrTokenMissing
	}
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, util.ErrTokenInvalid
	}

	revoked, err := s.Sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, util.ErrTokenInvalid
	}
	return session.FromClaims(claims), nil
}

// Me 当前登录用户，账号已被删除时返回 NotFound
func (s *AuthService) Me(ctx context.Context, principal *session.Session) (*model.User, error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}
	return s.UserRepo.FindByID(ctx, principal.UserID)
}
