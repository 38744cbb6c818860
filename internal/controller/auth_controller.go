package controller

import (
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Sessions    session.Store
}

func NewAuthController(authService *service.AuthService, sessions session.Store) *AuthController {
	return &AuthController{
		AuthService: authService,
		Sessions:    sessions,
	}
}

// Register godoc
// @Summary 注册
// @Description 注册学生或讲师账号，返回用户信息与访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewRegisterInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	res, err := c.AuthService.Register(ctx.Request.Context(), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// Login godoc
// @Summary 登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body dto.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	in, err := dto.NewLoginInput(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	res, err := c.AuthService.Login(ctx.Request.Context(), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Me godoc
// @Summary 当前用户
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, err := c.AuthService.Me(ctx.Request.Context(), session.FromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Logout godoc
// @Summary 注销
// @Description 吊销当前访问令牌
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := session.Clear(ctx, c.Sessions); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Logged out"})
}
