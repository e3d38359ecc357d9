package api

import (
	"blog/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Ping 账户服务存活检查
func (h *HTTPHandler) Ping(c *gin.Context) {
	Respond(c, dto.Ping{Reply: "pong!"})
}

// Register 注册普通用户
func (h *HTTPHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logrus.WithError(err).Debug("invalid registration payload")
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.accounts.Register(ctx, form)
	recordResult("register", result.String())
	Respond(c, dto.RegisterResponse{Result: result})
}

// Login 登录。无法解析的请求体按空表单处理，得到 UserNotExists。
func (h *HTTPHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logrus.WithError(err).Debug("invalid login payload, treating as empty form")
		form = dto.LoginForm{}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, token := h.accounts.Login(ctx, form)
	recordResult("login", result.String())
	Respond(c, dto.LoginResponse{Result: result, Token: token})
}

// Info 返回 token 持有者的资料
func (h *HTTPHandler) Info(c *gin.Context) {
	var query dto.TokenQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondEmpty(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	info := h.accounts.GetInfo(ctx, query.Token)
	if info == nil {
		RespondEmpty(c)
		return
	}
	Respond(c, info)
}

// GetUser 按 pk 返回用户资料
func (h *HTTPHandler) GetUser(c *gin.Context) {
	var query dto.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondEmpty(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	info := h.accounts.GetUser(ctx, query.Pk)
	if info == nil {
		RespondEmpty(c)
		return
	}
	Respond(c, info)
}
