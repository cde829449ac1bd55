package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/response"
	"github.com/qingmu-w/linkhub-app/pkg/service/auth"
)

// LoginRequest 管理员登录请求体。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler 负责处理管理员认证相关的请求。
type Handler struct {
	tokenSvc *auth.TokenService
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(tokenSvc *auth.TokenService) *Handler {
	return &Handler{tokenSvc: tokenSvc}
}

// Login 校验管理员凭证并签发访问令牌。
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "参数无效: "+err.Error())
		return
	}
	token, err := h.tokenSvc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		response.Fail(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "登录失败: "+err.Error())
		return
	}
	response.Success(c, gin.H{"token": token}, "登录成功")
}
