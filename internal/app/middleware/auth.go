package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/response"
	"github.com/qingmu-w/linkhub-app/pkg/service/auth"
)

// ClaimsKey 是存入 gin.Context 的管理员身份信息键。
const ClaimsKey = "admin_claims"

type Middleware struct {
	tokenSvc *auth.TokenService
}

func NewMiddleware(tokenSvc *auth.TokenService) *Middleware {
	return &Middleware{tokenSvc: tokenSvc}
}

// JWTAuth 是一个强制性的JWT认证中间件，守住全部后台管理路由。
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Fail(c, http.StatusUnauthorized, "Token格式不正确")
			c.Abort()
			return
		}

		claims, err := m.tokenSvc.ParseAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
