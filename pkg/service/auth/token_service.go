/*
 * @Description: 管理员认证与 Token 服务
 */
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
)

const accessTokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("用户名或密码错误")

// Claims 是签发给管理员的 JWT 载荷。
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService 校验管理员凭证并签发/解析访问令牌。
// 管理员只有一个，凭证来自进程配置；口令在构造时就地 bcrypt 化，
// 明文不在内存里长期保留。
type TokenService struct {
	username     string
	passwordHash []byte
	secret       []byte
}

// NewTokenService 从配置构造服务。Admin.Username/Password 缺失时返回错误，
// 因为没有凭证的管理后台没有任何意义。JWT 密钥未配置时随机生成一个
// 进程级密钥（重启即失效，已签发的 Token 随之作废）。
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	username := cfg.GetString(config.KeyAdminUsername)
	password := cfg.GetString(config.KeyAdminPassword)
	if username == "" || password == "" {
		return nil, fmt.Errorf("Admin.Username 和 Admin.Password 必须配置")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("处理管理员口令失败: %w", err)
	}

	secret := cfg.GetString(config.KeyJWTSecret)
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("生成 JWT 密钥失败: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Println("提示: 未配置 Auth.JWTSecret，已生成进程级随机密钥，重启后旧 Token 将失效。")
	}

	return &TokenService{
		username:     username,
		passwordHash: hash,
		secret:       []byte(secret),
	}, nil
}

// Login 校验凭证并签发访问令牌。
func (s *TokenService) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "linkhub",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("签发 Token 失败: %w", err)
	}
	return signed, nil
}

// ParseAccessToken 解析并校验访问令牌。
func (s *TokenService) ParseAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名算法: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("解析 Token 失败: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("无效的 Token")
	}
	return claims, nil
}
