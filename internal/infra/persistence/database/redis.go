package database

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 接收配置并返回 Redis 客户端或错误。
// Redis 在本应用里只承担页面缓存，属可选组件；调用方在 Redis.Addr
// 为空时应跳过本函数，缓存自动退化为关闭状态。
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	redisPassword := cfg.GetString(config.KeyRedisPassword)

	if redisAddr == "" {
		return nil, fmt.Errorf("Redis.Addr 未在配置中设置")
	}

	redisDB := 0
	if v := cfg.GetString(config.KeyRedisDB); v != "" {
		var err error
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("无效的 Redis.DB 值 '%s': %w", v, err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// 检查连接，返回 error 而不是 Fatal
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis (%s, DB %d) 失败: %w", redisAddr, redisDB, err)
	}

	log.Printf("成功连接到 Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb, nil
}
