/*
 * @Description: 页面缓存服务 (Redis，可选组件)
 */
package utility

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
)

const (
	directoryCacheKey = "linkhub:public:directory"
	directoryCacheTTL = 10 * time.Minute
)

// CacheService 缓存前台目录页的完整载荷。
// 未配置 Redis 时以禁用模式运行，所有方法退化为无操作，
// 前台每次都直接回源查询存储后端。
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService 构造缓存服务；rdb 传 nil 表示禁用缓存。
func NewCacheService(rdb *redis.Client) *CacheService {
	if rdb == nil {
		log.Println("提示: 未配置 Redis，页面缓存已禁用。")
	}
	return &CacheService{rdb: rdb}
}

// GetDirectory 尝试读取缓存的目录载荷，未命中返回 (nil, nil)。
func (s *CacheService) GetDirectory(ctx context.Context) ([]*model.CategoryWithLinks, error) {
	if s.rdb == nil {
		return nil, nil
	}
	raw, err := s.rdb.Get(ctx, directoryCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		// 缓存故障不应拖垮读路径，记录后按未命中处理
		log.Printf("⚠️ 读取目录缓存失败: %v", err)
		return nil, nil
	}
	var out []*model.CategoryWithLinks
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("⚠️ 目录缓存内容损坏，已忽略: %v", err)
		return nil, nil
	}
	return out, nil
}

// SetDirectory 写入目录载荷缓存。
func (s *CacheService) SetDirectory(ctx context.Context, payload []*model.CategoryWithLinks) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ 序列化目录缓存失败: %v", err)
		return
	}
	if err := s.rdb.Set(ctx, directoryCacheKey, raw, directoryCacheTTL).Err(); err != nil {
		log.Printf("⚠️ 写入目录缓存失败: %v", err)
	}
}

// InvalidateDirectory 在任何成功的写操作之后调用，清掉已物化的目录视图。
func (s *CacheService) InvalidateDirectory(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, directoryCacheKey).Err(); err != nil {
		log.Printf("⚠️ 失效目录缓存失败: %v", err)
	}
}
