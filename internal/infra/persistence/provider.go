/*
 * @Description: 存储后端选择器 (每进程一个活动实例，带健康检查复用)
 */
package persistence

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"

	"sync"
)

// Provider 按配置选出一个存储后端实例并缓存。
// 复用缓存实例前先跑一次 HealthCheck，失败则关闭、丢弃并重建一次；
// 重建仍失败就把错误原样抛给调用方，不做进一步兜底。
//
// 选择规则：Storage.Backend 未设置或不认识时回落到 local 并打日志；
// 认识的后端一旦缺少必需参数，立即返回 ConfigError —— 绝不静默换成
// 本地存储，否则后台的写入会无声无息地落进一个一次性的库里。
type Provider struct {
	cfg *config.Config

	mu    sync.Mutex
	store repository.Store
}

// NewProvider 构造选择器，不会立刻建连；第一次 Store 调用才构造后端。
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg}
}

// Store 返回当前活动的存储后端实例。
func (p *Provider) Store(ctx context.Context) (repository.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store != nil {
		if err := p.store.HealthCheck(ctx); err == nil {
			return p.store, nil
		} else {
			log.Printf("⚠️ 缓存的存储实例健康检查失败，将重建: %v", err)
			_ = p.store.Close()
			p.store = nil
		}
	}

	st, err := buildStore(ctx, p.cfg, p.Kind())
	if err != nil {
		return nil, err
	}
	p.store = st
	return p.store, nil
}

// Kind 返回规范化后的后端类型。
func (p *Provider) Kind() string {
	switch v := p.cfg.GetString(config.KeyStorageBackend); v {
	case "local", "database", "mongodb", "firestore":
		return v
	case "":
		return "local"
	default:
		log.Printf("提示: 无法识别的存储后端 '%s'，回落到 local。", v)
		return "local"
	}
}

// Close 关闭当前缓存的实例（进程退出时调用）。
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

// localStorePath 计算本地存储文件路径，默认落在 data 目录下。
func localStorePath(cfg *config.Config) (string, error) {
	if v := cfg.GetString(config.KeyLocalPath); v != "" {
		return v, nil
	}
	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		return "", err
	}
	return filepath.Join("./data", "linkhub.bolt"), nil
}
