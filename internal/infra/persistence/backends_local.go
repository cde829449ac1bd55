//go:build localonly

package persistence

import (
	"context"
	"fmt"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/boltstore"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

// buildStore 的 localonly 构建版本：只链接本地 bbolt 后端。
// 用 -tags localonly 编译出的二进制面向不可信的分发环境，
// 配置任何网络后端都会在启动时直接报 ConfigError。
func buildStore(ctx context.Context, cfg *config.Config, kind string) (repository.Store, error) {
	if kind != "local" {
		return nil, repository.NewConfigError(kind, "此构建仅包含本地存储后端 (localonly)")
	}
	path, err := localStorePath(cfg)
	if err != nil {
		return nil, fmt.Errorf("准备本地存储路径失败: %w", err)
	}
	return boltstore.New(path)
}
