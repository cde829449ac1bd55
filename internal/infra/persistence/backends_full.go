//go:build !localonly

package persistence

import (
	"context"
	"fmt"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/boltstore"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/firestorestore"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/mongostore"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/sqlstore"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

// buildStore 的完整构建版本：四个后端全部可用。
// 浏览器场景的等价物是 localonly 构建 (见 backends_local.go)，
// 网络后端的驱动和凭证根本不会编进那份二进制。
func buildStore(ctx context.Context, cfg *config.Config, kind string) (repository.Store, error) {
	switch kind {
	case "local":
		path, err := localStorePath(cfg)
		if err != nil {
			return nil, fmt.Errorf("准备本地存储路径失败: %w", err)
		}
		return boltstore.New(path)
	case "database":
		return sqlstore.New(cfg)
	case "mongodb":
		return mongostore.New(ctx, cfg)
	case "firestore":
		return firestorestore.New(ctx, cfg)
	default:
		return nil, repository.NewConfigError(kind, "未知的存储后端类型")
	}
}
