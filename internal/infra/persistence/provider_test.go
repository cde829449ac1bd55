// linkhub-app/internal/infra/persistence/provider_test.go
package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	return cfg
}

// TestKindNormalization 后端类型的规范化与回落规则
func TestKindNormalization(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    string
	}{
		{name: "unset falls back to local", backend: "", want: "local"},
		{name: "explicit local", backend: "local", want: "local"},
		{name: "database", backend: "database", want: "database"},
		{name: "mongodb", backend: "mongodb", want: "mongodb"},
		{name: "firestore", backend: "firestore", want: "firestore"},
		{name: "unrecognized falls back to local", backend: "cassandra", want: "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			cfg.Set(config.KeyStorageBackend, tt.backend)
			p := NewProvider(cfg)
			if got := p.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLocalBackendBuilds 未配置任何后端时默认构建出可用的本地存储
func TestLocalBackendBuilds(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyLocalPath, filepath.Join(t.TempDir(), "test.bolt"))

	p := NewProvider(cfg)
	defer p.Close()

	st, err := p.Store(context.Background())
	if err != nil {
		t.Fatalf("构建本地存储失败: %v", err)
	}
	if err := st.HealthCheck(context.Background()); err != nil {
		t.Errorf("本地存储健康检查失败: %v", err)
	}

	// 默认数据集就位
	cats, err := st.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("获取分类列表失败: %v", err)
	}
	if len(cats) != 4 {
		t.Errorf("默认分类数量 = %d, want 4", len(cats))
	}
}

// TestStoreReusesInstance 连续调用 Store 复用同一个实例
func TestStoreReusesInstance(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyLocalPath, filepath.Join(t.TempDir(), "test.bolt"))

	p := NewProvider(cfg)
	defer p.Close()

	first, err := p.Store(context.Background())
	if err != nil {
		t.Fatalf("第一次构建失败: %v", err)
	}
	second, err := p.Store(context.Background())
	if err != nil {
		t.Fatalf("第二次获取失败: %v", err)
	}
	if first != second {
		t.Error("健康的实例应当被复用，而不是每次重建")
	}
}

// TestDatabaseBackendMissingParams 选了 database 却不给连接参数必须立刻报 ConfigError
func TestDatabaseBackendMissingParams(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyStorageBackend, "database")

	p := NewProvider(cfg)
	defer p.Close()

	_, err := p.Store(context.Background())
	var cfgErr *repository.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("缺少连接参数应当返回 ConfigError, got %v", err)
	}
	if cfgErr.Backend != "database" {
		t.Errorf("ConfigError.Backend = %q, want %q", cfgErr.Backend, "database")
	}
}

// TestMongoBackendMissingURI 选了 mongodb 却没配 URI 必须报 ConfigError
func TestMongoBackendMissingURI(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyStorageBackend, "mongodb")

	p := NewProvider(cfg)
	defer p.Close()

	_, err := p.Store(context.Background())
	var cfgErr *repository.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("缺少 Mongo.URI 应当返回 ConfigError, got %v", err)
	}
}

// TestFirestoreBackendMissingProject 选了 firestore 却没配项目 ID 必须报 ConfigError
func TestFirestoreBackendMissingProject(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyStorageBackend, "firestore")

	p := NewProvider(cfg)
	defer p.Close()

	_, err := p.Store(context.Background())
	var cfgErr *repository.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("缺少 Firestore.ProjectID 应当返回 ConfigError, got %v", err)
	}
}

// TestCloseIdempotent 没有活动实例时 Close 是空操作
func TestCloseIdempotent(t *testing.T) {
	p := NewProvider(newTestConfig(t))
	if err := p.Close(); err != nil {
		t.Errorf("空 Provider 的 Close 不应报错: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("重复 Close 不应报错: %v", err)
	}
}
