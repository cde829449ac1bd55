// linkhub-app/internal/infra/config/config_test.go
package config

import (
	"testing"
)

// TestEnvOverride 环境变量应当覆盖文件默认值
func TestEnvOverride(t *testing.T) {
	t.Setenv("LINKHUB_STORAGE_BACKEND", "mongodb")
	t.Setenv("LINKHUB_SYSTEM_PORT", "9000")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if got := cfg.GetString(KeyStorageBackend); got != "mongodb" {
		t.Errorf("Storage.Backend = %q, want %q", got, "mongodb")
	}
	if got := cfg.GetString(KeyServerPort); got != "9000" {
		t.Errorf("System.Port = %q, want %q", got, "9000")
	}
}

// TestUnsetKeysAreEmpty 未配置的键返回零值
func TestUnsetKeysAreEmpty(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if got := cfg.GetString(KeyMongoURI); got != "" {
		t.Errorf("未设置的 Mongo.URI 应当为空字符串, got %q", got)
	}
	if got := cfg.GetInt(KeyRedisDB); got != 0 {
		t.Errorf("未设置的 Redis.DB 应当为 0, got %d", got)
	}
	if cfg.GetBool(KeyServerDebug) {
		t.Error("未设置的 System.Debug 应当为 false")
	}
}

// TestSetForTests 测试注入的值可以被读出
func TestSetForTests(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	cfg.Set(KeyDBType, "postgres")
	if got := cfg.GetString(KeyDBType); got != "postgres" {
		t.Errorf("Database.Type = %q, want %q", got, "postgres")
	}
}
