/*
 * @Description: 统一配置管理 (手动加载，文件默认值 + 环境变量覆盖)
 */
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyStorageBackend,
	KeyDBType, KeyDBDSN, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName,
	KeyLocalPath,
	KeyMongoURI, KeyMongoDatabase,
	KeyFirestoreProject, KeyFirestoreCredentials,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyAdminUsername, KeyAdminPassword,
	KeyJWTSecret,
	KeyLinkCheckCron,
}

const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"

	// KeyStorageBackend 选择存储后端：local / database / mongodb / firestore
	KeyStorageBackend = "Storage.Backend"

	KeyDBType     = "Database.Type"
	KeyDBDSN      = "Database.DSN"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"

	KeyLocalPath = "Local.Path"

	KeyMongoURI      = "Mongo.URI"
	KeyMongoDatabase = "Mongo.Database"

	KeyFirestoreProject     = "Firestore.ProjectID"
	KeyFirestoreCredentials = "Firestore.CredentialsFile"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyAdminUsername = "Admin.Username"
	KeyAdminPassword = "Admin.Password"

	KeyJWTSecret = "Auth.JWTSecret"

	KeyLinkCheckCron = "Task.LinkCheckCron"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 手动加载配置：先读 data/conf.ini 作为默认值，再用环境变量逐键覆盖。
// 环境变量命名规则：LINKHUB_ + 大写键名，点号换下划线，如 LINKHUB_STORAGE_BACKEND。
func NewConfig() (*Config, error) {
	vp := viper.New()
	filePath := "data/conf.ini"

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将仅依赖环境变量或内部默认值。", filePath)
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				// 特殊处理默认分区 "DEFAULT"
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Println("从 data/conf.ini 文件加载了默认配置。")
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "LINKHUB"

	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))

		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// Set 仅供测试注入配置值使用。
func (c *Config) Set(key string, value any) {
	c.vp.Set(key, value)
}
