/*
 * @Description: 数据库连接管理 (支持多种关系型数据库)
 */
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池，支持 postgres / mysql / sqlite。
// 连接参数不完整时立即返回 ConfigError，绝不延迟到第一条查询才暴露问题。
// 第二个返回值是规范化后的数据库类型，供上层拼接方言相关的 SQL 使用。
func NewSQLDB(cfg *config.Config) (*sql.DB, string, error) {
	driver := cfg.GetString(config.KeyDBType)
	if driver == "" {
		log.Println("提示: 未指定 'Database.Type'，默认使用 'postgres'。")
		driver = "postgres"
	}

	var dsn string
	var driverName string

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	switch driver {
	case "postgres":
		driverName = "postgres"
		// 优先使用完整连接串，否则用离散参数拼接
		if v := cfg.GetString(config.KeyDBDSN); v != "" {
			dsn = v
			break
		}
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", repository.NewConfigError("database",
				"PostgreSQL 连接参数不完整 (需要 DSN，或 Host, Port, User, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case "mysql":
		driverName = "mysql"
		if v := cfg.GetString(config.KeyDBDSN); v != "" {
			dsn = v
			break
		}
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", repository.NewConfigError("database",
				"MySQL 连接参数不完整 (需要 DSN，或 Host, Port, User, Name)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
	case "sqlite", "sqlite3":
		// modernc.org/sqlite 注册的驱动名是 "sqlite"
		driverName = "sqlite"
		driver = "sqlite"

		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, "", fmt.Errorf("无法创建 data 目录: %w", err)
		}

		finalDbName := dbName
		if finalDbName == "" {
			finalDbName = "linkhub.db"
		}

		finalPath := filepath.Join(dataDir, finalDbName)
		log.Printf("【提示】SQLite 数据库路径: %s\n", finalPath)

		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", finalPath)
	default:
		return nil, "", repository.NewConfigError("database",
			fmt.Sprintf("不支持的数据库驱动: %s (支持: postgres, mysql, sqlite)", driver))
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("打开 sql.DB 连接失败 (驱动: %s): %w", driverName, err)
	}

	// 设置连接池参数
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	// 验证数据库连接
	if err := db.Ping(); err != nil {
		db.Close() // ping 失败时关闭连接以释放资源
		return nil, "", fmt.Errorf("无法 Ping 通数据库 (驱动: %s): %w: %w", driverName, repository.ErrConnection, err)
	}

	log.Printf("✅ %s 数据库连接池创建成功！\n", driver)
	return db, driver, nil
}
