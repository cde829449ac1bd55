package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound 表示按 ID 查询/更新的目标记录不存在。
// 这是一个预期内的结果而非故障，调用方用 errors.Is 区分后映射为 404。
var ErrNotFound = errors.New("记录不存在")

// ErrConnection 表示与存储后端建立连接或存活探测失败。
// 构造阶段的连接失败会包装这个哨兵，Provider 据此决定是否重建一次实例。
var ErrConnection = errors.New("存储后端连接失败")

// ConfigError 表示选定后端所需的连接参数缺失或非法。
// 这是致命错误：构造函数在发起任何查询之前同步返回它，绝不静默降级到本地存储。
type ConfigError struct {
	Backend string // 后端类型，如 "database"、"mongodb"
	Reason  string // 缺失/非法的具体说明
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("后端 %s 配置错误: %s", e.Backend, e.Reason)
}

// NewConfigError 构造一个 ConfigError。
func NewConfigError(backend, reason string) *ConfigError {
	return &ConfigError{Backend: backend, Reason: reason}
}
