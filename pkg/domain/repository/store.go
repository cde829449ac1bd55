package repository

import (
	"context"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
)

// Store 是存储后端的能力接口：针对分类和链接两种实体的完整 CRUD。
// 四个后端（本地 bbolt、关系型数据库、MongoDB、Firestore）各自实现一遍，
// 上层通过 persistence.Provider 选出其中一个使用，调用方完全不感知差异。
type Store interface {
	// --- 分类 ---

	// ListCategories 返回全部分类，不保证顺序。
	ListCategories(ctx context.Context) ([]*model.Category, error)
	// GetCategory 按 ID 查询分类，不存在时返回 ErrNotFound。
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	// CreateCategory 持久化一个新分类，ID 由后端生成并随记录一起返回。
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	// UpdateCategory 整条覆盖更新，目标不存在时返回 ErrNotFound。
	UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error)
	// DeleteCategory 删除分类并级联删除其名下所有链接。
	// 返回 (false, nil) 表示没有这条记录可删；返回 error 表示删除动作本身失败，
	// 两种结果必须可区分。支持事务的后端必须把两步删除放在同一个事务里。
	DeleteCategory(ctx context.Context, id string) (bool, error)

	// --- 链接 ---

	// ListLinks 返回全部链接，不保证顺序。
	ListLinks(ctx context.Context) ([]*model.LinkItem, error)
	// ListLinksByCategory 按 categoryId 等值过滤，不保证顺序。
	ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error)
	GetLink(ctx context.Context, id string) (*model.LinkItem, error)
	CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error)
	UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error)
	// DeleteLink 删除单条链接，无级联，返回语义同 DeleteCategory。
	DeleteLink(ctx context.Context, id string) (bool, error)

	// HealthCheck 是一次廉价的存活探测（ping / SELECT 1），
	// Provider 在复用缓存实例前调用它，失败则重建实例。
	HealthCheck(ctx context.Context) error
	// Close 释放后端持有的连接池或客户端资源。
	Close() error
}
