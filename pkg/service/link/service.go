package link

import (
	"context"

	"github.com/qingmu-w/linkhub-app/internal/app/task"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence"
	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/service/utility"
)

// Service 定义了链接目录的业务逻辑接口。
// 它是存储后端之上的稳定门面：每个方法向 Provider 取当前活动的
// 存储实例并委托一次调用，除了在写操作成功后失效页面缓存、
// 在链接变更后派发死链巡检之外，不承载其他业务逻辑。
type Service interface {
	// --- 前台接口 ---
	GetDirectory(ctx context.Context) ([]*model.CategoryWithLinks, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error)

	// --- 后台接口 ---
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)
	ListLinks(ctx context.Context) ([]*model.LinkItem, error)
	GetLink(ctx context.Context, id string) (*model.LinkItem, error)
	CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error)
	UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error)
	DeleteLink(ctx context.Context, id string) (bool, error)
}

type service struct {
	provider *persistence.Provider
	cacheSvc *utility.CacheService
	// 用于派发异步任务的 Broker，可为 nil（测试场景）
	broker *task.Broker
}

// NewService 是 service 的构造函数，注入所有依赖。
func NewService(provider *persistence.Provider, cacheSvc *utility.CacheService, broker *task.Broker) Service {
	return &service{
		provider: provider,
		cacheSvc: cacheSvc,
		broker:   broker,
	}
}

// GetDirectory 组装前台目录页：每个分类和它名下的全部链接。
// 优先命中 Redis 缓存，未命中时回源并回填。
func (s *service) GetDirectory(ctx context.Context) ([]*model.CategoryWithLinks, error) {
	if cached, err := s.cacheSvc.GetDirectory(ctx); err == nil && cached != nil {
		return cached, nil
	}

	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	links, err := store.ListLinks(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*model.LinkItem, len(categories))
	for _, l := range links {
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], l)
	}

	out := make([]*model.CategoryWithLinks, 0, len(categories))
	for _, c := range categories {
		entry := &model.CategoryWithLinks{Category: *c, Links: byCategory[c.ID]}
		if entry.Links == nil {
			entry.Links = []*model.LinkItem{}
		}
		out = append(out, entry)
	}

	s.cacheSvc.SetDirectory(ctx, out)
	return out, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListCategories(ctx)
}

func (s *service) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.GetCategory(ctx, id)
}

// CreateCategory 创建分类，成功后失效目录缓存。
func (s *service) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	created, err := store.CreateCategory(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cacheSvc.InvalidateDirectory(ctx)
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := store.UpdateCategory(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.cacheSvc.InvalidateDirectory(ctx)
	return updated, nil
}

// DeleteCategory 删除分类（存储层级联清理名下链接），成功后失效目录缓存。
func (s *service) DeleteCategory(ctx context.Context, id string) (bool, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return false, err
	}
	removed, err := store.DeleteCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.cacheSvc.InvalidateDirectory(ctx)
	}
	return removed, nil
}

func (s *service) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListLinks(ctx)
}

func (s *service) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListLinksByCategory(ctx, categoryID)
}

func (s *service) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.GetLink(ctx, id)
}

// CreateLink 创建链接，成功后失效目录缓存并派发一次死链巡检。
func (s *service) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	created, err := store.CreateLink(ctx, req)
	if err != nil {
		return nil, err
	}
	s.afterLinkMutation(ctx)
	return created, nil
}

func (s *service) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := store.UpdateLink(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.afterLinkMutation(ctx)
	return updated, nil
}

func (s *service) DeleteLink(ctx context.Context, id string) (bool, error) {
	store, err := s.provider.Store(ctx)
	if err != nil {
		return false, err
	}
	removed, err := store.DeleteLink(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.afterLinkMutation(ctx)
	}
	return removed, nil
}

// afterLinkMutation 是链接写操作成功后的收尾：失效缓存、派发巡检。
func (s *service) afterLinkMutation(ctx context.Context) {
	s.cacheSvc.InvalidateDirectory(ctx)
	if s.broker != nil {
		s.broker.DispatchLinkSweep()
	}
}
