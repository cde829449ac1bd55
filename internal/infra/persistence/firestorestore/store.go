/*
 * @Description: Google Cloud Firestore 存储后端
 */
package firestorestore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

const (
	collCategories = "categories"
	collLinks      = "links"
)

// Store 把两类实体存为两个集合的文档，文档 ID 即对外的公共 ID，
// 新建时用随机 UUID 充当文档 ID。删除分类的级联跑在 RunTransaction 里。
type Store struct {
	client *firestore.Client
}

type categoryDoc struct {
	Name        string `firestore:"name"`
	Description string `firestore:"description,omitempty"`
	Icon        string `firestore:"icon,omitempty"`
}

type linkDoc struct {
	Title       string `firestore:"title"`
	URL         string `firestore:"url"`
	Description string `firestore:"description,omitempty"`
	CategoryID  string `firestore:"categoryId"`
	Icon        string `firestore:"icon,omitempty"`
	IconSource  string `firestore:"iconSource,omitempty"`
}

// New 从配置构建 Firestore 客户端。项目 ID 缺失立即返回 ConfigError。
// 凭证文件路径可选：不设置时走 Application Default Credentials。
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	projectID := cfg.GetString(config.KeyFirestoreProject)
	if projectID == "" {
		return nil, repository.NewConfigError("firestore", "需要 Firestore.ProjectID")
	}

	var opts []option.ClientOption
	if credFile := cfg.GetString(config.KeyFirestoreCredentials); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建 Firestore 客户端失败: %w: %w", repository.ErrConnection, err)
	}

	log.Printf("✅ Firestore 客户端初始化成功 (项目: %s)！", projectID)
	return &Store{client: client}, nil
}

func (s *Store) categories() *firestore.CollectionRef { return s.client.Collection(collCategories) }
func (s *Store) links() *firestore.CollectionRef      { return s.client.Collection(collLinks) }

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// --- 分类 ---

func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	iter := s.categories().Documents(ctx)
	defer iter.Stop()

	var out []*model.Category
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("查询分类列表失败: %w", err)
		}
		var doc categoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("解析分类文档 %s 失败: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toModel(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	snap, err := s.categories().Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	var doc categoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("解析分类文档失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	id := uuid.NewString()
	doc := categoryDoc{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if _, err := s.categories().Doc(id).Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("插入分类失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	ref := s.categories().Doc(id)
	doc := categoryDoc{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	// 先确认存在再整条覆盖，避免 Set 把更新悄悄变成新建
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, doc)
	})
	if isNotFound(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	ref := s.categories().Doc(id)
	removed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Firestore 事务要求全部读在写之前
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		snaps, err := tx.Documents(s.links().Where("categoryId", "==", id)).GetAll()
		if err != nil {
			return fmt.Errorf("查询待级联链接失败: %w", err)
		}
		for _, snap := range snaps {
			if err := tx.Delete(snap.Ref); err != nil {
				return fmt.Errorf("级联删除链接失败: %w", err)
			}
		}
		if err := tx.Delete(ref); err != nil {
			return fmt.Errorf("删除分类失败: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// --- 链接 ---

func (s *Store) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	return s.collectLinks(ctx, s.links().Documents(ctx))
}

func (s *Store) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	return s.collectLinks(ctx, s.links().Where("categoryId", "==", categoryID).Documents(ctx))
}

func (s *Store) collectLinks(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.LinkItem, error) {
	defer iter.Stop()

	var out []*model.LinkItem
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("查询链接列表失败: %w", err)
		}
		var doc linkDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("解析链接文档 %s 失败: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toModel(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	snap, err := s.links().Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询链接失败: %w", err)
	}
	var doc linkDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("解析链接文档失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	id := uuid.NewString()
	doc := linkDoc{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	if _, err := s.links().Doc(id).Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("插入链接失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	ref := s.links().Doc(id)
	doc := linkDoc{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, doc)
	})
	if isNotFound(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("更新链接失败: %w", err)
	}
	return doc.toModel(id), nil
}

func (s *Store) DeleteLink(ctx context.Context, id string) (bool, error) {
	ref := s.links().Doc(id)
	removed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("删除链接失败: %w", err)
	}
	return removed, nil
}

// HealthCheck 做一次 limit 1 的最小查询；Firestore 没有专门的 ping 原语。
func (s *Store) HealthCheck(ctx context.Context) error {
	iter := s.categories().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("%w: %w", repository.ErrConnection, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (d *categoryDoc) toModel(id string) *model.Category {
	return &model.Category{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
	}
}

func (d *linkDoc) toModel(id string) *model.LinkItem {
	return &model.LinkItem{
		ID:          id,
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Icon:        d.Icon,
		IconSource:  d.IconSource,
	}
}
