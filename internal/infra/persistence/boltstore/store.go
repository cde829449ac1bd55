/*
 * @Description: 本地 bbolt 存储后端 (localStorage 的服务端等价物)
 */
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

const (
	bucketDirectory = "directory"  // 唯一的 bucket
	slotCategories  = "categories" // key: 分类 JSON 数组
	slotLinks       = "links"      // key: 链接 JSON 数组
)

// Store 把两类实体分别存为一个 JSON 序列化的数组，每次操作都整读整写。
// 这是刻意保留的朴素实现：数据量是个人链接目录的量级，不做索引。
// 级联删除跑在同一个 bbolt Update 事务里，天然原子。
type Store struct {
	db *bbolt.DB
}

// New 在指定路径打开（或创建）数据库文件。
// 首次打开且分类槽位为空时，写入固定的默认数据集（4 个分类、5 条链接）。
func New(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开本地存储文件 %s 失败: %w: %w", path, repository.ErrConnection, err)
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketDirectory))
		if err != nil {
			return err
		}
		return seedIfEmpty(b)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("初始化本地存储失败: %w", err)
	}

	return s, nil
}

// seedIfEmpty 在分类槽位缺失或为空数组时写入默认数据集。
func seedIfEmpty(b *bbolt.Bucket) error {
	raw := b.Get([]byte(slotCategories))
	if raw != nil {
		var existing []*model.Category
		if err := json.Unmarshal(raw, &existing); err == nil && len(existing) > 0 {
			return nil
		}
	}

	categories := []*model.Category{
		{ID: "1", Name: "General", Description: "Everyday links", Icon: "globe"},
		{ID: "2", Name: "Work", Description: "Work tools", Icon: "briefcase"},
		{ID: "3", Name: "Development", Description: "Developer resources", Icon: "code"},
		{ID: "4", Name: "Learning", Description: "Learning material", Icon: "book"},
	}
	links := []*model.LinkItem{
		{ID: "1", Title: "Hacker News", URL: "https://news.ycombinator.com", CategoryID: "1", Icon: "newspaper"},
		{ID: "2", Title: "Gmail", URL: "https://mail.google.com", CategoryID: "2", Icon: "mail"},
		{ID: "3", Title: "GitHub", URL: "https://github.com", CategoryID: "3", Icon: "github"},
		{ID: "4", Title: "Stack Overflow", URL: "https://stackoverflow.com", CategoryID: "3", Icon: "stack"},
		{ID: "5", Title: "MDN Web Docs", URL: "https://developer.mozilla.org", CategoryID: "4", Icon: "book-open"},
	}

	if err := writeSlot(b, slotCategories, categories); err != nil {
		return err
	}
	if err := writeSlot(b, slotLinks, links); err != nil {
		return err
	}
	log.Println("✅ 本地存储为空，已写入默认数据集 (4 个分类 / 5 条链接)。")
	return nil
}

func readCategories(b *bbolt.Bucket) ([]*model.Category, error) {
	var out []*model.Category
	if raw := b.Get([]byte(slotCategories)); raw != nil {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("反序列化分类数据失败: %w", err)
		}
	}
	return out, nil
}

func readLinks(b *bbolt.Bucket) ([]*model.LinkItem, error) {
	var out []*model.LinkItem
	if raw := b.Get([]byte(slotLinks)); raw != nil {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("反序列化链接数据失败: %w", err)
		}
	}
	return out, nil
}

func writeSlot(b *bbolt.Bucket, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化槽位 %s 失败: %w", slot, err)
	}
	return b.Put([]byte(slot), raw)
}

// nextID 生成时间戳风格的字符串 ID；同一纳秒内的碰撞靠自增避开。
func nextID(taken map[string]bool) string {
	n := time.Now().UnixNano()
	for {
		id := strconv.FormatInt(n, 10)
		if !taken[id] {
			return id
		}
		n++
	}
}

func (s *Store) bucket(tx *bbolt.Tx) *bbolt.Bucket {
	return tx.Bucket([]byte(bucketDirectory))
}

// --- 分类 ---

func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var out []*model.Category
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = readCategories(s.bucket(tx))
		return err
	})
	return out, err
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var found *model.Category
	err := s.db.View(func(tx *bbolt.Tx) error {
		cats, err := readCategories(s.bucket(tx))
		if err != nil {
			return err
		}
		for _, c := range cats {
			if c.ID == id {
				found = c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Store) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	created := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		cats, err := readCategories(b)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(cats))
		for _, c := range cats {
			taken[c.ID] = true
		}
		created.ID = nextID(taken)
		return writeSlot(b, slotCategories, append(cats, created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	updated := &model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		cats, err := readCategories(b)
		if err != nil {
			return err
		}
		for i, c := range cats {
			if c.ID == id {
				cats[i] = updated
				return writeSlot(b, slotCategories, cats)
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		cats, err := readCategories(b)
		if err != nil {
			return err
		}
		kept := cats[:0]
		for _, c := range cats {
			if c.ID == id {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		if !removed {
			return nil
		}

		// 级联删除该分类名下的全部链接，与分类删除同处一个事务
		links, err := readLinks(b)
		if err != nil {
			return err
		}
		keptLinks := links[:0]
		for _, l := range links {
			if l.CategoryID != id {
				keptLinks = append(keptLinks, l)
			}
		}
		if err := writeSlot(b, slotLinks, keptLinks); err != nil {
			return err
		}
		return writeSlot(b, slotCategories, kept)
	})
	return removed, err
}

// --- 链接 ---

func (s *Store) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	var out []*model.LinkItem
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = readLinks(s.bucket(tx))
		return err
	})
	return out, err
}

func (s *Store) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	all, err := s.ListLinks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.LinkItem, 0, len(all))
	for _, l := range all {
		if l.CategoryID == categoryID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	var found *model.LinkItem
	err := s.db.View(func(tx *bbolt.Tx) error {
		links, err := readLinks(s.bucket(tx))
		if err != nil {
			return err
		}
		for _, l := range links {
			if l.ID == id {
				found = l
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Store) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	created := &model.LinkItem{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		links, err := readLinks(b)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(links))
		for _, l := range links {
			taken[l.ID] = true
		}
		created.ID = nextID(taken)
		return writeSlot(b, slotLinks, append(links, created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	updated := &model.LinkItem{
		ID:          id,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		links, err := readLinks(b)
		if err != nil {
			return err
		}
		for i, l := range links {
			if l.ID == id {
				links[i] = updated
				return writeSlot(b, slotLinks, links)
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteLink(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := s.bucket(tx)
		links, err := readLinks(b)
		if err != nil {
			return err
		}
		kept := links[:0]
		for _, l := range links {
			if l.ID == id {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		if !removed {
			return nil
		}
		return writeSlot(b, slotLinks, kept)
	})
	return removed, err
}

// HealthCheck 验证文件句柄仍然可读。
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if s.bucket(tx) == nil {
			return fmt.Errorf("directory bucket 缺失: %w", repository.ErrConnection)
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
