/*
 * @Description: 关系型数据库存储后端 (postgres / mysql / sqlite)
 */
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/database"
	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
	"github.com/qingmu-w/linkhub-app/pkg/idgen"
)

// Store 基于 database/sql 实现存储能力接口。
// 两张表：categories 和 links，links.category_id 是无约束的软外键列。
// 行号自增 ID 经 sqids 编码后才对外暴露，外部看到的始终是不透明字符串。
// 删除分类的级联跑在一个显式事务里。
type Store struct {
	db     *sql.DB
	dbType string
}

// New 从配置构建连接池、同步表结构并返回 Store。
// 连接参数不完整时 database.NewSQLDB 会直接返回 ConfigError。
func New(cfg *config.Config) (*Store, error) {
	db, dbType, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	s := NewWithDB(db, dbType)
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("同步表结构失败: %w", err)
	}
	return s, nil
}

// NewWithDB 直接用现成的连接池构建 Store，测试用。
func NewWithDB(db *sql.DB, dbType string) *Store {
	return &Store{db: db, dbType: dbType}
}

// rebind 把查询里的 ? 占位符改写成 postgres 的 $n 形式，其余方言原样返回。
func (s *Store) rebind(query string) string {
	if s.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// ensureSchema 按方言建表。各方言的自增主键写法不同，其余列一致。
func (s *Store) ensureSchema(ctx context.Context) error {
	var pk string
	switch s.dbType {
	case "postgres":
		pk = "BIGSERIAL PRIMARY KEY"
	case "mysql":
		pk = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	default: // sqlite
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
			id %s,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			icon VARCHAR(64)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS links (
			id %s,
			title VARCHAR(255) NOT NULL,
			url TEXT NOT NULL,
			description TEXT,
			category_id VARCHAR(64) NOT NULL,
			icon VARCHAR(64),
			icon_source VARCHAR(64)
		)`, pk),
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// insertReturningID 执行插入并取回自增 ID，postgres 走 RETURNING，其余走 LastInsertId。
func (s *Store) insertReturningID(ctx context.Context, query string, args ...any) (uint, error) {
	if s.dbType == "postgres" {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, err
		}
		return uint(id), nil
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// decodeID 把公共 ID 还原成行号；解码失败或实体类型不符都按"不存在"处理。
func decodeID(publicID string, entityType uint64) (uint, error) {
	dbID, typ, err := idgen.DecodePublicID(publicID)
	if err != nil || typ != entityType {
		return 0, repository.ErrNotFound
	}
	return dbID, nil
}

// --- 分类 ---

func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, icon FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	dbID, err := decodeID(id, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, description, icon FROM categories WHERE id = ?`), dbID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	dbID, err := s.insertReturningID(ctx,
		`INSERT INTO categories (name, description, icon) VALUES (?, ?, ?)`,
		req.Name, req.Description, req.Icon)
	if err != nil {
		return nil, fmt.Errorf("插入分类失败: %w", err)
	}
	publicID, err := idgen.GeneratePublicID(dbID, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	return &model.Category{
		ID:          publicID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	dbID, err := decodeID(id, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE categories SET name = ?, description = ?, icon = ? WHERE id = ?`),
		req.Name, req.Description, req.Icon, dbID)
	if err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// MySQL 在值未变化时也报告 0 行，需要再确认记录是否真的不存在
		exists, err := s.rowExists(ctx, "categories", dbID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
	}
	return &model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	dbID, err := decodeID(id, idgen.EntityTypeCategory)
	if err != nil {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("启动级联删除事务失败: %w", err)
	}
	defer tx.Rollback()

	// 先清理名下链接，再删除分类本身，两步同属一个事务
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM links WHERE category_id = ?`), id); err != nil {
		return false, fmt.Errorf("级联删除链接失败: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM categories WHERE id = ?`), dbID)
	if err != nil {
		return false, fmt.Errorf("删除分类失败: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("提交级联删除事务失败: %w", err)
	}
	return affected > 0, nil
}

// --- 链接 ---

func (s *Store) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	return s.queryLinks(ctx, `SELECT id, title, url, description, category_id, icon, icon_source FROM links`)
}

func (s *Store) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	return s.queryLinks(ctx,
		s.rebind(`SELECT id, title, url, description, category_id, icon, icon_source FROM links WHERE category_id = ?`),
		categoryID)
}

func (s *Store) queryLinks(ctx context.Context, query string, args ...any) ([]*model.LinkItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询链接列表失败: %w", err)
	}
	defer rows.Close()

	var out []*model.LinkItem
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	dbID, err := decodeID(id, idgen.EntityTypeLink)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, title, url, description, category_id, icon, icon_source FROM links WHERE id = ?`), dbID)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询链接失败: %w", err)
	}
	return l, nil
}

func (s *Store) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	dbID, err := s.insertReturningID(ctx,
		`INSERT INTO links (title, url, description, category_id, icon, icon_source) VALUES (?, ?, ?, ?, ?, ?)`,
		req.Title, req.URL, req.Description, req.CategoryID, req.Icon, req.IconSource)
	if err != nil {
		return nil, fmt.Errorf("插入链接失败: %w", err)
	}
	publicID, err := idgen.GeneratePublicID(dbID, idgen.EntityTypeLink)
	if err != nil {
		return nil, err
	}
	return &model.LinkItem{
		ID:          publicID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}, nil
}

func (s *Store) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	dbID, err := decodeID(id, idgen.EntityTypeLink)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE links SET title = ?, url = ?, description = ?, category_id = ?, icon = ?, icon_source = ? WHERE id = ?`),
		req.Title, req.URL, req.Description, req.CategoryID, req.Icon, req.IconSource, dbID)
	if err != nil {
		return nil, fmt.Errorf("更新链接失败: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		exists, err := s.rowExists(ctx, "links", dbID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
	}
	return &model.LinkItem{
		ID:          id,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}, nil
}

func (s *Store) DeleteLink(ctx context.Context, id string) (bool, error) {
	dbID, err := decodeID(id, idgen.EntityTypeLink)
	if err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM links WHERE id = ?`), dbID)
	if err != nil {
		return false, fmt.Errorf("删除链接失败: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) rowExists(ctx context.Context, table string, dbID uint) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM `+table+` WHERE id = ?`), dbID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HealthCheck 复用连接池的 Ping 作为存活探测。
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrConnection, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(r rowScanner) (*model.Category, error) {
	var dbID uint
	var name string
	var description, icon sql.NullString
	if err := r.Scan(&dbID, &name, &description, &icon); err != nil {
		return nil, err
	}
	publicID, err := idgen.GeneratePublicID(dbID, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	return &model.Category{
		ID:          publicID,
		Name:        name,
		Description: description.String,
		Icon:        icon.String,
	}, nil
}

func scanLink(r rowScanner) (*model.LinkItem, error) {
	var dbID uint
	var title, url, categoryID string
	var description, icon, iconSource sql.NullString
	if err := r.Scan(&dbID, &title, &url, &description, &categoryID, &icon, &iconSource); err != nil {
		return nil, err
	}
	publicID, err := idgen.GeneratePublicID(dbID, idgen.EntityTypeLink)
	if err != nil {
		return nil, err
	}
	return &model.LinkItem{
		ID:          publicID,
		Title:       title,
		URL:         url,
		Description: description.String,
		CategoryID:  categoryID,
		Icon:        icon.String,
		IconSource:  iconSource.String,
	}, nil
}
