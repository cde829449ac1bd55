/*
 * @Description: MongoDB 存储后端
 */
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

const (
	collCategories = "categories"
	collLinks      = "links"
)

// Store 把两类实体存为两个集合的文档，ObjectID 的十六进制形式即对外的公共 ID。
// 删除分类的级联优先走多文档事务；部署拓扑不支持事务（单机 mongod）时
// 退化为先删链接、再删分类的顺序执行，并打一条降级日志。
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// categoryDoc / linkDoc 是集合内的文档形态，_id 不直接出现在领域模型里。
type categoryDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description,omitempty"`
	Icon        string        `bson:"icon,omitempty"`
}

type linkDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	URL         string        `bson:"url"`
	Description string        `bson:"description,omitempty"`
	CategoryID  string        `bson:"categoryId"`
	Icon        string        `bson:"icon,omitempty"`
	IconSource  string        `bson:"iconSource,omitempty"`
}

// New 从配置构建 Mongo 客户端。URI 或数据库名缺失立即返回 ConfigError；
// 构造阶段就 Ping 一次，连不上直接失败而不是留给第一条查询。
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	uri := cfg.GetString(config.KeyMongoURI)
	dbName := cfg.GetString(config.KeyMongoDatabase)
	if uri == "" || dbName == "" {
		return nil, repository.NewConfigError("mongodb", "需要 Mongo.URI 和 Mongo.Database")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("创建 Mongo 客户端失败: %w: %w", repository.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("无法 Ping 通 MongoDB (%s): %w: %w", uri, repository.ErrConnection, err)
	}

	log.Printf("✅ MongoDB 连接成功 (数据库: %s)！", dbName)
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) categories() *mongo.Collection { return s.db.Collection(collCategories) }
func (s *Store) links() *mongo.Collection      { return s.db.Collection(collLinks) }

// --- 分类 ---

func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	cur, err := s.categories().Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("读取分类游标失败: %w", err)
	}
	out := make([]*model.Category, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc categoryDoc
	err = s.categories().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	doc := categoryDoc{
		ID:          bson.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if _, err := s.categories().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("插入分类失败: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	doc := categoryDoc{
		ID:          oid,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	res, err := s.categories().ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	sess, err := s.client.StartSession()
	if err != nil {
		log.Printf("⚠️ 无法开启 Mongo 会话，级联删除降级为顺序执行: %v", err)
		return s.deleteCategorySequential(ctx, id, oid)
	}
	defer sess.EndSession(ctx)

	removed := false
	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		if _, err := s.links().DeleteMany(txCtx, bson.M{"categoryId": id}); err != nil {
			return nil, fmt.Errorf("级联删除链接失败: %w", err)
		}
		res, err := s.categories().DeleteOne(txCtx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("删除分类失败: %w", err)
		}
		removed = res.DeletedCount > 0
		return nil, nil
	})
	if err != nil {
		if transactionUnsupported(err) {
			log.Printf("⚠️ 当前 Mongo 拓扑不支持多文档事务，级联删除降级为顺序执行: %v", err)
			return s.deleteCategorySequential(ctx, id, oid)
		}
		return false, err
	}
	return removed, nil
}

// deleteCategorySequential 是无事务拓扑下的降级路径：先删链接再删分类，
// 两步之间崩溃会留下孤儿链接，这是已知并记录在案的弱一致窗口。
func (s *Store) deleteCategorySequential(ctx context.Context, id string, oid bson.ObjectID) (bool, error) {
	if _, err := s.links().DeleteMany(ctx, bson.M{"categoryId": id}); err != nil {
		return false, fmt.Errorf("级联删除链接失败: %w", err)
	}
	res, err := s.categories().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("删除分类失败: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// transactionUnsupported 识别"部署拓扑不支持事务"类错误 (单机 mongod 的 IllegalOperation)。
func transactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}

// --- 链接 ---

func (s *Store) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	return s.findLinks(ctx, bson.D{})
}

func (s *Store) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	return s.findLinks(ctx, bson.M{"categoryId": categoryID})
}

func (s *Store) findLinks(ctx context.Context, filter any) ([]*model.LinkItem, error) {
	cur, err := s.links().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询链接列表失败: %w", err)
	}
	var docs []linkDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("读取链接游标失败: %w", err)
	}
	out := make([]*model.LinkItem, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (s *Store) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc linkDoc
	err = s.links().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询链接失败: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	doc := linkDoc{
		ID:          bson.NewObjectID(),
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	if _, err := s.links().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("插入链接失败: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	doc := linkDoc{
		ID:          oid,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Icon:        req.Icon,
		IconSource:  req.IconSource,
	}
	res, err := s.links().ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("更新链接失败: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteLink(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.links().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("删除链接失败: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// HealthCheck 对主节点做一次 Ping。
func (s *Store) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrConnection, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func (d *categoryDoc) toModel() *model.Category {
	return &model.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
	}
}

func (d *linkDoc) toModel() *model.LinkItem {
	return &model.LinkItem{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Icon:        d.Icon,
		IconSource:  d.IconSource,
	}
}
