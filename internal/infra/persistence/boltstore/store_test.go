// linkhub-app/internal/infra/persistence/boltstore/store_test.go
package boltstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.bolt"))
	if err != nil {
		t.Fatalf("打开测试存储失败: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestSeedOnFirstOpen 首次打开空文件时写入默认数据集
func TestSeedOnFirstOpen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("获取分类列表失败: %v", err)
	}
	if len(cats) != 4 {
		t.Fatalf("默认分类数量 = %d, want 4", len(cats))
	}
	wantNames := []string{"General", "Work", "Development", "Learning"}
	for i, want := range wantNames {
		if cats[i].Name != want {
			t.Errorf("分类[%d].Name = %q, want %q", i, cats[i].Name, want)
		}
	}

	links, err := s.ListLinks(ctx)
	if err != nil {
		t.Fatalf("获取链接列表失败: %v", err)
	}
	if len(links) != 5 {
		t.Fatalf("默认链接数量 = %d, want 5", len(links))
	}
}

// TestSeedNotRepeated 重新打开已有数据的文件时不再写入默认数据集
func TestSeedNotRepeated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bolt")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("打开测试存储失败: %v", err)
	}
	if _, err := s.CreateCategory(ctx, &model.CreateCategoryRequest{Name: "Extra"}); err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatalf("重新打开测试存储失败: %v", err)
	}
	defer s2.Close()

	cats, err := s2.ListCategories(ctx)
	if err != nil {
		t.Fatalf("获取分类列表失败: %v", err)
	}
	if len(cats) != 5 {
		t.Errorf("重新打开后分类数量 = %d, want 5 (4 默认 + 1 新建)", len(cats))
	}
}

// TestCategoryCRUD 分类的增查改删基本路径
func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, &model.CreateCategoryRequest{
		Name:        "Media",
		Description: "Streaming",
		Icon:        "tv",
	})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	if created.ID == "" {
		t.Fatal("新建分类应当分配非空 ID")
	}

	got, err := s.GetCategory(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询分类失败: %v", err)
	}
	if got.Name != "Media" || got.Description != "Streaming" || got.Icon != "tv" {
		t.Errorf("查询结果与创建内容不符: %+v", got)
	}

	updated, err := s.UpdateCategory(ctx, created.ID, &model.UpdateCategoryRequest{Name: "Video"})
	if err != nil {
		t.Fatalf("更新分类失败: %v", err)
	}
	if updated.Name != "Video" {
		t.Errorf("更新后 Name = %q, want %q", updated.Name, "Video")
	}
	// 整条覆盖：未提供的字段被清空
	if updated.Description != "" {
		t.Errorf("整条覆盖后 Description 应当为空, got %q", updated.Description)
	}

	removed, err := s.DeleteCategory(ctx, created.ID)
	if err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}
	if !removed {
		t.Error("删除存在的分类应当返回 true")
	}
	if _, err := s.GetCategory(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("删除后查询应当返回 ErrNotFound, got %v", err)
	}
}

// TestLinkCreateThenGet 创建链接后按 ID 能查到一致内容
func TestLinkCreateThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateLink(ctx, &model.CreateLinkRequest{
		Title:      "X",
		URL:        "https://x.com",
		CategoryID: "1",
	})
	if err != nil {
		t.Fatalf("创建链接失败: %v", err)
	}
	if created.ID == "" {
		t.Fatal("新建链接应当分配非空 ID")
	}

	got, err := s.GetLink(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询链接失败: %v", err)
	}
	if got.Title != "X" || got.URL != "https://x.com" || got.CategoryID != "1" {
		t.Errorf("查询结果与创建内容不符: %+v", got)
	}
}

// TestAbsentRecords 操作不存在的记录时的返回约定
func TestAbsentRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetCategory(ctx, "no-such-id"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetCategory 不存在的 ID 应当返回 ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateLink(ctx, "no-such-id", &model.UpdateLinkRequest{
		Title: "T", URL: "https://t.com", CategoryID: "1",
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("UpdateLink 不存在的 ID 应当返回 ErrNotFound, got %v", err)
	}

	removed, err := s.DeleteCategory(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("删除不存在的分类不应报错: %v", err)
	}
	if removed {
		t.Error("删除不存在的分类应当返回 false")
	}

	removed, err = s.DeleteLink(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("删除不存在的链接不应报错: %v", err)
	}
	if removed {
		t.Error("删除不存在的链接应当返回 false")
	}
}

// TestCascadeDelete 删除分类时级联删除名下链接，且不影响其他分类的链接
func TestCascadeDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, &model.CreateCategoryRequest{Name: "Doomed"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.CreateLink(ctx, &model.CreateLinkRequest{
			Title: "victim", URL: "https://victim.example", CategoryID: cat.ID,
		}); err != nil {
			t.Fatalf("创建链接失败: %v", err)
		}
	}

	before, err := s.ListLinks(ctx)
	if err != nil {
		t.Fatalf("获取链接列表失败: %v", err)
	}

	removed, err := s.DeleteCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}
	if !removed {
		t.Fatal("删除存在的分类应当返回 true")
	}

	after, err := s.ListLinks(ctx)
	if err != nil {
		t.Fatalf("获取链接列表失败: %v", err)
	}
	if len(after) != len(before)-3 {
		t.Errorf("级联删除后链接数量 = %d, want %d", len(after), len(before)-3)
	}
	for _, l := range after {
		if l.CategoryID == cat.ID {
			t.Errorf("级联删除后仍有链接挂在已删除分类下: %+v", l)
		}
	}
}

// TestListLinksByCategory 按分类查询只返回该分类下的链接
func TestListLinksByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 默认数据集中分类 3 (Development) 有 GitHub 和 Stack Overflow 两条
	links, err := s.ListLinksByCategory(ctx, "3")
	if err != nil {
		t.Fatalf("按分类查询链接失败: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("分类 3 的链接数量 = %d, want 2", len(links))
	}
	for _, l := range links {
		if l.CategoryID != "3" {
			t.Errorf("返回了其他分类的链接: %+v", l)
		}
	}
}

// TestHealthCheck 正常打开的存储健康检查应当通过
func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("健康检查失败: %v", err)
	}
}
