// linkhub-app/pkg/service/link/service_test.go
package link

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence"
	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
	"github.com/qingmu-w/linkhub-app/pkg/service/utility"
)

// newTestService 用临时目录里的本地存储搭一个完整的服务。
// 缓存传 nil 客户端（自动降级为空操作），巡检 Broker 省略。
func newTestService(t *testing.T) Service {
	t.Helper()
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	cfg.Set(config.KeyLocalPath, filepath.Join(t.TempDir(), "test.bolt"))

	provider := persistence.NewProvider(cfg)
	t.Cleanup(func() { provider.Close() })

	return NewService(provider, utility.NewCacheService(nil), nil)
}

// TestGetDirectory 目录页把链接按分类归组，空分类带空切片而不是 null
func TestGetDirectory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 造一个没有任何链接的分类
	empty, err := svc.CreateCategory(ctx, &model.CreateCategoryRequest{Name: "Empty"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	directory, err := svc.GetDirectory(ctx)
	if err != nil {
		t.Fatalf("获取目录失败: %v", err)
	}
	if len(directory) != 5 {
		t.Fatalf("目录分类数量 = %d, want 5 (4 默认 + 1 新建)", len(directory))
	}

	totalLinks := 0
	for _, entry := range directory {
		if entry.Links == nil {
			t.Errorf("分类 %q 的链接切片为 nil，序列化会变成 null", entry.Name)
			continue
		}
		for _, l := range entry.Links {
			if l.CategoryID != entry.ID {
				t.Errorf("分类 %q 下混入了其他分类的链接: %+v", entry.Name, l)
			}
		}
		totalLinks += len(entry.Links)
		if entry.ID == empty.ID && len(entry.Links) != 0 {
			t.Errorf("空分类的链接数量 = %d, want 0", len(entry.Links))
		}
	}
	if totalLinks != 5 {
		t.Errorf("目录链接总数 = %d, want 5", totalLinks)
	}
}

// TestLinkLifecycle 链接从创建到删除的完整生命周期经门面委托给存储层
func TestLinkLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, &model.CreateLinkRequest{
		Title:      "X",
		URL:        "https://x.com",
		CategoryID: "1",
	})
	if err != nil {
		t.Fatalf("创建链接失败: %v", err)
	}

	got, err := svc.GetLink(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询链接失败: %v", err)
	}
	if got.Title != "X" || got.URL != "https://x.com" || got.CategoryID != "1" {
		t.Errorf("查询结果与创建内容不符: %+v", got)
	}

	moved, err := svc.UpdateLink(ctx, created.ID, &model.UpdateLinkRequest{
		Title: "X", URL: "https://x.com", CategoryID: "2",
	})
	if err != nil {
		t.Fatalf("更新链接失败: %v", err)
	}
	if moved.CategoryID != "2" {
		t.Errorf("更新后 CategoryID = %q, want %q", moved.CategoryID, "2")
	}

	inTwo, err := svc.ListLinksByCategory(ctx, "2")
	if err != nil {
		t.Fatalf("按分类查询失败: %v", err)
	}
	found := false
	for _, l := range inTwo {
		if l.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("移动分类后链接应当出现在新分类下")
	}

	removed, err := svc.DeleteLink(ctx, created.ID)
	if err != nil {
		t.Fatalf("删除链接失败: %v", err)
	}
	if !removed {
		t.Error("删除存在的链接应当返回 true")
	}
	if _, err := svc.GetLink(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("删除后查询应当返回 ErrNotFound, got %v", err)
	}
}

// TestDeleteCategoryCascades 通过门面删除分类时名下链接一并消失
func TestDeleteCategoryCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 默认数据集中分类 3 有两条链接
	removed, err := svc.DeleteCategory(ctx, "3")
	if err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}
	if !removed {
		t.Fatal("删除存在的分类应当返回 true")
	}

	links, err := svc.ListLinks(ctx)
	if err != nil {
		t.Fatalf("获取链接列表失败: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("级联删除后链接数量 = %d, want 3", len(links))
	}
	for _, l := range links {
		if l.CategoryID == "3" {
			t.Errorf("级联删除后仍有链接挂在分类 3 下: %+v", l)
		}
	}
}

// TestDeleteAbsent 删除不存在的记录返回 (false, nil)
func TestDeleteAbsent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	removed, err := svc.DeleteCategory(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("删除不存在的分类不应报错: %v", err)
	}
	if removed {
		t.Error("删除不存在的分类应当返回 false")
	}

	removed, err = svc.DeleteLink(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("删除不存在的链接不应报错: %v", err)
	}
	if removed {
		t.Error("删除不存在的链接应当返回 false")
	}
}
