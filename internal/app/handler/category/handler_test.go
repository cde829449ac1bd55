// linkhub-app/internal/app/handler/category/handler_test.go
package category

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
)

// stubService 是只认一个分类 ID 的桩实现
type stubService struct {
	knownID string
}

func (s *stubService) GetDirectory(ctx context.Context) ([]*model.CategoryWithLinks, error) {
	return []*model.CategoryWithLinks{}, nil
}

func (s *stubService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return []*model.Category{{ID: s.knownID, Name: "Known"}}, nil
}

func (s *stubService) ListLinksByCategory(ctx context.Context, categoryID string) ([]*model.LinkItem, error) {
	if categoryID != s.knownID {
		return nil, repository.ErrNotFound
	}
	return []*model.LinkItem{}, nil
}

func (s *stubService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if id != s.knownID {
		return nil, repository.ErrNotFound
	}
	return &model.Category{ID: id, Name: "Known"}, nil
}

func (s *stubService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	return &model.Category{ID: "new", Name: req.Name}, nil
}

func (s *stubService) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	if id != s.knownID {
		return nil, repository.ErrNotFound
	}
	return &model.Category{ID: id, Name: req.Name}, nil
}

func (s *stubService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return id == s.knownID, nil
}

func (s *stubService) ListLinks(ctx context.Context) ([]*model.LinkItem, error) {
	return nil, nil
}

func (s *stubService) GetLink(ctx context.Context, id string) (*model.LinkItem, error) {
	return nil, repository.ErrNotFound
}

func (s *stubService) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkItem, error) {
	return nil, nil
}

func (s *stubService) UpdateLink(ctx context.Context, id string, req *model.UpdateLinkRequest) (*model.LinkItem, error) {
	return nil, repository.ErrNotFound
}

func (s *stubService) DeleteLink(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&stubService{knownID: "cat1"})
	engine := gin.New()
	engine.GET("/api/categories/:id", h.GetCategory)
	engine.POST("/api/categories", h.CreateCategory)
	engine.PUT("/api/categories/:id", h.UpdateCategory)
	engine.DELETE("/api/categories/:id", h.DeleteCategory)
	return engine
}

// TestCategoryHandlerStatusCodes 各种结果向 HTTP 状态码的映射
func TestCategoryHandlerStatusCodes(t *testing.T) {
	engine := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "get existing", method: http.MethodGet, path: "/api/categories/cat1", wantStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/api/categories/nope", wantStatus: http.StatusNotFound},
		{name: "create valid", method: http.MethodPost, path: "/api/categories", body: `{"name":"Media"}`, wantStatus: http.StatusCreated},
		{name: "create without name", method: http.MethodPost, path: "/api/categories", body: `{"description":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "create malformed json", method: http.MethodPost, path: "/api/categories", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "update missing", method: http.MethodPut, path: "/api/categories/nope", body: `{"name":"X"}`, wantStatus: http.StatusNotFound},
		{name: "delete existing", method: http.MethodDelete, path: "/api/categories/cat1", wantStatus: http.StatusOK},
		{name: "delete missing", method: http.MethodDelete, path: "/api/categories/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s 状态码 = %d, want %d (body: %s)",
					tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
