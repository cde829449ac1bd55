package category

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
	"github.com/qingmu-w/linkhub-app/pkg/response"
	"github.com/qingmu-w/linkhub-app/pkg/service/link"
)

// Handler 负责处理分类管理相关的 API 请求。
type Handler struct {
	linkSvc link.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(linkSvc link.Service) *Handler {
	return &Handler{linkSvc: linkSvc}
}

// ListCategories 获取全部分类。
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.linkSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取分类列表失败: "+err.Error())
		return
	}
	response.Success(c, categories, "获取成功")
}

// GetCategory 按 ID 获取单个分类。
// @Router /api/categories/:id [get]
func (h *Handler) GetCategory(c *gin.Context) {
	cat, err := h.linkSvc.GetCategory(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取分类失败: "+err.Error())
		return
	}
	response.Success(c, cat, "获取成功")
}

// CreateCategory 创建分类。
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "参数无效: "+err.Error())
		return
	}
	cat, err := h.linkSvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "创建分类失败: "+err.Error())
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, cat, "创建成功")
}

// UpdateCategory 整条覆盖更新分类。
// @Router /api/categories/:id [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "参数无效: "+err.Error())
		return
	}
	cat, err := h.linkSvc.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "更新分类失败: "+err.Error())
		return
	}
	response.Success(c, cat, "更新成功")
}

// DeleteCategory 删除分类并级联删除名下链接。
// "没有这条记录" 和 "删除失败" 必须给出可区分的响应。
// @Router /api/categories/:id [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	removed, err := h.linkSvc.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "删除分类失败: "+err.Error())
		return
	}
	if !removed {
		response.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}
	response.Success(c, nil, "删除成功")
}
