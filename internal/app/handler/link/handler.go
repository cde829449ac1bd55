package link

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/domain/model"
	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
	"github.com/qingmu-w/linkhub-app/pkg/response"
	"github.com/qingmu-w/linkhub-app/pkg/service/link"
)

// Handler 负责处理链接管理相关的 API 请求。
type Handler struct {
	linkSvc link.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(linkSvc link.Service) *Handler {
	return &Handler{linkSvc: linkSvc}
}

// ListLinks 获取全部链接（不分分类）。
// @Router /api/links [get]
func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.linkSvc.ListLinks(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取链接列表失败: "+err.Error())
		return
	}
	response.Success(c, links, "获取成功")
}

// GetLink 按 ID 获取单条链接。
// @Router /api/links/:id [get]
func (h *Handler) GetLink(c *gin.Context) {
	item, err := h.linkSvc.GetLink(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "链接不存在")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取链接失败: "+err.Error())
		return
	}
	response.Success(c, item, "获取成功")
}

// CreateLink 创建链接。所属分类由请求体中的 categoryId 指定。
// @Router /api/links [post]
func (h *Handler) CreateLink(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "参数无效: "+err.Error())
		return
	}
	item, err := h.linkSvc.CreateLink(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "创建链接失败: "+err.Error())
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "创建成功")
}

// UpdateLink 整条覆盖更新链接，允许移动到另一个分类。
// @Router /api/links/:id [put]
func (h *Handler) UpdateLink(c *gin.Context) {
	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "参数无效: "+err.Error())
		return
	}
	item, err := h.linkSvc.UpdateLink(c.Request.Context(), c.Param("id"), &req)
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "链接不存在")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "更新链接失败: "+err.Error())
		return
	}
	response.Success(c, item, "更新成功")
}

// DeleteLink 删除链接。
// @Router /api/links/:id [delete]
func (h *Handler) DeleteLink(c *gin.Context) {
	removed, err := h.linkSvc.DeleteLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "删除链接失败: "+err.Error())
		return
	}
	if !removed {
		response.Fail(c, http.StatusNotFound, "链接不存在")
		return
	}
	response.Success(c, nil, "删除成功")
}
