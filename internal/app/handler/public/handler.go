/*
 * @Description: 公共导航页接口，无需登录即可访问。
 */
package public

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/pkg/domain/repository"
	"github.com/qingmu-w/linkhub-app/pkg/response"
	"github.com/qingmu-w/linkhub-app/pkg/service/link"
)

// Handler 负责处理公开访问的导航页请求。
type Handler struct {
	linkSvc link.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(linkSvc link.Service) *Handler {
	return &Handler{linkSvc: linkSvc}
}

// GetDirectory 一次性返回完整导航页数据：所有分类及其名下链接。
// @Router /api/public/directory [get]
func (h *Handler) GetDirectory(c *gin.Context) {
	directory, err := h.linkSvc.GetDirectory(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取导航页数据失败: "+err.Error())
		return
	}
	response.Success(c, directory, "获取成功")
}

// ListCategories 公开的分类列表。
// @Router /api/public/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.linkSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取分类列表失败: "+err.Error())
		return
	}
	response.Success(c, categories, "获取成功")
}

// ListLinksByCategory 公开的按分类查询链接。分类不存在时返回 404。
// @Router /api/public/categories/:id/links [get]
func (h *Handler) ListLinksByCategory(c *gin.Context) {
	links, err := h.linkSvc.ListLinksByCategory(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取链接失败: "+err.Error())
		return
	}
	response.Success(c, links, "获取成功")
}
