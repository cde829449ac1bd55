/*
 * @Description: 应用路由注册。
 */
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingmu-w/linkhub-app/internal/app/middleware"

	auth_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/auth"
	category_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/category"
	link_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/link"
	public_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/public"
)

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	authHandler     *auth_handler.Handler
	categoryHandler *category_handler.Handler
	linkHandler     *link_handler.Handler
	publicHandler   *public_handler.Handler
	mw              *middleware.Middleware
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	authHandler *auth_handler.Handler,
	categoryHandler *category_handler.Handler,
	linkHandler *link_handler.Handler,
	publicHandler *public_handler.Handler,
	mw *middleware.Middleware,
) *Router {
	return &Router{
		authHandler:     authHandler,
		categoryHandler: categoryHandler,
		linkHandler:     linkHandler,
		publicHandler:   publicHandler,
		mw:              mw,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
// 这是在 app.go 中将被调用的唯一入口点。
func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := engine.Group("/api")

	r.registerAuthRoutes(apiGroup)
	r.registerPublicRoutes(apiGroup)
	r.registerCategoryRoutes(apiGroup)
	r.registerLinkRoutes(apiGroup)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	api.POST("/login", r.authHandler.Login)
}

func (r *Router) registerPublicRoutes(api *gin.RouterGroup) {
	// 公开的导航页接口，无需登录
	publicGroup := api.Group("/public")
	{
		publicGroup.GET("/directory", r.publicHandler.GetDirectory)
		publicGroup.GET("/categories", r.publicHandler.ListCategories)
		publicGroup.GET("/categories/:id/links", r.publicHandler.ListLinksByCategory)
	}
}

func (r *Router) registerCategoryRoutes(api *gin.RouterGroup) {
	// 管理员专属的分类管理接口
	categoriesAdmin := api.Group("/categories")
	categoriesAdmin.Use(r.mw.JWTAuth())
	{
		categoriesAdmin.GET("", r.categoryHandler.ListCategories)
		categoriesAdmin.GET("/:id", r.categoryHandler.GetCategory)
		categoriesAdmin.POST("", r.categoryHandler.CreateCategory)
		categoriesAdmin.PUT("/:id", r.categoryHandler.UpdateCategory)
		categoriesAdmin.DELETE("/:id", r.categoryHandler.DeleteCategory)
	}
}

func (r *Router) registerLinkRoutes(api *gin.RouterGroup) {
	// 管理员专属的链接管理接口
	linksAdmin := api.Group("/links")
	linksAdmin.Use(r.mw.JWTAuth())
	{
		linksAdmin.GET("", r.linkHandler.ListLinks)
		linksAdmin.GET("/:id", r.linkHandler.GetLink)
		linksAdmin.POST("", r.linkHandler.CreateLink)
		linksAdmin.PUT("/:id", r.linkHandler.UpdateLink)
		linksAdmin.DELETE("/:id", r.linkHandler.DeleteLink)
	}
}
