package api

import (
	"blog/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", MetricsHandler())

	apiGroup := r.Group("/api")

	account := apiGroup.Group("/account_service")
	account.GET("/ping", h.Ping)
	account.POST("/register", h.RateLimit("register"), BodyLimit(maxFormBodyBytes), h.Register)
	account.POST("/login", h.RateLimit("login"), BodyLimit(maxFormBodyBytes), h.Login)
	account.GET("/info", h.Info)
	account.GET("/get_user", h.GetUser)

	blog := apiGroup.Group("/blog")
	blog.GET("/info", h.BlogInfo)
	blog.POST("/new_post", BodyLimit(maxFormBodyBytes), h.NewPost)
	blog.POST("/view_post", BodyLimit(maxFormBodyBytes), h.ViewPost)
	blog.POST("/edit_post", BodyLimit(maxFormBodyBytes), h.EditPost)
	blog.POST("/delete_post", BodyLimit(maxFormBodyBytes), h.DeletePost)
	blog.GET("/posts", h.Posts)
	blog.GET("/recent_posts", h.RecentPosts)
	blog.GET("/count_posts", h.CountPosts)
	blog.POST("/upload_media", BodyLimit(maxUploadBodyBytes), h.UploadMedia)

	// 本地存储直接由 gin 提供静态文件
	if localProvider, ok := h.storage.(storage.LocalBaseDirProvider); ok && h.storagePublicBase != "" && !isAbsoluteURL(h.storagePublicBase) {
		r.Static(h.storagePublicBase, localProvider.LocalBaseDir())
	}
}

// NewRouter 创建带全部中间件与路由的 gin 引擎
func (h *HTTPHandler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())
	h.RegisterRoutes(r)
	return r
}
