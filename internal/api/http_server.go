package api

import (
	"blog/internal/auth"
	"blog/internal/config"
	"blog/internal/limiter"
	"blog/internal/model"
	"blog/internal/service"
	"blog/internal/storage"
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	storage           storage.Storage
	storagePublicBase string
	limiter           *limiter.Limiter

	// 服务层
	accounts *service.AccountService
	blog     *service.BlogService
}

// NewHTTPHandler 创建 HTTP 处理器实例；rl 为 nil 时不做限流
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, rl *limiter.Limiter) (*HTTPHandler, error) {
	if err := config.CheckSecret(cfg.JWTSecret); err != nil {
		return nil, err
	}
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	publicBase := normalisePublicBase(cfg.StoragePublicBaseURL)
	return &HTTPHandler{
		cfg:               cfg,
		storage:           store,
		storagePublicBase: publicBase,
		limiter:           rl,
		accounts:          service.NewAccountService(repo, authManager, authManager),
		blog:              service.NewBlogService(repo, authManager, store, publicBase),
	}, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if isAbsoluteURL(trimmed) {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}
