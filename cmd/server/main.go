package main

import (
	"blog/internal/api"
	"blog/internal/config"
	"blog/internal/limiter"
	"blog/internal/model"
	"blog/internal/storage"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to Blog.toml (defaults to $BLOG_CONFIG or ./Blog.toml)")
	flag.Parse()

	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// 初始化配置
	cfg, err := config.ParseConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		os.Exit(1)
	}

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		os.Exit(1)
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		os.Exit(1)
	}

	var rl *limiter.Limiter
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = limiter.Dial(context.Background(), cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, rate limiting disabled")
		} else {
			rl = limiter.New(rdb, cfg.RateLimitCount, time.Duration(cfg.RateLimitSeconds)*time.Second)
			defer rdb.Close()
		}
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, rl)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		os.Exit(1)
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := httpHandler.NewRouter()

	serverHost := fmt.Sprintf("%s:%s", cfg.HTTPHost, cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"host":      serverHost,
			"db_type":   cfg.DBType,
			"storage":   cfg.StorageType,
			"ratelimit": rl != nil,
		}).Info("服务器启动")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logrus.WithField("signal", sig.String()).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
