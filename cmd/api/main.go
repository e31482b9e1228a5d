package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/echoes-intel/playint/internal/config"
	"github.com/echoes-intel/playint/internal/handler"
	"github.com/echoes-intel/playint/internal/middleware"
	"github.com/echoes-intel/playint/internal/routes"
	"github.com/echoes-intel/playint/internal/service"
	"github.com/echoes-intel/playint/internal/web"
	pkgcache "github.com/echoes-intel/playint/pkg/cache"
	"github.com/echoes-intel/playint/pkg/killmail"
	pkglogger "github.com/echoes-intel/playint/pkg/logger"
	pkgredis "github.com/echoes-intel/playint/pkg/redis"
	"github.com/echoes-intel/playint/pkg/tmdb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv(".")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 로거 초기화
	pkglogger.InitStructured(cfg.Server.Env, cfg.Log.Level)
	pkglogger.Info("APP_ENV=%s, config=%s, loaded env files: %v", cfg.Server.Env, configPath, dotenvFiles)
	config.LogResolved(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis 연결 (선택)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing with in-process cache)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	// Cache Service
	var (
		cacheService pkgcache.Service
		cacheBackend string
	)
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		cacheBackend = "redis"
	} else {
		mem := pkgcache.NewMemory(cfg.Cache.MaxEntries)
		go mem.Run(ctx)
		cacheService = mem
		cacheBackend = "memory"
	}
	pkglogger.Info("Cache service initialized (%s)", cacheBackend)

	// Upstream clients
	killmailClient := killmail.NewClient(cfg.Killmail.BaseURL, cfg.Killmail.PageCap, cfg.Killmail.Timeout)
	tmdbClient := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Timeout)

	// Services
	playerIntService := service.NewPlayerIntService(killmailClient, service.PlayerIntOptions{
		TopN:     cfg.Killmail.TopN,
		MaxBarPx: cfg.Killmail.MaxBarPx,
	})
	mediaService := service.NewMediaService(tmdbClient, cacheService, cfg.TMDB.CacheTTL)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	// CORS 설정
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  splitAndTrim(allowOrigins, ","),
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	var limit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		limit = middleware.RateLimit(redisClient, rl)
	}

	routes.Setup(router, routes.Handlers{
		PlayerInt: handler.NewPlayerIntHandler(playerIntService),
		Media:     handler.NewMediaHandler(mediaService),
		Health:    handler.NewHealthHandler(cacheService, cacheBackend),
	}, limit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		pkglogger.Info("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	pkglogger.Info("Server stopped")
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
