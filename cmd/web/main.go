package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollbook/internal/config"
	"rollbook/internal/httpmiddleware"
	"rollbook/internal/schoolapi"
	"rollbook/internal/session"
	"rollbook/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	api := schoolapi.New(cfg.SchoolAPIURL, cfg.APITimeout)

	var store session.Store
	var redisStore *session.RedisStore
	if cfg.SessionBackend == "memory" {
		store = session.NewMemory(cfg.SessionTTL)
	} else {
		redisStore = session.NewRedis(cfg.RedisAddr, cfg.SessionTTL)
		store = redisStore
	}

	sessions := session.NewManager(api, store, session.Config{
		CookieName: cfg.CookieName,
		Issuer:     cfg.JWTIssuer,
		SigningKey: cfg.JWTSigningKey,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewPerIPLimiter(cfg.RateLimitPerMin).Middleware())
	r.Use(httpmiddleware.Metrics())

	r.LoadHTMLGlob("web/templates/*.html")

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		sessionsHealthy := redisStore == nil || redisStore.Healthy(c.Request.Context())
		status := http.StatusOK
		if !sessionsHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "sessions": sessionsHealthy})
	})

	web.New(sessions, api).Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting rollbook on :%s (backend %s)", cfg.HTTPPort, cfg.SchoolAPIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
