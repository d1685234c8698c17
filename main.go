package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	cache "github.com/CodeAndHammer/venkovorto/internal/cache"
	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	counter "github.com/CodeAndHammer/venkovorto/internal/counter"
	game "github.com/CodeAndHammer/venkovorto/internal/game"
	handlers "github.com/CodeAndHammer/venkovorto/internal/handlers"
	models "github.com/CodeAndHammer/venkovorto/internal/models"
	moderation "github.com/CodeAndHammer/venkovorto/internal/moderation"
	oracle "github.com/CodeAndHammer/venkovorto/internal/oracle"
	session "github.com/CodeAndHammer/venkovorto/internal/session"
	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	util.LogInfo("Starting Venkovorto in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	cfg := &models.Config{
		IsProduction:       isProduction,
		StartTime:          time.Now(),
		StaticCacheAge:     util.GetEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		SessionTTL:         util.GetEnvDuration("SESSION_TTL", 30*time.Minute),
		VerdictCacheTTL:    util.GetEnvDuration("VERDICT_CACHE_TTL", time.Hour),
		RateLimitRPS:       util.GetEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     util.GetEnvInt("RATE_LIMIT_BURST", 10),
		RateLimiterTTL:     util.GetEnvDuration("RATE_LIMITER_TTL", time.Hour),
		MaxGuessLength:     util.GetEnvInt("MAX_GUESS_LENGTH", constants.MaxGuessLength),
		ModerationFailOpen: util.GetEnvBool("MODERATION_FAIL_OPEN", true),
	}

	predicate := moderation.Load(util.GetEnv("BLOCKED_WORDS_FILE", "data/blocked_words.txt"), cfg.ModerationFailOpen)

	counters, err := counter.Open(util.GetEnv("DATA_DIR", "data"))
	if err != nil {
		util.LogFatal("Failed to open counter store: %v", err)
	}
	defer counters.Close()

	verdicts := buildVerdictCache(cfg)
	judge := buildJudge()

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartCleanup(10 * time.Minute)

	resolver := &game.Resolver{
		Sessions:       sessions,
		Cache:          verdicts,
		Oracle:         judge,
		Counter:        counters,
		Moderation:     predicate,
		MaxGuessLength: cfg.MaxGuessLength,
	}

	limiters := newLimiterRegistry(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimiterTTL)
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiters.cleanupStale()
		}
	}()

	server := &handlers.Server{
		Cfg:          cfg,
		Resolver:     resolver,
		Sessions:     sessions,
		Counter:      counters,
		LimiterCount: limiters.count,
	}

	router := gin.Default()
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(applyCacheHeaders(cfg))

	if util.DirExists("static") {
		router.Static("/static", "./static")
	}

	router.GET(constants.RouteHome, server.HomeHandler)
	router.POST(constants.RouteGuess, limiters.middleware(), server.GuessHandler)
	router.GET(constants.RouteState, server.StateHandler)
	router.POST(constants.RouteReset, limiters.middleware(), server.ResetHandler)
	router.GET(constants.RouteStats, server.StatsHandler)
	router.GET(constants.RouteHealthz, server.HealthzHandler)

	startServer(router)
}

func buildVerdictCache(cfg *models.Config) cache.VerdictCache {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		util.LogInfo("REDIS_URL not set, using in-memory verdict cache")
		return cache.NewMemoryCache(cfg.VerdictCacheTTL)
	}
	rc, err := cache.NewRedisCache(redisURL, cfg.VerdictCacheTTL)
	if err != nil {
		util.LogWarn("Redis unavailable (%v), degrading to in-memory verdict cache", err)
		return cache.NewMemoryCache(cfg.VerdictCacheTTL)
	}
	util.LogInfo("Verdict cache backed by Redis")
	return rc
}

func buildJudge() oracle.Judge {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		util.LogWarn("GEMINI_API_KEY not set, oracle will report unavailable on every guess")
		return oracle.Offline{}
	}
	judge, err := oracle.NewGeminiJudge(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		util.LogWarn("Failed to configure Gemini judge (%v), oracle will report unavailable", err)
		return oracle.Offline{}
	}
	util.LogInfo("Gemini judge configured")
	return judge
}

func applyCacheHeaders(cfg *models.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
			cachecontrol.New(cachecontrol.Config{
				Public: true,
				MaxAge: cachecontrol.Duration(cfg.StaticCacheAge),
			})(c)
			c.Header("Vary", "Accept-Encoding")
			return
		}
		cachecontrol.New(cachecontrol.Config{
			NoStore:        true,
			NoCache:        true,
			MustRevalidate: true,
		})(c)
	}
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		util.LogFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	util.LogInfo("Server shutdown complete")
}
