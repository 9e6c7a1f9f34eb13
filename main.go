package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/config"
	"taskify/backend/internal/database"
	"taskify/backend/internal/handlers"
	"taskify/backend/internal/middleware"
	"taskify/backend/internal/monitoring"
	"taskify/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabasePool(database.PoolConfigFromApp(cfg))
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	registerHealthChecks(db, redisCache)

	router := buildRouter(cfg, db, redisCache)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("taskify backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
}

func buildRouter(cfg *config.Config, db *gorm.DB, redisCache *cache.RedisCache) *gin.Engine {
	userService := services.NewUserService()
	authService := services.NewAuthService()
	tagService := services.NewCachedTagService(services.NewTagService(), redisCache)
	taskService := services.NewCachedTaskService(services.NewTaskService(tagService), redisCache)

	registerHandler := handlers.NewRegisterHandler(db, userService)
	authHandler := handlers.NewAuthHandler(db, authService)
	refreshHandler := handlers.NewRefreshHandler(db, authService)
	logoutHandler := handlers.NewLogoutHandler(db, authService)
	userHandler := handlers.NewUserHandler(db, userService)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	tagHandler := handlers.NewTagHandler(db, tagService)

	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", monitoring.GetHealth)
	router.GET("/metrics", monitoring.GetMetrics)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", registerHandler.Registration)
		auth.POST("/token", authHandler.Token)
		auth.POST("/refresh", refreshHandler.Refresh)
		auth.POST("/logout", logoutHandler.Logout)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/users/me", userHandler.GetProfile)

		api.GET("/tasks/", taskHandler.GetTasks)
		api.POST("/tasks/", taskHandler.CreateTask)
		api.GET("/tasks/:id/", taskHandler.GetTaskByID)
		api.PATCH("/tasks/:id/", taskHandler.UpdateTask)
		api.PUT("/tasks/:id/", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id/", taskHandler.DeleteTask)

		api.GET("/tags/", tagHandler.GetTags)
		api.PATCH("/tags/:id/", tagHandler.UpdateTag)
		api.DELETE("/tags/:id/", tagHandler.DeleteTag)
	}

	return router
}

func registerHealthChecks(db *gorm.DB, redisCache *cache.RedisCache) {
	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Ping(ctx)
	})
}
