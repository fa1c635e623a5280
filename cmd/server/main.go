package main

import (
	"log"
	"net/http"
	"strings"

	"anoa.com/tradeaid/internal/config"
	"anoa.com/tradeaid/internal/handler"
	"anoa.com/tradeaid/internal/middleware"
	"anoa.com/tradeaid/internal/model"
	"anoa.com/tradeaid/internal/password"
	"anoa.com/tradeaid/internal/repository"
	"anoa.com/tradeaid/internal/service"
	"anoa.com/tradeaid/internal/token"
	"anoa.com/tradeaid/pkg/database"
	"anoa.com/tradeaid/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is the insecure development default; do not use it outside local development")
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	rdb := newRedisClient(cfg, logger)

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	hasher := password.NewHasher(cfg.Hash.Cost)
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	authService := service.NewAuthService(userRepo, hasher, issuer, fileStorage, rdb, cfg.RateLimitLogin)
	authHandler := handler.NewAuthHandler(authService)

	userService := service.NewUserService(userRepo, hasher, fileStorage)
	userHandler := handler.NewUserHandler(userService)

	communityService := service.NewCommunityService(communityRepo, service.NewPendingPolicy())
	communityHandler := handler.NewCommunityHandler(communityService)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running! Try /api/communities?lat=33.6844&lon=73.0479")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "env": cfg.AppEnv})
	})

	// Uploaded profile pictures are served straight from disk when the
	// local provider is active; Cloudinary serves its own URLs.
	if cfg.Upload.Provider == "local" {
		router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/profile", userHandler.UpdateProfile)
		}

		communities := api.Group("/communities")
		{
			communities.GET("", communityHandler.GetNearby)
			communities.POST("/community", communityHandler.Create)
			communities.POST("/join", communityHandler.Join)
		}

		authMiddleware := middleware.NewAuthMiddleware(issuer)
		api.GET("/protected", authMiddleware.RequireAuth(), func(c *gin.Context) {
			claims := c.MustGet("claims").(*token.Claims)
			c.JSON(http.StatusOK, gin.H{
				"hello": "only for logged in",
				"user": gin.H{
					"id":    claims.UserID,
					"email": claims.Email,
				},
			})
		})
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.AppEnv))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.JoinRequest{},
	)
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newRedisClient returns nil when no REDIS_URL is configured; the login
// rate limiter treats a nil client as disabled.
func newRedisClient(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.Redis.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, login rate limiting disabled", zap.Error(err))
		return nil
	}

	return redis.NewClient(opts)
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	if cfg.Upload.Provider == "cloudinary" {
		return storage.NewCloudinaryStorage()
	}
	return storage.NewLocalStorage(cfg.Upload.Dir)
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	if allowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	}

	return cors.New(corsConfig)
}
