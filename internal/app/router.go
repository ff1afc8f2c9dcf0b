package app

import (
	"fmt"
	"log"
	"time"

	"socialapp/internal/config"
	"socialapp/internal/middleware"
	"socialapp/internal/model"
	"socialapp/internal/repository"
	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	// Set Gin mode
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.Like{}, &model.MediaFile{}); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Likes reference posts or comments through target_id, so any foreign key
	// GORM created on that column has to go
	fixLikesTableConstraints(db)

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize Cloudinary client
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v. Media uploads will be disabled.", err)
		} else {
			log.Println("Cloudinary initialized successfully")
		}
	} else {
		log.Println("Cloudinary credentials not configured. Media uploads will be disabled.")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	likeRepo := repository.NewLikeRepository(db, redisClient)
	mediaRepo := repository.NewMediaRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationMinutes)
	mediaService := service.NewMediaService(mediaRepo, cloudinaryClient)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, userRepo, mediaService)
	commentService := service.NewCommentService(commentRepo, postRepo, likeRepo, userRepo)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo)

	// Initialize handlers
	authHandler := NewAuthHandler(authService, cfg.JWTSecret)
	userHandler := NewUserHandler(authService)
	postHandler := NewPostHandler(postService)
	commentHandler := NewCommentHandler(commentService)
	likeHandler := NewLikeHandler(likeService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			// Protected routes
			auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
		}

		// User routes
		users := api.Group("/users")
		{
			// Public routes; username lookup must be registered before the
			// /:id wildcard
			users.GET("/username/:username", authHandler.OptionalAuthMiddleware(), userHandler.GetUserByUsername)
			users.GET("/:id", authHandler.OptionalAuthMiddleware(), userHandler.GetUser)
		}

		// Post routes
		posts := api.Group("/posts")
		{
			// Public routes; a token, when present, resolves the viewer's
			// like state
			// IMPORTANT: More specific routes must be registered before wildcard routes
			posts.GET("/user/:userID", authHandler.OptionalAuthMiddleware(), postHandler.GetPostsByUser)
			posts.GET("/user/:userID/count", postHandler.CountPostsByUser)
			posts.GET("/feed", authHandler.OptionalAuthMiddleware(), postHandler.GetFeed)

			// Post comments routes (must be before /:id route to avoid conflict)
			posts.GET("/:id/comments", authHandler.OptionalAuthMiddleware(), commentHandler.GetCommentsByPost)
			posts.GET("/:id/comments/count", commentHandler.GetCommentCount)

			// Post likes routes (must be before /:id route to avoid conflict)
			posts.GET("/:id/likes", likeHandler.GetPostLikers)
			posts.GET("/:id/likes/count", likeHandler.GetPostLikeCount)

			// Post detail route (wildcard route - must be last)
			posts.GET("/:id", authHandler.OptionalAuthMiddleware(), postHandler.GetPost)

			// Protected routes
			posts.Use(authHandler.AuthMiddleware())
			{
				posts.POST("", postHandler.CreatePost)
				posts.PUT("/:id", postHandler.UpdatePost)
				posts.DELETE("/:id", postHandler.DeletePost)

				posts.POST("/:id/like", likeHandler.TogglePostLike)
				posts.GET("/:id/like/status", likeHandler.GetPostLikeStatus)
			}
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			// Public routes
			comments.GET("/:id", authHandler.OptionalAuthMiddleware(), commentHandler.GetComment)
			comments.GET("/:id/replies", authHandler.OptionalAuthMiddleware(), commentHandler.GetReplies)
			comments.GET("/:id/likes", likeHandler.GetCommentLikers)
			comments.GET("/:id/likes/count", likeHandler.GetCommentLikeCount)

			// Protected routes
			comments.Use(authHandler.AuthMiddleware())
			{
				comments.POST("", commentHandler.CreateComment)
				comments.PUT("/:id", commentHandler.UpdateComment)
				comments.DELETE("/:id", commentHandler.DeleteComment)

				comments.POST("/:id/like", likeHandler.ToggleCommentLike)
				comments.GET("/:id/like/status", likeHandler.GetCommentLikeStatus)
			}
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "host=" + cfg.PostgresHost +
			" port=" + cfg.PostgresPort +
			" user=" + cfg.PostgresUser +
			" password=" + cfg.PostgresPassword +
			" dbname=" + cfg.PostgresDB +
			" sslmode=" + cfg.PostgresSSLMode
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			log.Printf("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
			log.Println("Note: Application will continue without Redis caching")
		}
	}

	return nil
}

// fixLikesTableConstraints removes foreign key constraints GORM may have
// created on likes.target_id during AutoMigrate. The column is polymorphic
// and cannot carry a constraint against a single table.
func fixLikesTableConstraints(db *gorm.DB) {
	query := `
		SELECT constraint_name
		FROM information_schema.table_constraints
		WHERE table_name = 'likes'
		AND constraint_type = 'FOREIGN KEY'
		AND constraint_name IN (
			SELECT constraint_name
			FROM information_schema.key_column_usage
			WHERE table_name = 'likes'
			AND column_name = 'target_id'
		)
	`

	var constraints []struct {
		ConstraintName string `gorm:"column:constraint_name"`
	}

	if err := db.Raw(query).Scan(&constraints).Error; err != nil {
		log.Printf("Warning: Failed to query foreign key constraints on likes table: %v", err)
		return
	}

	for _, constraint := range constraints {
		dropQuery := fmt.Sprintf("ALTER TABLE likes DROP CONSTRAINT IF EXISTS %s", constraint.ConstraintName)
		if err := db.Exec(dropQuery).Error; err != nil {
			log.Printf("Warning: Failed to drop constraint %s: %v", constraint.ConstraintName, err)
		} else {
			log.Printf("Dropped foreign key constraint: %s", constraint.ConstraintName)
		}
	}
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	allowedOrigins := []string{
		clientURL,
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
