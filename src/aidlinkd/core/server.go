package core

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidlink/aidlink/src/aidlinkd/api"
	"github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/aidlinkd/db/migrations"
	_ "github.com/aidlink/aidlink/src/aidlinkd/docs"
	"github.com/aidlink/aidlink/src/aidlinkd/i18n"
	"github.com/aidlink/aidlink/src/aidlinkd/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server holds the HTTP server instance and configuration
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	database   *db.Database
	storage    storage.Backend
	api        *api.API
}

// NewServer creates a new Server instance
func NewServer(database *db.Database, storageBackend storage.Backend) *Server {
	// Set Gin mode based on log level
	if viper.GetString("log.level") == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(corsMiddleware())

	// Add logging middleware
	router.Use(ginLogger())

	// Initialize auth components
	userManager := auth.NewUserManager(database.DB())
	jwtCfg := auth.DefaultJWTConfig()
	jwtCfg.Secret = viper.GetString("auth.jwt_secret")
	jwtService := auth.NewJWTService(jwtCfg, userManager)

	// Initialize repositories and the translator
	postRepo := db.NewPostRepository(database)
	langPackRepo := db.NewLanguagePackRepository(database)
	i18n.SetLogger(log)
	translator := i18n.NewTranslator(langPackRepo)

	// Create API instance with all dependencies
	api.SetLogger(log)
	api.SetVersionInfo(VersionInfo)
	apiInstance := api.New(api.Config{
		PostRepo:     postRepo,
		LangPackRepo: langPackRepo,
		Database:     database,
		Storage:      storageBackend,
		UserManager:  userManager,
		JWTService:   jwtService,
		Translator:   translator,
		RateLimit: api.RateLimitConfig{
			Enabled:            viper.GetBool("security.rate_limit.enabled"),
			AuthRequestsPerMin: viper.GetInt("security.rate_limit.auth_per_min"),
			APIRequestsPerMin:  viper.GetInt("security.rate_limit.api_per_min"),
			TrustProxy:         viper.GetBool("security.rate_limit.trust_proxy"),
		},
	})

	// Register all routes
	apiInstance.RegisterRoutes(router)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s := &Server{
		router:   router,
		database: database,
		storage:  storageBackend,
		api:      apiInstance,
	}

	// Expired token cleanup runs hourly until shutdown
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := userManager.CleanupExpiredTokens(); err != nil {
				log.Warn("Revoked token cleanup failed", "error", err)
			}
			if err := userManager.CleanupExpiredRefreshTokens(); err != nil {
				log.Warn("Refresh token cleanup failed", "error", err)
			}
		}
	}()

	return s
}

// Run starts the HTTP server
func (s *Server) Run() error {
	bind := viper.GetString("server.bind")
	port := viper.GetInt("server.port")
	addr := fmt.Sprintf("%s:%d", bind, port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting aidlinkd server", "address", addr)

		if s.storage != nil {
			log.Info("Photo storage enabled", "type", s.storage.Type(), "location", s.storage.Location())
		} else {
			log.Warn("Photo storage not configured - photo endpoints disabled")
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Received signal, shutting down", "signal", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// Shutdown performs a graceful shutdown of the server and database
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop API background workers
	if s.api != nil {
		s.api.Shutdown()
	}

	// Shutdown HTTP server
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}
	}

	// Close database
	if s.database != nil {
		log.Info("Closing database")
		if err := s.database.Shutdown(); err != nil {
			log.Error("Database shutdown error", "error", err)
			return err
		}
	}

	return nil
}

// corsMiddleware returns a gin middleware for handling CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Allow all origins for now (can be restricted via config later)
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Subject-Token, Accept-Language")
			c.Header("Access-Control-Expose-Headers", "X-Subject-Token")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ginLogger returns a gin middleware for logging requests
func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method

		if query != "" {
			path = path + "?" + query
		}

		log.Debug("HTTP request",
			"status", status,
			"method", method,
			"path", path,
			"latency", latency,
			"client_ip", c.ClientIP(),
		)
	}
}

// runServer is called by the root command to start the server
func runServer() error {
	log.Info("aidlinkd starting",
		"version", VersionInfo.Version,
		"build_date", VersionInfo.BuildDate,
		"log_output", log.Output(),
	)

	// Initialize database
	dbPath := viper.GetString("database.path")
	log.Info("Initializing database", "path", dbPath)

	// Set loggers before opening the database
	db.SetLogger(log)
	migrations.SetLogger(log)

	database, err := db.New(db.Config{
		Path: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Apply pending schema migrations
	runner := migrations.NewRunner(database.DB())
	if err := runner.Run(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize storage backend
	var storageBackend storage.Backend
	storageType := viper.GetString("storage.type")

	// If S3 endpoint is specified, use S3 regardless of storage.type
	s3Endpoint := viper.GetString("storage.s3.endpoint")
	if s3Endpoint != "" {
		storageType = "s3"
	}

	log.Info("Initializing storage", "type", storageType)

	storageCfg := storage.Config{
		Type: storageType,
		Local: storage.LocalConfig{
			BasePath: viper.GetString("storage.local.path"),
		},
		S3: storage.S3Config{
			Endpoint:        s3Endpoint,
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key"),
			SecretAccessKey: viper.GetString("storage.s3.secret_key"),
			UsePathStyle:    viper.GetBool("storage.s3.path_style"),
		},
	}

	storageBackend, err = storage.New(storageCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// For S3 backend, ensure bucket exists
	if s3Backend, ok := storageBackend.(*storage.S3Backend); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s3Backend.EnsureBucket(ctx); err != nil {
			log.Warn("S3 bucket not accessible - photos may not work correctly", "bucket", s3Backend.Bucket(), "error", err)
		} else {
			log.Debug("S3 bucket verified", "bucket", s3Backend.Bucket())
		}
	}

	server := NewServer(database, storageBackend)

	// Run server (blocks until shutdown signal)
	err = server.Run()

	// Ensure database is closed on shutdown
	if dbErr := database.Shutdown(); dbErr != nil {
		log.Error("Failed to close database", "error", dbErr)
		if err == nil {
			err = dbErr
		}
	}

	return err
}
