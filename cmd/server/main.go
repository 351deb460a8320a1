package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"inspectme/internal/api"
	"inspectme/internal/app"
	"inspectme/internal/config"
	"inspectme/internal/db"
	"inspectme/internal/logging"
	"inspectme/internal/repository"
	"inspectme/internal/storage"
	"inspectme/internal/stt"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}
	if envErr != nil {
		log.Debug("No .env file found, using environment variables")
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &api.Server{
		Recordings: storage.NewStore(cfg.UploadDir),
		Jobs:       newRepository(cfg, log),
		Timeout:    cfg.RequestTimeout,
		Log:        logging.Component(log, "api"),
	}

	if gen, err := app.NewGenerator(cfg, log); err != nil {
		log.WithError(err).Warn("Language model unavailable, inspection routes will answer 503")
	} else {
		server.Pipeline = app.NewPipeline(cfg, gen, log)
	}

	if provider, err := stt.CreateProvider(cfg, log); err != nil {
		log.WithError(err).Warn("Speech-to-text unavailable, transcription routes will answer 503")
	} else {
		server.STT = provider
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	// Add CORS middleware for the browser front end
	r.Use(corsMiddleware())

	// Register routes
	server.RegisterRoutes(r)

	log.Infof("Inspectme backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newRepository uses PostgreSQL when DATABASE_URL is set and reachable,
// in-memory history otherwise.
func newRepository(cfg *config.Config, log *logrus.Logger) repository.InspectionRepository {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, keeping inspection history in memory")
		return repository.NewMemoryRepository()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("Initializing database connection")
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize database, continuing with in-memory history")
		return repository.NewMemoryRepository()
	}
	if err := db.Migrate(ctx, conn); err != nil {
		log.WithError(err).Warn("Failed to migrate database, continuing with in-memory history")
		conn.Close()
		return repository.NewMemoryRepository()
	}
	log.Info("Database and repository initialized successfully")
	return repository.NewPostgresRepository(conn)
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("Request")
	}
}

// corsMiddleware adds CORS headers for the browser front end
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
