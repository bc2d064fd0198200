package main

import (
	"StartupCopilot/backend/go/internal/advisory_service/ai"
	"StartupCopilot/backend/go/internal/advisory_service/api"
	"StartupCopilot/backend/go/internal/advisory_service/service"
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/internal/config"
	"StartupCopilot/backend/go/internal/database/kafka"
	"StartupCopilot/backend/go/internal/database/minio"
	"StartupCopilot/backend/go/internal/database/mongo"
	"StartupCopilot/backend/go/internal/database/redis"
	"StartupCopilot/backend/go/internal/llm"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/logger"
	"StartupCopilot/backend/go/pkg/ratelimiter"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func retryPolicy(cfg config.RetryConfig) service.RetryPolicy {
	policy := service.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if cfg.MaxSessionRecoveryAttempts > 0 {
		policy.MaxSessionRecoveryAttempts = cfg.MaxSessionRecoveryAttempts
	}
	policy.RetryDelay = parseDuration(cfg.RetryDelay, policy.RetryDelay)
	policy.SessionRecoveryDelay = parseDuration(cfg.SessionRecoveryDelay, policy.SessionRecoveryDelay)
	return policy
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("backend/go/internal/config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logLevel, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("Invalid logger level: %v", err)
	}
	logger.Init(logLevel)
	serviceLogger := logger.New("AdvisoryService", "", "")

	ctx := context.Background()

	// Document store. When the persistence configuration is missing or
	// still holds placeholders the service runs on the in-memory store
	// instead of crashing; nothing survives a restart in that mode.
	var (
		docs        store.DocumentStore
		transport   service.Transport
		mongoClient *mongo.Client
		storeMode   = api.StoreModePersistent
	)
	if cfg.StoreConfigured() {
		mongoClient = mongo.New(&cfg.Databases.MongoDB)
		if err := mongoClient.Connect(ctx); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MongoDB")
		}
		serviceLogger.Info("Successfully connected to MongoDB")
		timeout := parseDuration(cfg.Advisory.OperationTimeout, 10*time.Second)
		docs = store.NewMongoDocumentStore(mongoClient.Database, timeout)
		transport = mongoClient
	} else {
		serviceLogger.WithPayload(map[string]interface{}{
			"missing": strings.Join(cfg.MissingStoreKeys(), ", "),
		}).Warn("Persistence not configured, running with in-memory store")
		docs = store.NewMemoryDocumentStore()
		transport = memoryTransport{}
		storeMode = api.StoreModeMemory
	}

	stores := service.Stores{
		Projects:      store.NewProjectStore(docs),
		Startups:      store.NewStartupStore(docs),
		Consultations: store.NewConsultationStore(docs),
		Profiles:      store.NewUserProfileStore(docs),
	}

	// The reload hook is the last resort of session recovery: terminate
	// and let the process supervisor restart the world.
	cm := service.NewConnectionManager(transport, retryPolicy(cfg.Advisory.Retry), func() {
		serviceLogger.Error("Session recovery exhausted, restarting process")
		proc, _ := os.FindProcess(os.Getpid())
		_ = proc.Signal(syscall.SIGTERM)
	}, serviceLogger)

	// AI advisor (optional)
	var advisor *ai.Advisor
	if cfg.LLM.Provider != "" {
		llmClient, err := llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("AI advisor disabled")
		} else {
			defer llmClient.Close()
			advisor = ai.NewAdvisor(llmClient, serviceLogger)
			serviceLogger.Info("AI advisor enabled")
		}
	}

	// Audit trail (optional)
	var audit *kafka.AuditPublisher
	if len(cfg.Databases.Kafka.Brokers) > 0 {
		audit = kafka.NewAuditPublisher(&cfg.Databases.Kafka)
		serviceLogger.Info("Kafka audit publisher enabled")
	}

	// Stats cache (optional)
	var cache *goredis.Client
	if cfg.Databases.Redis.Address != "" {
		cache, err = redis.GetClient(&cfg.Databases.Redis)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Stats cache disabled")
			cache = nil
		}
	}

	statsTTL := parseDuration(cfg.Advisory.StatsCacheTTL, 5*time.Minute)
	advisoryService := service.NewAdvisoryService(stores, cm, advisor, audit, cache, statsTTL, serviceLogger)

	// Report export (optional)
	var exporter *service.ReportExporter
	if cfg.Databases.MinIO.Endpoint != "" {
		minioClient, err := minio.GetClient(&cfg.Databases.MinIO)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Report export disabled")
		} else {
			if err := minio.EnsureBucket(ctx, cfg.Databases.MinIO.Bucket); err != nil {
				serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Report bucket check failed")
			}
			exporter = service.NewReportExporter(minioClient, cfg.Databases.MinIO.Bucket, serviceLogger)
			serviceLogger.Info("Report exporter enabled")
		}
	}

	// API rate limiting (optional)
	var limiter ratelimiter.RateLimiter
	if cfg.Middleware.RateLimiter.Enabled {
		limiter = ratelimiter.NewTokenBucket(cfg.Middleware.RateLimiter.Rate, cfg.Middleware.RateLimiter.Capacity)
	}

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(advisoryService, cm, exporter, storeMode, serviceLogger)
	router := api.SetupRouter(handler, cfg.Auth.JwtSecret, limiter)

	srv := &http.Server{
		Addr:    cfg.Advisory.ServerAddress,
		Handler: router,
	}

	go func() {
		serviceLogger.Info("Starting HTTP server on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("HTTP server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Server forced to shutdown")
	}

	if audit != nil {
		if err := audit.Close(); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Kafka publisher")
		}
	}
	if cache != nil {
		if err := redis.Close(); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing Redis client")
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error disconnecting from MongoDB")
		}
	}

	serviceLogger.Info("Server gracefully stopped")
}

// memoryTransport satisfies the connection manager when the in-memory store
// is active; there is no network to toggle.
type memoryTransport struct{}

func (memoryTransport) EnableNetwork(context.Context) error  { return nil }
func (memoryTransport) DisableNetwork(context.Context) error { return nil }
