package main

import (
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/internal/config"
	"StartupCopilot/backend/go/internal/database/mongo"
	"StartupCopilot/backend/go/internal/database/mysql"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/internal/user_service/api"
	"StartupCopilot/backend/go/internal/user_service/service"
	userstore "StartupCopilot/backend/go/internal/user_service/store"
	"StartupCopilot/backend/go/pkg/logger"
	"context"
	"log"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("backend/go/internal/config/config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("user_service", "", "")

	// Initialize database connection
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established")

	// Initialize dependencies (Store -> Service -> Handler)
	accountStore := userstore.NewStore(db)
	if err := accountStore.AutoMigrate(); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	tokenTTL := time.Duration(cfg.Auth.TokenTTL) * time.Second
	userService := service.NewService(accountStore, cfg.Auth.JwtSecret, tokenTTL)

	// When the document store is configured, first sign-in provisions the
	// matching profile document so the advisory service never sees an
	// authenticated user without one.
	if cfg.StoreConfigured() {
		mongoClient := mongo.New(&cfg.Databases.MongoDB)
		if err := mongoClient.Connect(context.Background()); err != nil {
			appLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Profile provisioning disabled")
		} else {
			profiles := store.NewUserProfileStore(store.NewMongoDocumentStore(mongoClient.Database, 10*time.Second))
			userService.Subscribe(func(event service.AuthEvent) {
				if !event.SignedIn {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				existing, err := profiles.GetByUID(ctx, event.UID)
				if err != nil || existing != nil {
					return
				}
				_, err = profiles.Create(ctx, &models.UserProfile{
					UID:   event.UID,
					Email: event.Email,
					Role:  models.RoleFounder,
				})
				if err != nil {
					appLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Profile provisioning failed")
				}
			})
			appLogger.Info("Profile provisioning enabled")
		}
	}

	apiHandler := api.NewHandler(userService)

	// Setup and start Gin router
	router := api.SetupRouter(apiHandler, cfg.Auth.JwtSecret)

	serverAddress := cfg.UserService.ServerAddress
	if serverAddress == "" {
		serverAddress = ":8080"
	}
	appLogger.Info("Starting server on " + serverAddress)

	if err := router.Run(serverAddress); err != nil {
		appLogger.Fatal(err.Error())
	}
}
