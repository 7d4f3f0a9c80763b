// File: travelbot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbot/config"
	"travelbot/database"
	"travelbot/database/repository"
	"travelbot/handlers"
	"travelbot/middleware"
	"travelbot/routes"
	"travelbot/services/booking"
	"travelbot/services/conversation"
	"travelbot/services/oracle"
	"travelbot/services/refdata"
	"travelbot/services/validation"
	"travelbot/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	catalog, err := refdata.Load(config.AppConfig.CityTablePath, config.AppConfig.PurposeTablePath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load reference tables: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	auditRepo := repository.NewMongoAuditRepo()

	// services.
	gateway := validation.NewGateway(
		config.AppConfig.TravelAPIBaseURL,
		config.AppConfig.TravelAPIUsername,
		config.AppConfig.TravelAPIPassword,
		time.Duration(config.AppConfig.ValidationTimeoutSec)*time.Second,
	)

	backend := booking.NewClient(
		config.AppConfig.TravelAPIBaseURL,
		config.AppConfig.TravelAPIUsername,
		config.AppConfig.TravelAPIPassword,
		time.Duration(config.AppConfig.SubmitTimeoutSec)*time.Second,
		auditRepo,
	)

	oracleClient, err := oracle.NewClient(
		context.Background(),
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		catalog,
		time.Duration(config.AppConfig.OracleTimeoutSec)*time.Second,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize oracle client: %v", err)
	}

	sessionStore := conversation.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMin)*time.Minute,
	)

	engine := conversation.NewEngine(sessionStore, oracleClient, gateway, backend, catalog)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ChatHandler:          handlers.ChatHandler(engine),
		GetSessionHandler:    handlers.GetSessionHandler(sessionStore),
		DeleteSessionHandler: handlers.DeleteSessionHandler(engine),
		ListTripsHandler:     handlers.ListTripsHandler(backend),
		ListAuditHandler:     handlers.ListAuditHandler(auditRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Sugar().Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Sugar().Info("Server exited cleanly")
}
