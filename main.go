// File: carelink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carelink/bookingapi"
	"carelink/config"
	"carelink/database"
	auditRepo "carelink/database/repository/audit"
	"carelink/handlers"
	"carelink/middleware"
	"carelink/routes"
	"carelink/services/requests"
	"carelink/services/session"
	"carelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Fetchers that go unread this long stop polling until the next portal hit.
const fetcherIdleAfter = 10 * time.Minute

const sessionTTL = 24 * time.Hour

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Remote booking service client.
	apiClient := bookingapi.NewClient(
		config.AppConfig.BookingAPIURL,
		config.AppConfig.BookingAPITimeout,
		logger,
	)

	// Repositories and services.
	actionAudit := auditRepo.NewMongoActionRecordRepo()
	sessionStore := session.NewRedisStore(utils.GetSessionCacheClient(), sessionTTL)

	registry := requests.NewRegistry(apiClient, config.AppConfig.PollInterval, fetcherIdleAfter, logger)
	dispatcher := requests.NewDispatcher(apiClient, registry, actionAudit, logger)

	// Handlers.
	sessionHandler := handlers.NewSessionHandler(sessionStore, registry, logger)
	requestHandler := handlers.NewRequestHandler(registry, dispatcher, apiClient, actionAudit, logger)

	routes.RegisterRoutes(router, sessionStore, sessionHandler, requestHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

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
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	registry.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
