// File: meetwise/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetwise/config"
	"meetwise/handlers"
	"meetwise/middleware"
	"meetwise/routes"
	"meetwise/services/calendar"
	ai "meetwise/services/intelligence"
	"meetwise/services/scheduling"
	"meetwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(routes.CORSConfig())

	// Completion provider (vendor selection is configuration).
	llm, err := ai.NewCompletionProvider(config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize completion provider: %v", err)
	}

	// Session store.
	var sessions scheduling.SessionStore
	var redisClients []*redis.Client
	switch config.AppConfig.SessionStore {
	case "redis":
		client := utils.GetSessionCacheClient()
		redisClients = append(redisClients, client)
		ttl := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
		sessions = scheduling.NewRedisSessionStore(client, ttl)
	default:
		sessions = scheduling.NewMemorySessionStore()
	}
	utils.StartHealthMonitor(redisClients)

	// Calendar backend. The in-memory provider serves local development;
	// production deployments plug their own calendar.Provider in here.
	calendarProvider := calendar.NewMemoryProvider()

	window := scheduling.NewTimeWindowPolicy(
		config.AppConfig.BusinessHoursStart,
		config.AppConfig.BusinessHoursEnd,
		config.AppConfig.UTCOffsetMinutes,
	)

	orchestrator := scheduling.NewDefaultOrchestrator(
		ai.NewDefaultIntentClassifier(llm),
		ai.NewDefaultSlotExtractor(llm, config.AppConfig.UTCOffsetMinutes),
		scheduling.NewDefaultAvailabilityEngine(calendarProvider, window),
		scheduling.NewBookingExecutor(calendarProvider),
		sessions,
		llm,
	)

	assistantHandler := handlers.NewAssistantHandler(orchestrator)
	routes.RegisterAssistantRoutes(router, assistantHandler)
	routes.RegisterSystemRoutes(router)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
