package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tally/config"
	"tally/cron"
	"tally/database"
	tokenrecordRepo "tally/database/repository/tokenrecord"
	userRepoPkg "tally/database/repository/user"
	"tally/handlers"
	"tally/middleware"
	"tally/routes"
	"tally/services/token"
	"tally/services/user"
	"tally/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	recordRepo := tokenrecordRepo.NewMongoTokenRecordRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}
	tokenService := &token.DefaultTokenService{
		Repo: recordRepo,
	}

	userHandler := handlers.NewUserHandler(userService)
	tokenHandler := handlers.NewTokenHandler(tokenService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		// User endpoints.
		RegisterUserHandler:        userHandler.RegisterUserHandler,
		AuthenticateUserHandler:    userHandler.AuthenticateUserHandler,
		GetMeHandler:               userHandler.GetMeHandler,
		UpdateUserHandler:          userHandler.UpdateUserHandler,
		DeleteUserHandler:          userHandler.DeleteUserHandler,
		RevokeUserAuthTokenHandler: userHandler.RevokeUserAuthTokenHandler,

		// Token record endpoints.
		SubmitTokenDataHandler:   tokenHandler.SubmitTokenDataHandler,
		GetTokenRecordsHandler:   tokenHandler.GetTokenRecordsHandler,
		GetTokenRecordHandler:    tokenHandler.GetTokenRecordHandler,
		DeleteTokenRecordHandler: tokenHandler.DeleteTokenRecordHandler,
		GetCurrentSlotHandler:    tokenHandler.GetCurrentSlotHandler,
		GetGridHandler:           tokenHandler.GetGridHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background close-of-day reconciliation sweep.
	cron.InitReconcileWorker(tokenService, userRepo)
	cron.StartSweepScheduler()

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
