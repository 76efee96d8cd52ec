package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "recycle-rewards-backend/docs"
	"recycle-rewards-backend/internal/common/config"
	"recycle-rewards-backend/internal/common/logger"
	"recycle-rewards-backend/internal/common/middleware"
	impacthttp "recycle-rewards-backend/internal/features/impact/delivery/http"
	impactmodels "recycle-rewards-backend/internal/features/impact/models"
	impactservice "recycle-rewards-backend/internal/features/impact/service"
	pickuphttp "recycle-rewards-backend/internal/features/pickup/delivery/http"
	pickupredis "recycle-rewards-backend/internal/features/pickup/repository/redis"
	pickupservice "recycle-rewards-backend/internal/features/pickup/service"
	userhttp "recycle-rewards-backend/internal/features/user/delivery/http"
	userredis "recycle-rewards-backend/internal/features/user/repository/redis"
	userservice "recycle-rewards-backend/internal/features/user/service"
	wallethttp "recycle-rewards-backend/internal/features/wallet/delivery/http"
	walletredis "recycle-rewards-backend/internal/features/wallet/repository/redis"
	walletservice "recycle-rewards-backend/internal/features/wallet/service"
	redisplatform "recycle-rewards-backend/internal/platform/redis"
	"recycle-rewards-backend/internal/workers"
)

// @title           Recycle Rewards API
// @version         1.0
// @description     Backend for the household recycling rewards app: impact dashboard, ZOINT wallet and account settings.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID
// @description Authenticated user ID resolved by the application gateway

// @tag.name users
// @tag.description Profile, bank details, avatar and password management

// @tag.name pickups
// @tag.description Waste collection scheduling and completion

// @tag.name impact
// @tag.description Recycled weight, CO2 savings and category breakdown

// @tag.name wallet
// @tag.description ZOINT redemption wizard and request history

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("recycle-rewards-backend", cfg.Debug)

	rates, err := impactmodels.LoadRates(cfg.Impact.RatesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load waste rates")
	}
	logger.Info().Int("categories", len(rates)).Msg("Waste rate table loaded")

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rdb, err := redisplatform.Open(ctx, redisAddr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := userredis.NewUserRepository(rdb.Client)
	codeRepo := userredis.NewCodeRepository(rdb.Client)
	pickupRepo := pickupredis.NewPickupRepository(rdb.Client)
	redemptionRepo := walletredis.NewRedemptionRepository(rdb.Client, cfg.Wallet.EventStream)

	userSvc := userservice.NewUserService(userRepo, codeRepo)
	pickupSvc := pickupservice.NewPickupService(pickupRepo, userSvc)
	impactSvc := impactservice.NewImpactService(userSvc, pickupSvc, rates)
	walletSvc := walletservice.NewWalletService(redemptionRepo)
	walletSvc.StartSweeper(ctx)

	eventWorker := workers.NewRedemptionEventWorker(rdb, cfg.Wallet.EventStream)
	go eventWorker.Start(ctx)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-User-ID", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity(userSvc))

	userhttp.NewUserHandler(userSvc).RegisterRoutes(v1)
	pickuphttp.NewPickupHandler(pickupSvc).RegisterRoutes(v1)
	impacthttp.NewImpactHandler(impactSvc).RegisterRoutes(v1)
	wallethttp.NewWalletHandler(walletSvc).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "recycle-rewards-backend",
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "redis unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
