package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/config"
	_ "shop-service/docs"
	"shop-service/internal/cache"
	"shop-service/internal/catalogsync"
	"shop-service/internal/hashing"
	"shop-service/internal/producer"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/token"
	"shop-service/internal/transport/http/router"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Shop API
// @Version 1.0
// @Description API магазина: каталог, корзина, заказы
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var productCache service.ProductCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		productCache = redisClient
		log.Info("Redis cache enabled")
	} else {
		log.Info("Redis cache disabled")
	}

	var events service.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		orderProducer := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer orderProducer.Close()
		events = orderProducer
		log.Info("Kafka producer enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		log.Info("Kafka producer disabled")
	}

	hasher, err := hashing.NewBcrypt(cfg.Hash.BcryptCost)
	if err != nil {
		log.Fatal("invalid BCRYPT_COST", zap.Error(err))
	}
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	accountSvc := service.NewAccountService(repos.Accounts, hasher, tokens, cfg.JWT.AccessExp, log)
	catalogSvc := service.NewCatalogService(repos.Products, productCache, log)
	orderSvc := service.NewOrderService(repos, productCache, events, log)
	cartSvc := service.NewCartService(repos, log)

	syncSvc := catalogsync.NewSyncService(repos.Products, productCache, log)
	scheduler := catalogsync.NewScheduler(syncSvc, cfg.Catalog.SyncInterval, log)

	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()
	scheduler.Start(syncCtx)

	r := router.Router(router.Deps{
		Accounts:     accountSvc,
		Catalog:      catalogSvc,
		Orders:       orderSvc,
		Carts:        cartSvc,
		Auth:         accountSvc,
		CookieSecure: cfg.JWT.CookieSecure,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")

	scheduler.Stop()
	syncCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
