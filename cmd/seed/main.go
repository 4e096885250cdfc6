package main

import (
	"context"
	"flag"
	"os"

	"shop-service/config"
	"shop-service/internal/hashing"
	"shop-service/internal/repository"
	"shop-service/internal/seed"
	"shop-service/internal/service"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	products := flag.Int("products", 10, "number of dummy products (1..100)")
	accounts := flag.Int("accounts", 3, "number of dummy accounts per role (1..100)")
	flag.Parse()

	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.LoadDB(log)

	db := database.ConnectDB(&cfg.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	catalog := service.NewCatalogService(repos.Products, nil, log)
	hasher, err := hashing.NewBcrypt(0)
	if err != nil {
		log.Fatal("failed to create hasher", zap.Error(err))
	}
	// токены не нужны: сидер только создаёт аккаунты
	accountSvc := service.NewAccountService(repos.Accounts, hasher, nil, 0, log)

	s := seed.New(catalog, accountSvc, log)
	ctx := context.Background()

	if _, err := s.Products(ctx, *products); err != nil {
		log.Fatal("failed to seed products", zap.Error(err))
	}
	if _, err := s.Accounts(ctx, *accounts); err != nil {
		log.Fatal("failed to seed accounts", zap.Error(err))
	}
	log.Info("seed completed")
}
