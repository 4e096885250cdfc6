package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"go.uber.org/zap"
)

const (
	MinCount = 1
	MaxCount = 100

	// accounts are not seeded once this many exist
	accountsThreshold = 10
	DummyPassword     = "1234"
)

var ErrInvalidCount = errors.New("count must be between 1 and 100")

type Seeder struct {
	catalog  *service.CatalogService
	accounts *service.AccountService
	intn     func(n int) int
	log      *zap.Logger
}

func New(catalog *service.CatalogService, accounts *service.AccountService, log *zap.Logger) *Seeder {
	return &Seeder{catalog: catalog, accounts: accounts, intn: rand.IntN, log: log}
}

func validCount(n int) error {
	if n < MinCount || n > MaxCount {
		return ErrInvalidCount
	}
	return nil
}

// Products creates count products with a random price, stock 100*i and a
// random status.
func (s *Seeder) Products(ctx context.Context, count int) ([]models.Product, error) {
	if err := validCount(count); err != nil {
		return nil, err
	}
	statuses := []models.ProductStatus{
		models.ProductPreparing, models.ProductInStock, models.ProductSoldOut, models.ProductDeleted,
	}

	out := make([]models.Product, 0, count)
	for i := 1; i <= count; i++ {
		p, err := s.catalog.Create(ctx, service.ProductInput{
			Name:        fmt.Sprintf("Тестовый товар %d", i),
			Price:       int64(1000 * s.intn(10)),
			StockCount:  int32(100 * i),
			Status:      statuses[s.intn(len(statuses))],
			Description: "Описание товара",
			Memo:        "Заметка",
			Image:       "/static/path/to/image",
		})
		if err != nil {
			return out, fmt.Errorf("seed product %d: %w", i, err)
		}
		out = append(out, *p)
	}
	s.log.Info("Тестовые товары созданы", zap.Int("count", len(out)))
	return out, nil
}

// Accounts creates count accounts per role named ROLE+i. Nothing is created
// when the store already holds enough accounts.
func (s *Seeder) Accounts(ctx context.Context, count int) (int, error) {
	if err := validCount(count); err != nil {
		return 0, err
	}
	existing, err := s.accounts.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing >= accountsThreshold {
		s.log.Info("Аккаунтов достаточно, пропускаем", zap.Int64("existing", existing))
		return 0, nil
	}

	created := 0
	for _, role := range models.Roles {
		for i := 1; i <= count; i++ {
			name := fmt.Sprintf("%s%d", role, i)
			email := strings.ToLower(name) + "@tt.cc"
			_, err := s.accounts.CreateAccount(ctx, name, DummyPassword, email, role)
			if errors.Is(err, service.ErrDuplicateUsername) || errors.Is(err, service.ErrDuplicateEmail) {
				continue
			}
			if err != nil {
				return created, fmt.Errorf("seed account %s: %w", name, err)
			}
			created++
		}
	}
	s.log.Info("Тестовые аккаунты созданы", zap.Int("count", created))
	return created, nil
}
