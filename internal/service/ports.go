package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

type AccountRepo interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRoles(ctx context.Context, roles []models.Role) ([]models.Account, error)
	Count(ctx context.Context) (int64, error)
}

type ProductListFilter = repository.ProductListFilter

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	ListByStatus(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, count int32) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	Subject string
	UserID  uuid.UUID
	Role    models.Role
	Exp     time.Time
}

type TokenProvider interface {
	Issue(id uuid.UUID, username string, role models.Role, ttl time.Duration) (string, time.Time, error)
	Verify(token string) bool
	ClaimsOf(token string) (*Claims, error)
}

// ProductCache is an optional read-through cache. GetProduct returns
// (nil, nil) on a miss.
type ProductCache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, p *models.Product) error
	InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error
}

// TxRunner is the unit of work used by fulfillment.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}
