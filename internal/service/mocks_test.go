package service_test

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/google/uuid"
)

type MockAccountRepo struct {
	CreateFunc           func(ctx context.Context, a *models.Account) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*models.Account, error)
	GetByUsernameFunc    func(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	ListByRolesFunc      func(ctx context.Context, roles []models.Role) ([]models.Account, error)
	CountFunc            func(ctx context.Context) (int64, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, a *models.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	a.ID = uuid.New()
	return nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *MockAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockAccountRepo) ListByRoles(ctx context.Context, roles []models.Role) ([]models.Account, error) {
	if m.ListByRolesFunc != nil {
		return m.ListByRolesFunc(ctx, roles)
	}
	return nil, nil
}

func (m *MockAccountRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

type MockProductRepo struct {
	CreateFunc       func(ctx context.Context, p *models.Product) error
	SaveFunc         func(ctx context.Context, p *models.Product) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListFunc         func(ctx context.Context, f service.ProductListFilter) ([]models.Product, int64, error)
	ListByStatusFunc func(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error)
	UpdateStockFunc  func(ctx context.Context, id uuid.UUID, count int32) (bool, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) Save(ctx context.Context, p *models.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f service.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) ListByStatus(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, statuses)
	}
	return nil, nil
}

func (m *MockProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, count int32) (bool, error) {
	if m.UpdateStockFunc != nil {
		return m.UpdateStockFunc(ctx, id, count)
	}
	return false, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockCache struct {
	items       map[uuid.UUID]models.Product
	invalidated []uuid.UUID
}

func newMockCache() *MockCache { return &MockCache{items: map[uuid.UUID]models.Product{}} }

func (c *MockCache) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *MockCache) SetProduct(_ context.Context, p *models.Product) error {
	c.items[p.ID] = *p
	return nil
}

func (c *MockCache) InvalidateProducts(_ context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		delete(c.items, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

// plainHasher stores passwords with a prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(h, p string) bool      { return h == "h:"+p }

type MockTokens struct {
	IssueFunc    func(id uuid.UUID, username string, role models.Role, ttl time.Duration) (string, time.Time, error)
	ClaimsOfFunc func(token string) (*service.Claims, error)
}

func (m *MockTokens) Issue(id uuid.UUID, username string, role models.Role, ttl time.Duration) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(id, username, role, ttl)
	}
	return "token", time.Now().Add(ttl), nil
}

func (m *MockTokens) Verify(token string) bool {
	_, err := m.ClaimsOf(token)
	return err == nil
}

func (m *MockTokens) ClaimsOf(token string) (*service.Claims, error) {
	if m.ClaimsOfFunc != nil {
		return m.ClaimsOfFunc(token)
	}
	return nil, service.ErrInvalidToken
}
