package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepo interface {
	// Create inserts the account. A unique index violation is reported as
	// ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	ListByRoles(ctx context.Context, roles []models.Role) ([]models.Account, error)
	MostRecent(ctx context.Context) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) AccountRepo { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	return mapAccountUniqueViolation(r.db.WithContext(ctx).Create(a).Error)
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "lower(email) = lower(?)", email)
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.first(ctx, "lower(username) = lower(?)", username)
}

func (r *accountRepo) first(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var acc models.Account
	if err := r.db.WithContext(ctx).Where(query, args...).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("lower(username) = lower(?)", username).Count(&cnt).Error
	return cnt > 0, err
}

func (r *accountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("lower(email) = lower(?)", email).Count(&cnt).Error
	return cnt > 0, err
}

func (r *accountRepo) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	return r.ListByRoles(ctx, []models.Role{role})
}

func (r *accountRepo) ListByRoles(ctx context.Context, roles []models.Role) ([]models.Account, error) {
	if len(roles) == 0 {
		return []models.Account{}, nil
	}
	var list []models.Account
	err := r.db.WithContext(ctx).Where("role IN ?", roles).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *accountRepo) MostRecent(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&cnt).Error
	return cnt, err
}
