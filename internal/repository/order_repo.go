package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Order, error)
	// MostRecent returns the newest order, optionally limited to one account.
	MostRecent(ctx context.Context, accountID *uuid.UUID) (*models.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Lines", "Account").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Lines", linesOrdered).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", linesOrdered).
		Where("account_id = ?", accountID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *orderRepo) MostRecent(ctx context.Context, accountID *uuid.UUID) (*models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Lines", linesOrdered)
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}

	var ord models.Order
	err := q.Order("created_at DESC").Order("id DESC").First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func linesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("order_lines.created_at ASC").Order("order_lines.id ASC")
}
