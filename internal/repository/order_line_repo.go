package repository

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderLineRepo interface {
	Create(ctx context.Context, l *models.OrderLine) error
	BulkCreate(ctx context.Context, lines []models.OrderLine) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type orderLineRepo struct{ db *gorm.DB }

func NewOrderLineRepo(db *gorm.DB) OrderLineRepo { return &orderLineRepo{db: db} }

func (r *orderLineRepo) Create(ctx context.Context, l *models.OrderLine) error {
	return r.db.WithContext(ctx).Omit("Product").Create(l).Error
}

func (r *orderLineRepo) BulkCreate(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&lines).Error
}

func (r *orderLineRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	var rows []models.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *orderLineRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).
		Select("COALESCE(SUM(total_price),0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	return total, err
}

func (r *orderLineRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).Where("product_id = ?", productID).Count(&cnt).Error
	return cnt, err
}
