package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	// GetOrCreate returns the account's cart, creating an empty one if needed.
	GetOrCreate(ctx context.Context, accountID uuid.UUID) (*models.Cart, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*models.Cart, error)
	// AddLine inserts the line or adds qty to the existing one.
	AddLine(ctx context.Context, cartID, productID uuid.UUID, qty int32) error
	RemoveLine(ctx context.Context, cartID, productID uuid.UUID) (bool, error)
	Clear(ctx context.Context, cartID uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*models.Cart, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "account_id"}}, DoNothing: true}).
		Omit("Lines", "Account").
		Create(&models.Cart{AccountID: accountID}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByAccount(ctx, accountID)
}

func (r *cartRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC").Order("cart_lines.id ASC")
		}).
		First(&cart, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) AddLine(ctx context.Context, cartID, productID uuid.UUID, qty int32) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO cart_lines (cart_id, product_id, quantity)
VALUES (@cid, @pid, @q)
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, map[string]any{
		"cid": cartID,
		"pid": productID,
		"q":   qty,
	}).Error
}

func (r *cartRepo) RemoveLine(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartLine{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) Clear(ctx context.Context, cartID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartLine{})
	return tx.RowsAffected, tx.Error
}
