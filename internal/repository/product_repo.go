package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductListFilter struct {
	// Statuses restricts the listing; empty means every status.
	Statuses []models.ProductStatus
	Limit    int
	Offset   int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	// Save writes every column of p, inserting it when the id is unknown.
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	ListByStatus(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, count int32) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// LockByIDs loads the products with FOR UPDATE, ordered by id so that
	// concurrent lockers acquire rows in the same order.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	// DecrementStock subtracts qty only if enough stock remains and marks the
	// product SOLD_OUT when it reaches zero. false means insufficient stock.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
	// SyncSoldOut flips IN_STOCK with no stock to SOLD_OUT and SOLD_OUT with
	// stock back to IN_STOCK, returning the ids changed in each direction.
	SyncSoldOut(ctx context.Context) (soldOut []uuid.UUID, restocked []uuid.UUID, err error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 15
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Product
	if err := q.Order("created_at DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) ListByStatus(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var list []models.Product
	err := q.Order("created_at DESC").Order("id").Find(&list).Error
	return list, err
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, count int32) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock_count", count)
	return tx.RowsAffected > 0, tx.Error
}

// Delete marks the product DELETED. Order lines keep referencing it.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status <> ?", id, models.ProductDeleted).
		Update("status", models.ProductDeleted)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var list []models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&list).Error
	return list, err
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_count = stock_count - @q,
    status = CASE WHEN stock_count - @q = 0 THEN 'SOLD_OUT' ELSE status END,
    updated_at = now()
WHERE id = @pid
  AND stock_count >= @q
`, map[string]any{
		"pid": id,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) SyncSoldOut(ctx context.Context) ([]uuid.UUID, []uuid.UUID, error) {
	var soldOut, restocked []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		soldOut, err = flipStatus(tx, models.ProductInStock, models.ProductSoldOut, "stock_count = 0")
		if err != nil {
			return err
		}
		restocked, err = flipStatus(tx, models.ProductSoldOut, models.ProductInStock, "stock_count > 0")
		return err
	})
	return soldOut, restocked, err
}

func flipStatus(tx *gorm.DB, from, to models.ProductStatus, stockCond string) ([]uuid.UUID, error) {
	var changed []models.Product
	err := tx.Model(&changed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("status = ? AND "+stockCond, from).
		Update("status", to).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(changed))
	for _, p := range changed {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
