package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB         *gorm.DB
	Accounts   AccountRepo
	Products   ProductRepo
	Orders     OrderRepo
	OrderLines OrderLineRepo
	Carts      CartRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Accounts:   NewAccountRepo(db),
		Products:   NewProductRepo(db),
		Orders:     NewOrderRepo(db),
		OrderLines: NewOrderLineRepo(db),
		Carts:      NewCartRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a Repository bound to a single transaction.
// A returned error (or panic) rolls back every write made through tx.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
