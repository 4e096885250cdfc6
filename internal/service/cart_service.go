package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

// AddItem adds qty of a product to the caller's cart, accumulating with
// any quantity already there. Stock is only checked at checkout.
func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID, qty int32) (*models.Cart, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, ErrQuantityInvalid
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.Status == models.ProductDeleted {
		return nil, ErrProductUnavailable
	}

	var cart *models.Cart
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		c, err := tx.Carts.GetOrCreate(ctx, id.ID)
		if err != nil {
			return err
		}
		if err := tx.Carts.AddLine(ctx, c.ID, productID, qty); err != nil {
			return err
		}
		cart, err = tx.Carts.GetByAccount(ctx, id.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context) (*models.Cart, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.Carts.GetByAccount(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{AccountID: id.ID, Lines: []models.CartLine{}}, nil
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	id, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	cart, err := s.repo.Carts.GetByAccount(ctx, id.ID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartItemNotFound
	}
	ok, err := s.repo.Carts.RemoveLine(ctx, cart.ID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	return nil
}
