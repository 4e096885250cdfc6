package handlers

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/google/uuid"
)

type AccountAPI interface {
	Signup(ctx context.Context, in service.SignupInput) (*models.Account, error)
	Login(ctx context.Context, email, password string) (service.AccessToken, error)
	Me(ctx context.Context) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

type CatalogAPI interface {
	Create(ctx context.Context, in service.ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, q service.ProductQuery) (service.ProductPage, error)
	Upsert(ctx context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, bool, error)
	UpdateStock(ctx context.Context, id uuid.UUID, count int32) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderAPI interface {
	PlaceOrder(ctx context.Context, items []service.OrderItemInput) (*models.Order, error)
	Checkout(ctx context.Context) (*models.Order, error)
	ListMine(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Latest(ctx context.Context, all bool) (*models.Order, error)
}

type CartAPI interface {
	AddItem(ctx context.Context, productID uuid.UUID, qty int32) (*models.Cart, error)
	Get(ctx context.Context) (*models.Cart, error)
	RemoveItem(ctx context.Context, productID uuid.UUID) error
}
