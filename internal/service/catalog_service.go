package service

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

type CatalogService struct {
	products ProductRepo
	cache    ProductCache // может быть nil
	log      *zap.Logger
}

func NewCatalogService(products ProductRepo, cache ProductCache, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, cache: cache, log: log}
}

type ProductInput struct {
	Name        string
	Price       int64
	StockCount  int32
	Status      models.ProductStatus
	Description string
	Memo        string
	Image       string
}

type ProductQuery struct {
	Statuses []models.ProductStatus
	Page     int
	Size     int
}

type ProductPage struct {
	Items []models.Product
	Total int64
	Page  int
	Size  int
}

func validateProduct(in *ProductInput) error {
	if in.Status == "" {
		in.Status = models.ProductPreparing
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.StockCount < 0 {
		return ErrInvalidStock
	}
	if in.Price < 0 {
		return ErrInvalidPrice
	}
	if in.Name == "" {
		return fieldError("name", "required")
	}
	return nil
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.StockCount = in.StockCount
	p.Status = in.Status
	p.Description = in.Description
	p.Memo = in.Memo
	p.Image = in.Image
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	p := &models.Product{}
	in.apply(p)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.GetProduct(ctx, id); err != nil {
			s.log.Warn("Ошибка чтения товара из кэша", zap.String("product_id", id.String()), zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, p); err != nil {
			s.log.Warn("Не удалось записать товар в кэш", zap.String("product_id", id.String()), zap.Error(err))
		}
	}
	return p, nil
}

// List pages through products; an empty status set means all statuses.
func (s *CatalogService) List(ctx context.Context, q ProductQuery) (ProductPage, error) {
	for _, st := range q.Statuses {
		if !st.Valid() {
			return ProductPage{}, ErrInvalidStatus
		}
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}

	items, total, err := s.products.List(ctx, ProductListFilter{
		Statuses: q.Statuses,
		Limit:    q.Size,
		Offset:   q.Page * q.Size,
	})
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Items: items, Total: total, Page: q.Page, Size: q.Size}, nil
}

func (s *CatalogService) ListByStatus(ctx context.Context, statuses []models.ProductStatus) ([]models.Product, error) {
	return s.products.ListByStatus(ctx, statuses)
}

// Upsert replaces the product with the given id or creates it. created
// reports which of the two happened.
func (s *CatalogService) Upsert(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, bool, error) {
	if err := validateProduct(&in); err != nil {
		return nil, false, err
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		p := &models.Product{ID: id}
		in.apply(p)
		if err := s.products.Create(ctx, p); err != nil {
			return nil, false, err
		}
		return p, true, nil
	}

	in.apply(existing)
	if err := s.products.Save(ctx, existing); err != nil {
		return nil, false, err
	}
	s.invalidate(ctx, id)
	return existing, false, nil
}

func (s *CatalogService) UpdateStock(ctx context.Context, id uuid.UUID, count int32) (*models.Product, error) {
	if count < 0 {
		return nil, ErrInvalidStock
	}
	ok, err := s.products.UpdateStock(ctx, id, count)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	s.invalidate(ctx, id)

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.InvalidateProducts(ctx, ids...); err != nil {
		s.log.Warn("Не удалось инвалидировать кэш товаров", zap.Error(err))
	}
}
