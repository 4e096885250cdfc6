package dto

import (
	"time"

	"shop-service/internal/models"
)

type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       int64  `json:"price" binding:"gte=0"`
	StockCount  int32  `json:"stock_count" binding:"gte=0"`
	Status      string `json:"status" binding:"omitempty,oneof=PREPARING IN_STOCK SOLD_OUT DELETED"`
	Description string `json:"description"`
	Memo        string `json:"memo"`
	Image       string `json:"image"`
}

type StockRequest struct {
	StockCount *int32 `json:"stock_count" binding:"required,gte=0"`
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	StockCount  int32  `json:"stock_count"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Memo        string `json:"memo,omitempty"`
	Image       string `json:"image,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ProductPageResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		StockCount:  p.StockCount,
		Status:      string(p.Status),
		Description: p.Description,
		Memo:        p.Memo,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
