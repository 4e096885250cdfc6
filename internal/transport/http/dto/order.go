package dto

import (
	"time"

	"shop-service/internal/models"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderLineResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Quantity   int32  `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	AccountID  string              `json:"account_id"`
	Status     string              `json:"status"`
	Lines      []OrderLineResponse `json:"lines"`
	TotalPrice int64               `json:"total_price"`
	CreatedAt  string              `json:"created_at"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:         l.ID.String(),
			ProductID:  l.ProductID.String(),
			Quantity:   l.Quantity,
			TotalPrice: l.TotalPrice,
		})
	}
	return OrderResponse{
		ID:         o.ID.String(),
		AccountID:  o.AccountID.String(),
		Status:     string(o.Status),
		Lines:      lines,
		TotalPrice: o.TotalPrice(),
		CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

type CartLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
}

func NewCartResponse(c *models.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineResponse{ProductID: l.ProductID.String(), Quantity: l.Quantity})
	}
	return CartResponse{Lines: lines}
}
