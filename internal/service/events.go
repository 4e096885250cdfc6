package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderLineEvent struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int32     `json:"quantity"`
	TotalPrice  int64     `json:"total_price"`
}

type OrderPlacedEvent struct {
	OrderID    uuid.UUID        `json:"order_id"`
	AccountID  uuid.UUID        `json:"account_id"`
	Username   string           `json:"username"`
	Email      string           `json:"email"`
	Lines      []OrderLineEvent `json:"lines"`
	TotalPrice int64            `json:"total_price"`
	CreatedAt  time.Time        `json:"created_at"`
}

type EventBus interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
}
