package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int32
}

type OrderService struct {
	repo   *repository.Repository
	tx     TxRunner
	cache  ProductCache // может быть nil
	events EventBus     // может быть nil
	now    func() time.Time
	log    *zap.Logger
}

type OrderOption func(*OrderService)

// WithTxRunner replaces the unit of work, e.g. to wrap the transactional
// repositories.
func WithTxRunner(tx TxRunner) OrderOption {
	return func(s *OrderService) { s.tx = tx }
}

func NewOrderService(repo *repository.Repository, cache ProductCache, events EventBus, log *zap.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:   repo,
		tx:     repo,
		cache:  cache,
		events: events,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type placed struct {
	order   *models.Order
	account *models.Account
	names   map[uuid.UUID]string
}

// PlaceOrder runs fulfillment for the authenticated caller.
func (s *OrderService) PlaceOrder(ctx context.Context, items []OrderItemInput) (*models.Order, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.Fulfill(ctx, id.ID, items)
}

// Fulfill creates the order header, its lines and decrements stock in one
// transaction. Any failure, including InsufficientStock, leaves no trace.
func (s *OrderService) Fulfill(ctx context.Context, accountID uuid.UUID, items []OrderItemInput) (*models.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var res placed
	err := s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		res, err = s.fulfill(ctx, tx, accountID, items)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, res)
	return res.order, nil
}

// Checkout turns the caller's cart into an order and empties the cart in
// the same transaction.
func (s *OrderService) Checkout(ctx context.Context) (*models.Order, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var res placed
	err = s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		cart, err := tx.Carts.GetByAccount(ctx, id.ID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Lines) == 0 {
			return ErrCartEmpty
		}

		items := make([]OrderItemInput, 0, len(cart.Lines))
		for _, l := range cart.Lines {
			items = append(items, OrderItemInput{ProductID: l.ProductID, Quantity: l.Quantity})
		}
		if err := validateItems(items); err != nil {
			return err
		}

		res, err = s.fulfill(ctx, tx, id.ID, items)
		if err != nil {
			return err
		}

		_, err = tx.Carts.Clear(ctx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, res)
	return res.order, nil
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrQuantityInvalid
		}
		if it.ProductID == uuid.Nil {
			return ErrProductNotFound
		}
	}
	return nil
}

func (s *OrderService) fulfill(ctx context.Context, tx *repository.Repository, accountID uuid.UUID, items []OrderItemInput) (placed, error) {
	acc, err := tx.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return placed{}, err
	}
	if acc == nil {
		return placed{}, ErrAccountNotFound
	}

	now := s.now().UTC()
	order := &models.Order{
		AccountID: accountID,
		Status:    models.OrderStatusOrdered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Orders.Create(ctx, order); err != nil {
		return placed{}, err
	}

	// Repeated products collapse into one line; first occurrence fixes the position.
	ids := make([]uuid.UUID, 0, len(items))
	sum := make(map[uuid.UUID]int64, len(items))
	for _, it := range items {
		if _, seen := sum[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		sum[it.ProductID] += int64(it.Quantity)
		if sum[it.ProductID] > math.MaxInt32 {
			return placed{}, fmt.Errorf("%w: %s", ErrQuantityInvalid, it.ProductID)
		}
	}
	qty := make(map[uuid.UUID]int32, len(sum))
	for pid, n := range sum {
		qty[pid] = int32(n)
	}

	locked, err := tx.Products.LockByIDs(ctx, ids)
	if err != nil {
		return placed{}, err
	}
	products := make(map[uuid.UUID]models.Product, len(locked))
	for _, p := range locked {
		products[p.ID] = p
	}

	lines := make([]models.OrderLine, 0, len(ids))
	names := make(map[uuid.UUID]string, len(ids))
	for _, pid := range ids {
		p, ok := products[pid]
		if !ok {
			return placed{}, fmt.Errorf("%w: %s", ErrProductNotFound, pid)
		}
		if p.Status == models.ProductDeleted || p.Status == models.ProductPreparing {
			return placed{}, fmt.Errorf("%w: %s", ErrProductUnavailable, pid)
		}
		total, ok := lineTotal(p.Price, qty[pid])
		if !ok {
			return placed{}, fmt.Errorf("%w: %s", ErrLineTotalOverflow, pid)
		}
		names[pid] = p.Name
		lines = append(lines, models.OrderLine{
			OrderID:    order.ID,
			ProductID:  pid,
			Quantity:   qty[pid],
			TotalPrice: total,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if err := tx.OrderLines.BulkCreate(ctx, lines); err != nil {
		return placed{}, err
	}

	for _, pid := range ids {
		ok, err := tx.Products.DecrementStock(ctx, pid, qty[pid])
		if err != nil {
			return placed{}, err
		}
		if !ok {
			return placed{}, fmt.Errorf("%w: %s", ErrInsufficientStock, pid)
		}
	}

	order.Lines = lines
	return placed{order: order, account: acc, names: names}, nil
}

// lineTotal multiplies price by qty and reports false when the result does
// not fit into int64.
func lineTotal(price int64, qty int32) (int64, bool) {
	if price < 0 || qty <= 0 {
		return 0, false
	}
	if price > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return price * int64(qty), true
}

func (s *OrderService) afterCommit(ctx context.Context, res placed) {
	ids := make([]uuid.UUID, 0, len(res.order.Lines))
	for _, l := range res.order.Lines {
		ids = append(ids, l.ProductID)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx, ids...); err != nil {
			s.log.Warn("Не удалось инвалидировать кэш после заказа", zap.String("order_id", res.order.ID.String()), zap.Error(err))
		}
	}

	s.log.Info("Заказ оформлен",
		zap.String("order_id", res.order.ID.String()),
		zap.String("account_id", res.order.AccountID.String()),
		zap.Int("lines", len(res.order.Lines)),
		zap.Int64("total", res.order.TotalPrice()),
	)

	if s.events == nil {
		return
	}

	evLines := make([]OrderLineEvent, 0, len(res.order.Lines))
	for _, l := range res.order.Lines {
		evLines = append(evLines, OrderLineEvent{
			ProductID:   l.ProductID,
			ProductName: res.names[l.ProductID],
			Quantity:    l.Quantity,
			TotalPrice:  l.TotalPrice,
		})
	}
	if err := s.events.PublishOrderPlaced(ctx, OrderPlacedEvent{
		OrderID:    res.order.ID,
		AccountID:  res.order.AccountID,
		Username:   res.account.Username,
		Email:      res.account.Email,
		Lines:      evLines,
		TotalPrice: res.order.TotalPrice(),
		CreatedAt:  res.order.CreatedAt,
	}); err != nil {
		s.log.Error("Не удалось опубликовать событие заказа", zap.String("order_id", res.order.ID.String()), zap.Error(err))
	}
}

func (s *OrderService) ListMine(ctx context.Context) ([]models.Order, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Orders.ListByAccount(ctx, id.ID)
}

// Get returns an order visible to the caller: its owner or ADMIN and above.
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil || (ord.AccountID != id.ID && !id.Role.AtLeast(models.RoleAdmin)) {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

// Latest returns the caller's most recent order. ADMIN and above may ask
// for the latest order overall.
func (s *OrderService) Latest(ctx context.Context, all bool) (*models.Order, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var owner *uuid.UUID
	if !all {
		owner = &id.ID
	} else if !id.Role.AtLeast(models.RoleAdmin) {
		return nil, ErrForbidden
	}

	ord, err := s.repo.Orders.MostRecent(ctx, owner)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}
