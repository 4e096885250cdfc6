package handlers

import (
	"net/http"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders OrderAPI
	carts  CartAPI
	log    *zap.Logger
}

func NewOrderHandler(orders OrderAPI, carts CartAPI, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts, log: log}
}

// Create godoc
// @Summary Оформление заказа
// @Description Создаёт заказ и списывает остатки в одной транзакции
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body dto.CreateOrderRequest true "Позиции заказа"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Недостаточно товара"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id",
				[]dto.FieldError{{Field: "product_id", Message: "must be a uuid"}}))
			return
		}
		items = append(items, service.OrderItemInput{ProductID: pid, Quantity: it.Quantity})
	}

	ord, err := h.orders.PlaceOrder(c.Request.Context(), items)
	if err != nil {
		h.log.Warn("place order failed", zap.Error(err))
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(ord))
}

// List godoc
// @Summary Мои заказы
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OrderResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	list, err := h.orders.ListMine(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Latest godoc
// @Summary Последний заказ
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Последний заказ среди всех (ADMIN+)"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /orders/latest [get]
func (h *OrderHandler) Latest(c *gin.Context) {
	ord, err := h.orders.Latest(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(ord))
}

// Get godoc
// @Summary Заказ по id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, h.log, "id")
	if !ok {
		return
	}
	ord, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(ord))
}

// Cart godoc
// @Summary Корзина
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Router /cart [get]
func (h *OrderHandler) Cart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// AddToCart godoc
// @Summary Добавить товар в корзину
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body dto.CartItemRequest true "Товар и количество"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /cart/items [post]
func (h *OrderHandler) AddToCart(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id",
			[]dto.FieldError{{Field: "product_id", Message: "must be a uuid"}}))
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), pid, req.Quantity)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// RemoveFromCart godoc
// @Summary Убрать товар из корзины
// @Tags cart
// @Security BearerAuth
// @Param productId path string true "ID товара"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /cart/items/{productId} [delete]
func (h *OrderHandler) RemoveFromCart(c *gin.Context) {
	pid, ok := parseIDParam(c, h.log, "productId")
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), pid); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary Оформить корзину
// @Description Превращает корзину в заказ и очищает её в той же транзакции
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Корзина пуста"
// @Failure 409 {object} dto.ConflictErrorResponse "Недостаточно товара"
// @Router /cart/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	ord, err := h.orders.Checkout(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(ord))
}

