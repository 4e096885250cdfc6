package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog CatalogAPI
	log     *zap.Logger
}

func NewProductHandler(catalog CatalogAPI, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

func toProductInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		StockCount:  req.StockCount,
		Status:      models.ProductStatus(req.Status),
		Description: req.Description,
		Memo:        req.Memo,
		Image:       req.Image,
	}
}

func parseIDParam(c *gin.Context, log *zap.Logger, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		log.Warn("invalid id", zap.String("param", name), zap.String("value", c.Param(name)))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid id",
			[]dto.FieldError{{Field: name, Message: "must be a uuid"}}))
		return uuid.Nil, false
	}
	return id, true
}

// parseProductQuery reads ?status= (repeatable or comma separated),
// ?valid=true and ?page=&size=.
func parseProductQuery(c *gin.Context) (service.ProductQuery, error) {
	var q service.ProductQuery

	if c.Query("valid") == "true" {
		q.Statuses = append(q.Statuses, models.VisibleStatuses...)
	}
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				q.Statuses = append(q.Statuses, models.ProductStatus(strings.ToUpper(s)))
			}
		}
	}

	var err error
	if v := c.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil || q.Page < 0 {
			return q, errors.New("page must be a non-negative integer")
		}
	}
	if v := c.Query("size"); v != "" {
		if q.Size, err = strconv.Atoi(v); err != nil || q.Size <= 0 {
			return q, errors.New("size must be a positive integer")
		}
	}
	return q, nil
}

// List godoc
// @Summary Список товаров
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param status query []string false "Фильтр по статусу" collectionFormat(multi)
// @Param valid query bool false "Только IN_STOCK, PREPARING, SOLD_OUT"
// @Param page query int false "Номер страницы (с 0)"
// @Param size query int false "Размер страницы (по умолчанию 15)"
// @Success 200 {object} dto.ProductPageResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	q, err := parseProductQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{}))
		return
	}

	page, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.NewProductResponse(&page.Items[i]))
	}
	c.JSON(http.StatusOK, dto.ProductPageResponse{Items: items, Total: page.Total, Page: page.Page, Size: page.Size})
}

// Get godoc
// @Summary Товар по id
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, h.log, "id")
	if !ok {
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// Create godoc
// @Summary Создание товара
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.ProductRequest true "Товар"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), toProductInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(p))
}

// Put godoc
// @Summary Замена или создание товара
// @Description 200 если товар заменён, 201 если создан
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param product body dto.ProductRequest true "Товар"
// @Success 200 {object} dto.ProductResponse
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Put(c *gin.Context) {
	id, ok := parseIDParam(c, h.log, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	p, created, err := h.catalog.Upsert(c.Request.Context(), id, toProductInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewProductResponse(p))
}

// UpdateStock godoc
// @Summary Изменение остатка
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param stock body dto.StockRequest true "Новый остаток"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, h.log, "id")
	if !ok {
		return
	}
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	p, err := h.catalog.UpdateStock(c.Request.Context(), id, *req.StockCount)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// Delete godoc
// @Summary Удаление товара
// @Description Помечает товар как DELETED. 400 если товара нет.
// @Tags products
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 204
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, h.log, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("product does not exist", []dto.FieldError{}))
			return
		}
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
