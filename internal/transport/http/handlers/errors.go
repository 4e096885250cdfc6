package handlers

import (
	"errors"
	"net/http"
	"sort"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps service errors onto the HTTP error envelope.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", validationFields(verr)))
	case errors.Is(err, service.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, dto.NewConflictError("username already taken",
			dto.FieldError{Field: "username", Message: "already taken"}))
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, dto.NewConflictError("email already registered",
			dto.FieldError{Field: "email", Message: "already registered"}))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid email or password"))
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("forbidden"))
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrProductUnavailable):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrLineTotalOverflow),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{}))
	default:
		log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func validationFields(verr *service.ValidationError) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(verr.Fields))
	for f, msg := range verr.Fields {
		out = append(out, dto.FieldError{Field: f, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func bindError(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", dto.FieldErrorsFrom(err)))
}
