package handlers

import (
	"net/http"
	"time"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"
	"shop-service/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accounts     AccountAPI
	cookieSecure bool
	log          *zap.Logger
}

func NewAccountHandler(accounts AccountAPI, cookieSecure bool, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, cookieSecure: cookieSecure, log: log}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с ролью USER
// @Tags users
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Данные регистрации"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Имя или email заняты"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /users/signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}

	acc, err := h.accounts.Signup(c.Request.Context(), service.SignupInput{
		Username:  req.Username,
		Password1: req.Password1,
		Password2: req.Password2,
		Email:     req.Email,
	})
	if err != nil {
		h.log.Warn("signup failed", zap.String("username", req.Username), zap.Error(err))
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAccountResponse(acc))
}

// Login godoc
// @Summary Вход по email и паролю
// @Description Выдаёт access-токен (Bearer) и ставит его в HttpOnly cookie
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные авторизации"
// @Success 200 {object} dto.AccessTokenResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный email или пароль"
// @Router /users/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}

	tok, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	maxAge := int(time.Until(tok.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tok.AccessToken, maxAge, "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, dto.AccessTokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int64(maxAge),
	})
}

// Logout godoc
// @Summary Выход
// @Description Удаляет cookie с токеном. Сам токен не отзывается.
// @Tags users
// @Success 204
// @Router /users/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /users/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	acc, err := h.accounts.Me(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(acc))
}

// List godoc
// @Summary Список пользователей
// @Description Пользователи с ролью не выше роли вызывающего. Для USER запрещено.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /users [get]
func (h *AccountHandler) List(c *gin.Context) {
	list, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]dto.AccountResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewAccountResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}
