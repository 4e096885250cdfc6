package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"

	// AccessTokenCookie carries the session-style token set at login.
	AccessTokenCookie = "access_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.AuthIdentity, error)
}

// AuthRequired accepts a Bearer token or the session cookie and puts the
// caller's identity into the request context.
func AuthRequired(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing credentials"))
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				log.Error("authentication failed", zap.String("path", c.FullPath()), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewInternalError(""))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), id))
		c.Set(CtxUserID, id.ID.String())
		c.Set(CtxUserRole, string(id.Role))
		c.Next()
	}
}

// RequireRole must run after AuthRequired.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := service.RoleFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
			return
		}
		if !role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("insufficient role"))
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) (string, bool) {
	if authz := c.GetHeader("Authorization"); authz != "" {
		t, ok := ExtractBearerToken(authz)
		return t, ok && t != ""
	}
	if t, err := c.Cookie(AccessTokenCookie); err == nil && t != "" {
		return t, true
	}
	return "", false
}

// ExtractBearerToken извлекает токен из заголовка Authorization.
// Допускаются кавычки вокруг токена и хвост после запятой.
func ExtractBearerToken(authz string) (string, bool) {
	scheme, rest, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(rest), " \"'")
	if i := strings.IndexAny(t, ", "); i >= 0 {
		t = t[:i]
	}
	return strings.Trim(t, " \"'"), true
}
