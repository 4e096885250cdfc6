package token

import (
	"errors"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// HSProvider issues and verifies stateless HS256 access tokens.
// There is no revocation: a token is valid until exp.
type HSProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewHSProvider(secret, issuer string) *HSProvider {
	return &HSProvider{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

type customClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (p *HSProvider) Issue(id uuid.UUID, username string, role models.Role, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)

	claims := customClaims{
		UserID: id.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	return signed, exp, err
}

// Verify reports whether the token is well formed, correctly signed, issued
// by us and not expired. Any failure yields false.
func (p *HSProvider) Verify(token string) bool {
	_, err := p.ClaimsOf(token)
	return err == nil
}

func (p *HSProvider) ClaimsOf(token string) (*service.Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	uid, err := uuid.Parse(cc.UserID)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return &service.Claims{
		Subject: cc.Subject,
		UserID:  uid,
		Role:    models.Role(cc.Role),
		Exp:     cc.ExpiresAt.Time,
	}, nil
}
