package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shop-service/internal/hashing"
	"shop-service/internal/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const TokenTypeBearer = "Bearer"

type AccountService struct {
	accounts AccountRepo
	hasher   PasswordHasher
	tokens   TokenProvider
	validate *validator.Validate

	accessTTL time.Duration
	log       *zap.Logger
}

func NewAccountService(accounts AccountRepo, hasher PasswordHasher, tokens TokenProvider, accessTTL time.Duration, log *zap.Logger) *AccountService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &AccountService{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		validate:  validator.New(),
		accessTTL: accessTTL,
		log:       log,
	}
}

type SignupInput struct {
	Username  string `validate:"required,min=3,max=25"`
	Password1 string `validate:"required"`
	Password2 string `validate:"required"`
	Email     string `validate:"required,email"`
}

type AccessToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

var signupFieldNames = map[string]string{
	"Username":  "username",
	"Password1": "password1",
	"Password2": "password2",
	"Email":     "email",
}

func (s *AccountService) validateSignup(in SignupInput) error {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[signupFieldNames[fe.Field()]] = fe.Tag()
		}
	}
	if _, ok := fields["password1"]; !ok {
		if err := hashing.CheckPassword(in.Password1); err != nil {
			fields["password1"] = err.Error()
		}
	}
	if _, ok := fields["password2"]; !ok && in.Password1 != in.Password2 {
		fields["password2"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Signup validates the form and creates a USER account.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validateSignup(in); err != nil {
		return nil, err
	}
	return s.CreateAccount(ctx, in.Username, in.Password1, in.Email, models.RoleUser)
}

// CreateAccount checks uniqueness up front and relies on the unique
// indexes to catch concurrent signups.
func (s *AccountService) CreateAccount(ctx context.Context, username, password, email string, role models.Role) (*models.Account, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	exists, err := s.accounts.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	exists, err = s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, hashing.ErrEmptyPassword) || errors.Is(err, hashing.ErrPasswordTooLong) {
		return nil, fieldError("password1", err.Error())
	}
	if err != nil {
		return nil, err
	}

	acc := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
			s.log.Warn("Конфликт уникальности при создании аккаунта", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("Аккаунт создан", zap.String("account_id", acc.ID.String()), zap.String("role", string(role)))
	return acc, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (AccessToken, error) {
	acc, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return AccessToken{}, err
	}
	if acc == nil || !s.hasher.Compare(acc.PasswordHash, password) {
		return AccessToken{}, ErrInvalidCredentials
	}

	tok, exp, err := s.tokens.Issue(acc.ID, acc.Username, acc.Role, s.accessTTL)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{AccessToken: tok, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// Authenticate resolves a token to the current account. Any failure is
// reported as ErrInvalidToken.
func (s *AccountService) Authenticate(ctx context.Context, token string) (AuthIdentity, error) {
	claims, err := s.tokens.ClaimsOf(token)
	if err != nil {
		return AuthIdentity{}, ErrInvalidToken
	}
	acc, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthIdentity{}, err
	}
	if acc == nil || !strings.EqualFold(acc.Username, claims.Subject) {
		return AuthIdentity{}, ErrInvalidToken
	}
	return ToAuthIdentity(*acc), nil
}

func (s *AccountService) Me(ctx context.Context) (*models.Account, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.GetByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// ListAccounts returns the accounts at or below the caller's privilege.
// USER callers are refused.
func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Role.AtLeast(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.accounts.ListByRoles(ctx, VisibleRoles(id.Role))
}

func (s *AccountService) Count(ctx context.Context) (int64, error) {
	return s.accounts.Count(ctx)
}
