package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shop-service/internal/hashing"
	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newAccountService(repo *MockAccountRepo, tokens *MockTokens) *service.AccountService {
	if tokens == nil {
		tokens = &MockTokens{}
	}
	return service.NewAccountService(repo, plainHasher{}, tokens, time.Hour, zap.NewNop())
}

var longPassword = strings.Repeat("x", hashing.MaxPasswordBytes+1)

func TestSignup_Validation(t *testing.T) {
	svc := newAccountService(&MockAccountRepo{}, nil)

	cases := []struct {
		name  string
		in    service.SignupInput
		field string
	}{
		{"short username", service.SignupInput{Username: "ab", Password1: "x", Password2: "x", Email: "a@b.cc"}, "username"},
		{"bad email", service.SignupInput{Username: "alice", Password1: "x", Password2: "x", Email: "nope"}, "email"},
		{"mismatch", service.SignupInput{Username: "alice", Password1: "x", Password2: "y", Email: "a@b.cc"}, "password2"},
		{"missing password", service.SignupInput{Username: "alice", Password2: "y", Email: "a@b.cc"}, "password1"},
		{"password over bcrypt limit", service.SignupInput{Username: "alice", Password1: longPassword, Password2: longPassword, Email: "a@b.cc"}, "password1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.in)
			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("expected ErrValidation in chain")
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestSignup_CreatesUser(t *testing.T) {
	var stored *models.Account
	repo := &MockAccountRepo{
		CreateFunc: func(_ context.Context, a *models.Account) error {
			a.ID = uuid.New()
			stored = a
			return nil
		},
	}
	svc := newAccountService(repo, nil)

	acc, err := svc.Signup(context.Background(), service.SignupInput{
		Username: " alice ", Password1: "pw", Password2: "pw", Email: "alice@x.com",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if acc.Role != models.RoleUser || acc.Username != "alice" {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if stored.PasswordHash != "h:pw" {
		t.Fatalf("password must be hashed, got %q", stored.PasswordHash)
	}
}

func TestCreateAccount_Duplicates(t *testing.T) {
	ctx := context.Background()

	svc := newAccountService(&MockAccountRepo{
		ExistsByUsernameFunc: func(context.Context, string) (bool, error) { return true, nil },
	}, nil)
	if _, err := svc.CreateAccount(ctx, "alice", "pw", "a@x.com", models.RoleUser); !errors.Is(err, service.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	svc = newAccountService(&MockAccountRepo{
		ExistsByEmailFunc: func(context.Context, string) (bool, error) { return true, nil },
	}, nil)
	if _, err := svc.CreateAccount(ctx, "alice", "pw", "a@x.com", models.RoleUser); !errors.Is(err, service.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// Гонка: pre-check пропустил, индекс отклонил
	svc = newAccountService(&MockAccountRepo{
		CreateFunc: func(context.Context, *models.Account) error { return repository.ErrDuplicateEmail },
	}, nil)
	if _, err := svc.CreateAccount(ctx, "alice", "pw", "a@x.com", models.RoleUser); !errors.Is(err, service.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail from index, got %v", err)
	}

	if _, err := svc.CreateAccount(ctx, "alice", "pw", "a@x.com", models.Role("ROOT")); !errors.Is(err, service.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	acc := &models.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "h:pw", Role: models.RoleAdmin}
	repo := &MockAccountRepo{
		GetByEmailFunc: func(_ context.Context, email string) (*models.Account, error) {
			if email == acc.Email {
				return acc, nil
			}
			return nil, nil
		},
	}
	var issuedFor string
	var issuedRole models.Role
	tokens := &MockTokens{
		IssueFunc: func(_ uuid.UUID, username string, role models.Role, ttl time.Duration) (string, time.Time, error) {
			issuedFor, issuedRole = username, role
			return "signed", time.Now().Add(ttl), nil
		},
	}
	svc := newAccountService(repo, tokens)

	tok, err := svc.Login(context.Background(), "alice@x.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "signed" || tok.TokenType != service.TokenTypeBearer {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if issuedFor != "alice" || issuedRole != models.RoleAdmin {
		t.Fatalf("issued for %q/%s", issuedFor, issuedRole)
	}

	if _, err := svc.Login(context.Background(), "alice@x.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "bob@x.com", "pw"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	acc := &models.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", Role: models.RoleUser}
	repo := &MockAccountRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*models.Account, error) {
			if id == acc.ID {
				return acc, nil
			}
			return nil, nil
		},
	}
	claims := map[string]*service.Claims{
		"good":    {Subject: "alice", UserID: acc.ID, Role: models.RoleUser},
		"renamed": {Subject: "mallory", UserID: acc.ID, Role: models.RoleUser},
		"orphan":  {Subject: "ghost", UserID: uuid.New(), Role: models.RoleUser},
	}
	tokens := &MockTokens{
		ClaimsOfFunc: func(token string) (*service.Claims, error) {
			if c, ok := claims[token]; ok {
				return c, nil
			}
			return nil, service.ErrInvalidToken
		},
	}
	svc := newAccountService(repo, tokens)

	id, err := svc.Authenticate(context.Background(), "good")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.ID != acc.ID || id.Role != models.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}

	for _, tok := range []string{"renamed", "orphan", "garbage"} {
		if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, service.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestListAccounts_RoleScoped(t *testing.T) {
	var asked []models.Role
	repo := &MockAccountRepo{
		ListByRolesFunc: func(_ context.Context, roles []models.Role) ([]models.Account, error) {
			asked = roles
			return []models.Account{}, nil
		},
	}
	svc := newAccountService(repo, nil)

	if _, err := svc.ListAccounts(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	user := service.WithIdentity(context.Background(), service.AuthIdentity{ID: uuid.New(), Role: models.RoleUser})
	if _, err := svc.ListAccounts(user); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	admin := service.WithIdentity(context.Background(), service.AuthIdentity{ID: uuid.New(), Role: models.RoleAdmin})
	if _, err := svc.ListAccounts(admin); err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(asked) != 2 || asked[0] != models.RoleAdmin || asked[1] != models.RoleUser {
		t.Fatalf("admin must see ADMIN and USER, got %v", asked)
	}
}

func TestVisibleRoles(t *testing.T) {
	if got := service.VisibleRoles(models.RoleSuper); len(got) != 3 {
		t.Fatalf("SUPER: %v", got)
	}
	if got := service.VisibleRoles(models.RoleUser); len(got) != 1 || got[0] != models.RoleUser {
		t.Fatalf("USER: %v", got)
	}
	if got := service.VisibleRoles(models.Role("NOPE")); len(got) != 0 {
		t.Fatalf("unknown: %v", got)
	}
}

func TestMe(t *testing.T) {
	acc := &models.Account{ID: uuid.New(), Username: "alice"}
	svc := newAccountService(&MockAccountRepo{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.Account, error) { return acc, nil },
	}, nil)

	ctx := service.WithIdentity(context.Background(), service.ToAuthIdentity(*acc))
	got, err := svc.Me(ctx)
	if err != nil || got.ID != acc.ID {
		t.Fatalf("Me: %v %v", got, err)
	}
}

func TestToAuthIdentity(t *testing.T) {
	acc := models.Account{ID: uuid.New(), Username: "alice", Email: "a@x.com", PasswordHash: "secret", Role: models.RoleSuper}
	id := service.ToAuthIdentity(acc)
	if id.ID != acc.ID || id.Username != acc.Username || id.Email != acc.Email || id.Role != acc.Role {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestCreateAccount_PasswordPolicy(t *testing.T) {
	hasher, err := hashing.NewBcrypt(4)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	svc := service.NewAccountService(&MockAccountRepo{}, hasher, &MockTokens{}, time.Hour, zap.NewNop())

	_, err = svc.CreateAccount(context.Background(), "alice", longPassword, "a@x.com", models.RoleUser)
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["password1"]; !ok {
		t.Fatalf("expected password1 field, got %v", verr.Fields)
	}

	if _, err := svc.CreateAccount(context.Background(), "alice", "1234", "a@x.com", models.RoleUser); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
}
