package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"
	"shop-service/internal/transport/http/middleware"
	"shop-service/internal/transport/http/router"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	adminID = uuid.New()
	userID  = uuid.New()
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, token string) (service.AuthIdentity, error) {
	switch token {
	case "admin-token":
		return service.AuthIdentity{ID: adminID, Username: "ADMIN1", Role: models.RoleAdmin}, nil
	case "user-token":
		return service.AuthIdentity{ID: userID, Username: "USER1", Role: models.RoleUser}, nil
	}
	return service.AuthIdentity{}, service.ErrInvalidToken
}

type fakeAccounts struct{}

func (fakeAccounts) Signup(_ context.Context, in service.SignupInput) (*models.Account, error) {
	if in.Username == "taken" {
		return nil, service.ErrDuplicateUsername
	}
	return &models.Account{ID: uuid.New(), Username: in.Username, Email: in.Email, Role: models.RoleUser}, nil
}

func (fakeAccounts) Login(_ context.Context, email, password string) (service.AccessToken, error) {
	if email == "user@tt.cc" && password == "1234" {
		return service.AccessToken{AccessToken: "user-token", TokenType: service.TokenTypeBearer, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	return service.AccessToken{}, service.ErrInvalidCredentials
}

func (fakeAccounts) Me(ctx context.Context) (*models.Account, error) {
	id, _ := service.IdentityFromContext(ctx)
	return &models.Account{ID: id.ID, Username: id.Username, Role: id.Role}, nil
}

func (fakeAccounts) ListAccounts(ctx context.Context) ([]models.Account, error) {
	role, _ := service.RoleFromContext(ctx)
	if !role.AtLeast(models.RoleAdmin) {
		return nil, service.ErrForbidden
	}
	return []models.Account{{ID: userID, Username: "USER1", Role: models.RoleUser}}, nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalog) Create(_ context.Context, in service.ProductInput) (*models.Product, error) {
	p := &models.Product{ID: uuid.New(), Name: in.Name, Price: in.Price, StockCount: in.StockCount, Status: in.Status}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalog) Get(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, service.ErrProductNotFound
}

func (f *fakeCatalog) List(_ context.Context, q service.ProductQuery) (service.ProductPage, error) {
	items := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		items = append(items, *p)
	}
	return service.ProductPage{Items: items, Total: int64(len(items)), Page: q.Page, Size: q.Size}, nil
}

func (f *fakeCatalog) Upsert(_ context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, bool, error) {
	_, existed := f.products[id]
	p := &models.Product{ID: id, Name: in.Name, Price: in.Price, StockCount: in.StockCount, Status: in.Status}
	f.products[id] = p
	return p, !existed, nil
}

func (f *fakeCatalog) UpdateStock(_ context.Context, id uuid.UUID, count int32) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, service.ErrProductNotFound
	}
	p.StockCount = count
	return p, nil
}

func (f *fakeCatalog) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return service.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeOrders struct {
	err error
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, items []service.OrderItemInput) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, _ := service.IdentityFromContext(ctx)
	o := &models.Order{ID: uuid.New(), AccountID: id.ID, Status: models.OrderStatusOrdered}
	for _, it := range items {
		o.Lines = append(o.Lines, models.OrderLine{ID: uuid.New(), ProductID: it.ProductID, Quantity: it.Quantity, TotalPrice: 100 * int64(it.Quantity)})
	}
	return o, nil
}

func (f *fakeOrders) Checkout(context.Context) (*models.Order, error) { return nil, service.ErrCartEmpty }
func (f *fakeOrders) ListMine(context.Context) ([]models.Order, error) {
	return []models.Order{}, nil
}
func (f *fakeOrders) Get(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, service.ErrOrderNotFound
}
func (f *fakeOrders) Latest(_ context.Context, all bool) (*models.Order, error) {
	if all {
		return nil, service.ErrForbidden
	}
	return nil, service.ErrOrderNotFound
}

type fakeCarts struct{}

func (fakeCarts) AddItem(ctx context.Context, productID uuid.UUID, qty int32) (*models.Cart, error) {
	return &models.Cart{Lines: []models.CartLine{{ProductID: productID, Quantity: qty}}}, nil
}
func (fakeCarts) Get(context.Context) (*models.Cart, error) { return &models.Cart{}, nil }
func (fakeCarts) RemoveItem(context.Context, uuid.UUID) error {
	return service.ErrCartItemNotFound
}

type testServer struct {
	engine  *gin.Engine
	catalog *fakeCatalog
	orders  *fakeOrders
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := &testServer{
		catalog: &fakeCatalog{products: map[uuid.UUID]*models.Product{}},
		orders:  &fakeOrders{},
	}
	s.engine = router.Router(router.Deps{
		Accounts: fakeAccounts{},
		Catalog:  s.catalog,
		Orders:   s.orders,
		Carts:    fakeCarts{},
		Auth:     fakeAuth{},
	}, zap.NewNop())
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.BaseError {
	t.Helper()
	var e dto.BaseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSignup(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/users/signup", "", gin.H{
		"username": "alice", "password1": "pw", "password2": "pw", "email": "alice@x.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/users/signup", "", gin.H{
		"username": "alice", "password1": "pw", "password2": "other", "email": "alice@x.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	require.Equal(t, "validation_error", e.Code)
	require.NotEmpty(t, e.Fields)
	require.Equal(t, "password2", e.Fields[0].Field)

	w = s.do(t, http.MethodPost, "/users/signup", "", gin.H{
		"username": "taken", "password1": "pw", "password2": "pw", "email": "t@x.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "username", decodeError(t, w).Fields[0].Field)
}

func TestLoginSetsCookie(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "user@tt.cc", "password": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	var tok dto.AccessTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.Equal(t, "user-token", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	w = s.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "user@tt.cc", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGate(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", "forged", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users/me", "user-token", nil).Code)

	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/users", "user-token", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users", "admin-token", nil).Code)
}

func TestProducts_AdminOnlyWrites(t *testing.T) {
	s := newServer(t)
	body := gin.H{"name": "Тестовый товар", "price": 1000, "stock_count": 5, "status": "IN_STOCK"}

	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/products", "user-token", body).Code)

	w := s.do(t, http.MethodPost, "/products", "admin-token", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/products/"+p.ID, "user-token", nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/products/"+uuid.NewString(), "user-token", nil).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/products/not-a-uuid", "user-token", nil).Code)

	w = s.do(t, http.MethodPatch, "/products/"+p.ID+"/stock", "admin-token", gin.H{"stock_count": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPatch, "/products/"+p.ID+"/stock", "admin-token", gin.H{"stock_count": 0})
	require.Equal(t, http.StatusOK, w.Code)

	fresh := uuid.NewString()
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPut, "/products/"+fresh, "admin-token", body).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/products/"+fresh, "admin-token", body).Code)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/products/"+p.ID, "admin-token", nil).Code)
	w = s.do(t, http.MethodDelete, "/products/"+p.ID, "admin-token", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "validation_error", decodeError(t, w).Code)
}

func TestOrders(t *testing.T) {
	s := newServer(t)
	pid := uuid.NewString()

	w := s.do(t, http.MethodPost, "/orders", "user-token", gin.H{
		"items": []gin.H{{"product_id": pid, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var o dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	require.Equal(t, userID.String(), o.AccountID)
	require.Equal(t, int64(200), o.TotalPrice)

	w = s.do(t, http.MethodPost, "/orders", "user-token", gin.H{"items": []gin.H{}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/orders", "user-token", gin.H{
		"items": []gin.H{{"product_id": pid, "quantity": 0}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	s.orders.err = service.ErrInsufficientStock
	w = s.do(t, http.MethodPost, "/orders", "user-token", gin.H{
		"items": []gin.H{{"product_id": pid, "quantity": 1}},
	})
	require.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/orders/latest?all=true", "user-token", nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/orders/latest", "user-token", nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/orders/"+uuid.NewString(), "user-token", nil).Code)
}

func TestCart(t *testing.T) {
	s := newServer(t)
	pid := uuid.NewString()

	w := s.do(t, http.MethodPost, "/cart/items", "user-token", gin.H{"product_id": pid, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/cart/items/"+pid, "user-token", nil).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/cart/checkout", "user-token", nil).Code)
}
