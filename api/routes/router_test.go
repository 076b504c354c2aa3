package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/wishlist-backend/internal/auth"
	product "github.com/angelmondragon/wishlist-backend/internal/products"
	"github.com/angelmondragon/wishlist-backend/internal/users"
	"github.com/angelmondragon/wishlist-backend/internal/wishlist"
	"github.com/angelmondragon/wishlist-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/metrics"
	"github.com/angelmondragon/wishlist-backend/pkg/pagination"
	"github.com/google/uuid"
)

var (
	regularID = uuid.New()
	adminID   = uuid.New()
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubGateway struct{}

func (stubGateway) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	switch token {
	case "regular":
		return &auth.Identity{UserID: regularID, AccessID: "a1"}, nil
	case "admin":
		return &auth.Identity{UserID: adminID, IsSuperuser: true, AccessID: "a2"}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{Token: "regular"}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubUserService struct{}

func (stubUserService) Register(_ context.Context, in users.CreateUserInput) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{Name: in.Name, Email: in.Email}, nil
}

func (s stubUserService) CreateSuperuser(ctx context.Context, in users.CreateUserInput) (*users.ProfileDTO, error) {
	return s.Register(ctx, in)
}

func (stubUserService) Me(context.Context, uuid.UUID) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{Name: "Ana", Email: "ana@example.com"}, nil
}

func (stubUserService) UpdateMe(context.Context, uuid.UUID, users.UpdateProfileInput) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{Name: "Ana", Email: "ana@example.com"}, nil
}

func (stubUserService) Remove(context.Context, auth.Identity, *uuid.UUID) (bool, error) {
	return true, nil
}

func (stubUserService) List(context.Context, auth.Identity) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(_ context.Context, in product.CreateProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: in.ID}, nil
}

func (stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID) error { return nil }

type stubWishlistService struct{}

func (stubWishlistService) AddItem(_ context.Context, requesterID, targetUserID, productID uuid.UUID) (*wishlist.ItemDTO, error) {
	if requesterID != targetUserID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cannot add items to another user's wishlist")
	}
	return &wishlist.ItemDTO{ID: uuid.New(), Client: targetUserID, Product: productID}, nil
}

func (stubWishlistService) ListItems(context.Context, uuid.UUID, pagination.Params) (pagination.Page[wishlist.ItemDTO], error) {
	return pagination.Page[wishlist.ItemDTO]{Items: []wishlist.ItemDTO{}}, nil
}

func (stubWishlistService) GetItem(_ context.Context, _ uuid.UUID, itemID uuid.UUID) (*wishlist.ItemDetailDTO, error) {
	return &wishlist.ItemDetailDTO{ID: itemID}, nil
}

func (stubWishlistService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Params{
		Config:          &config.Config{App: config.AppConfig{Env: "test"}},
		DB:              stubPinger{},
		Redis:           stubPinger{},
		Gateway:         stubGateway{},
		Metrics:         metrics.NewHTTPMetrics(reg),
		Gatherer:        reg,
		AuthService:     stubAuthService{},
		UserService:     stubUserService{},
		ProductService:  stubProductService{},
		WishlistService: stubWishlistService{},
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterStatusCodes(t *testing.T) {
	h := newTestRouter(t)
	productID := uuid.NewString()
	signup := `{"email":"ana@example.com","password":"long-enough","name":"Ana"}`

	cases := []struct {
		name, method, path, token, body string
		want                            int
	}{
		{"live", http.MethodGet, "/health/live", "", "", http.StatusOK},
		{"ready", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"signup", http.MethodPost, "/users/", "", signup, http.StatusCreated},
		{"signup alias", http.MethodPost, "/users/create/", "", signup, http.StatusCreated},
		{"token", http.MethodPost, "/users/token/", "", `{"email":"ana@example.com","password":"x"}`, http.StatusOK},
		{"me anonymous", http.MethodGet, "/users/me/", "", "", http.StatusUnauthorized},
		{"me bad token", http.MethodGet, "/users/me/", "forged", "", http.StatusUnauthorized},
		{"me", http.MethodGet, "/users/me/", "regular", "", http.StatusOK},
		{"me no slash", http.MethodGet, "/users/me", "regular", "", http.StatusOK},
		{"logout", http.MethodPost, "/users/logout/", "regular", "", http.StatusNoContent},
		{"remove", http.MethodDelete, "/users/remove/", "regular", "", http.StatusNoContent},
		{"list regular", http.MethodGet, "/users/list/", "regular", "", http.StatusForbidden},
		{"list admin", http.MethodGet, "/users/list/", "admin", "", http.StatusOK},
		{"superuser regular", http.MethodPost, "/users/create-superuser/", "regular", signup, http.StatusForbidden},
		{"superuser admin", http.MethodPost, "/users/create-superuser/", "admin", signup, http.StatusCreated},
		{"wishlist anonymous", http.MethodGet, "/wishlist/", "", "", http.StatusUnauthorized},
		{"wishlist list", http.MethodGet, "/wishlist/", "regular", "", http.StatusOK},
		{"wishlist add", http.MethodPost, "/wishlist/", "regular", `{"client":"` + regularID.String() + `","product":"` + productID + `"}`, http.StatusOK},
		{"wishlist add for other", http.MethodPost, "/wishlist/", "admin", `{"client":"` + regularID.String() + `","product":"` + productID + `"}`, http.StatusUnauthorized},
		{"wishlist detail", http.MethodGet, "/wishlist/" + uuid.NewString() + "/", "regular", "", http.StatusOK},
		{"wishlist delete", http.MethodDelete, "/wishlist/" + uuid.NewString() + "/", "regular", "", http.StatusNoContent},
		{"product get", http.MethodGet, "/products/" + productID + "/", "regular", "", http.StatusOK},
		{"product create regular", http.MethodPost, "/products/", "regular", `{"id":"` + productID + `","price":1,"image":"i","brand":"b","title":"t"}`, http.StatusForbidden},
		{"product create admin", http.MethodPost, "/products/", "admin", `{"id":"` + productID + `","price":1,"image":"i","brand":"b","title":"t"}`, http.StatusCreated},
		{"product delete admin", http.MethodDelete, "/products/" + productID + "/", "admin", "", http.StatusNoContent},
		{"unknown", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d: %s", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterRecordsRoutePatternMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewRouter(Params{
		Config:          &config.Config{},
		Gateway:         stubGateway{},
		Metrics:         metrics.NewHTTPMetrics(reg),
		Gatherer:        reg,
		WishlistService: stubWishlistService{},
	})

	do(t, h, http.MethodGet, "/wishlist/"+uuid.NewString()+"/", "regular", "")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" && l.GetValue() == "/wishlist/{itemID}" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected a sample labelled with the route pattern")
	}
}
