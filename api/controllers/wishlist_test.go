package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/wishlist-backend/api/middleware"
	"github.com/angelmondragon/wishlist-backend/internal/auth"
	"github.com/angelmondragon/wishlist-backend/internal/wishlist"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubWishlistService struct {
	addErr    error
	getErr    error
	removeErr error
	listErr   error

	gotRequester, gotTarget, gotProduct uuid.UUID
	gotParams                           pagination.Params
}

func (s *stubWishlistService) AddItem(_ context.Context, requesterID, targetUserID, productID uuid.UUID) (*wishlist.ItemDTO, error) {
	s.gotRequester, s.gotTarget, s.gotProduct = requesterID, targetUserID, productID
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &wishlist.ItemDTO{ID: uuid.New(), Client: targetUserID, Product: productID}, nil
}

func (s *stubWishlistService) ListItems(_ context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[wishlist.ItemDTO], error) {
	s.gotRequester, s.gotParams = userID, params
	if s.listErr != nil {
		return pagination.Page[wishlist.ItemDTO]{}, s.listErr
	}
	return pagination.Page[wishlist.ItemDTO]{Items: []wishlist.ItemDTO{{ID: uuid.New(), Client: userID}}}, nil
}

func (s *stubWishlistService) GetItem(_ context.Context, userID, itemID uuid.UUID) (*wishlist.ItemDetailDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &wishlist.ItemDetailDTO{ID: itemID}, nil
}

func (s *stubWishlistService) RemoveItem(_ context.Context, userID, itemID uuid.UUID) error {
	return s.removeErr
}

func authed(r *http.Request, id *auth.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), id))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestAddWishlistItemSuccessReturns200(t *testing.T) {
	svc := &stubWishlistService{}
	me := &auth.Identity{UserID: uuid.New()}
	productID := uuid.New()

	body := `{"client":"` + me.UserID.String() + `","product":"` + productID.String() + `"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/wishlist/", strings.NewReader(body)), me)
	rec := httptest.NewRecorder()
	AddWishlistItem(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotRequester != me.UserID || svc.gotTarget != me.UserID || svc.gotProduct != productID {
		t.Fatalf("unexpected call %+v", svc)
	}

	var payload struct {
		Data wishlist.ItemDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data.Product != productID {
		t.Fatalf("unexpected payload %+v", payload.Data)
	}
}

func TestAddWishlistItemErrorMapping(t *testing.T) {
	me := &auth.Identity{UserID: uuid.New()}
	cases := []struct {
		name   string
		err    error
		status int
		code   pkgerrors.Code
	}{
		{"mismatch", pkgerrors.New(pkgerrors.CodeUnauthorized, "x"), http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"missing product", pkgerrors.New(pkgerrors.CodeProductNotFound, "x"), http.StatusBadRequest, pkgerrors.CodeProductNotFound},
		{"duplicate", pkgerrors.New(pkgerrors.CodeDuplicate, "x"), http.StatusBadRequest, pkgerrors.CodeDuplicate},
	}
	for _, tc := range cases {
		svc := &stubWishlistService{addErr: tc.err}
		body := `{"client":"` + uuid.NewString() + `","product":"` + uuid.NewString() + `"}`
		req := authed(httptest.NewRequest(http.MethodPost, "/wishlist/", strings.NewReader(body)), me)
		rec := httptest.NewRecorder()
		AddWishlistItem(svc, nil)(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
		if got := errorCode(t, rec); got != string(tc.code) {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.code, got)
		}
	}
}

func TestAddWishlistItemRejectsMalformedBody(t *testing.T) {
	me := &auth.Identity{UserID: uuid.New()}
	for _, body := range []string{`{}`, `{"client":"x","product":"` + uuid.NewString() + `"}`, `{"client":"` + uuid.NewString() + `","product":"nope"}`} {
		svc := &stubWishlistService{}
		req := authed(httptest.NewRequest(http.MethodPost, "/wishlist/", strings.NewReader(body)), me)
		rec := httptest.NewRecorder()
		AddWishlistItem(svc, nil)(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		if svc.gotProduct != uuid.Nil {
			t.Fatalf("%s: service must not be called", body)
		}
	}
}

func TestWishlistRequiresIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	ListWishlistItems(&stubWishlistService{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/wishlist/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestListWishlistItemsPassesPaging(t *testing.T) {
	svc := &stubWishlistService{}
	me := &auth.Identity{UserID: uuid.New()}
	req := authed(httptest.NewRequest(http.MethodGet, "/wishlist/?limit=10&cursor=abc", nil), me)
	rec := httptest.NewRecorder()
	ListWishlistItems(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotRequester != me.UserID || svc.gotParams.Limit != 10 || svc.gotParams.Cursor != "abc" {
		t.Fatalf("unexpected call %+v", svc)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/wishlist/?limit=0", nil), me)
	rec = httptest.NewRecorder()
	ListWishlistItems(svc, nil)(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestGetAndRemoveWishlistItem(t *testing.T) {
	me := &auth.Identity{UserID: uuid.New()}
	itemID := uuid.New()

	req := withURLParam(authed(httptest.NewRequest(http.MethodGet, "/", nil), me), "itemID", itemID.String())
	rec := httptest.NewRecorder()
	GetWishlistItem(&stubWishlistService{}, nil)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = withURLParam(authed(httptest.NewRequest(http.MethodGet, "/", nil), me), "itemID", itemID.String())
	rec = httptest.NewRecorder()
	GetWishlistItem(&stubWishlistService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "x")}, nil)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	req = withURLParam(authed(httptest.NewRequest(http.MethodDelete, "/", nil), me), "itemID", itemID.String())
	rec = httptest.NewRecorder()
	RemoveWishlistItem(&stubWishlistService{}, nil)(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = withURLParam(authed(httptest.NewRequest(http.MethodDelete, "/", nil), me), "itemID", itemID.String())
	rec = httptest.NewRecorder()
	RemoveWishlistItem(&stubWishlistService{removeErr: pkgerrors.New(pkgerrors.CodeNotFound, "x")}, nil)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
