package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	intaudit "github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/orders"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

type stubOrdersService struct {
	order    *models.Order
	err      error
	lastSeen orders.CheckoutInput
}

func (s *stubOrdersService) Checkout(ctx context.Context, input orders.CheckoutInput) (*models.Order, error) {
	s.lastSeen = input
	return s.order, s.err
}

func (s *stubOrdersService) List(ctx context.Context, params orders.ListParams) (*orders.ListResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Deliver(ctx context.Context, actor intaudit.Actor, id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, actor intaudit.Actor, id uuid.UUID, reason string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Delete(ctx context.Context, actor intaudit.Actor, id uuid.UUID) error {
	return s.err
}

func checkoutBody() string {
	vehicleID := uuid.NewString()
	return `{"first_name":"Jean","last_name":"Dupont","phone":"0601020304","unique_id":"12345","items":[{"vehicle_id":"` + vehicleID + `","quantity":2}]}`
}

func TestCheckoutCreated(t *testing.T) {
	t.Parallel()

	order := &models.Order{
		ID:         uuid.New(),
		FirstName:  "Jean",
		LastName:   "Dupont",
		Status:     enums.OrderStatusPending,
		TotalPrice: decimal.NewFromInt(200000),
	}
	svc := &stubOrdersService{order: order}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/public/orders", strings.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.9:1234"

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
	if svc.lastSeen.ClientIP != "198.51.100.9" {
		t.Fatalf("client ip not captured: %q", svc.lastSeen.ClientIP)
	}
}

func TestCheckoutDuplicatePending(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "🚫 Vous avez déjà une commande en attente")}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/public/orders", strings.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "commande en attente") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestCheckoutMalformedBody(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/public/orders", strings.NewReader(`{"first_name":`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutMissingItems(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{}
	handler := Checkout(svc, nil)

	body := `{"first_name":"Jean","last_name":"Dupont","phone":"0601020304","unique_id":"12345","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
