package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/membership"
)

// newJSONContext builds an echo context for a handler-level test. The
// store is nil: these tests only exercise the validation paths that
// reject a request before any store call.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestListCustomersRejectsUnknownFilter(t *testing.T) {
	h := NewCustomerHandler(nil)
	c, _ := newJSONContext(t, http.MethodGet, "/api/customers?filter=bogus", "")

	err := h.ListCustomers(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", code)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	h := NewCustomerHandler(nil)

	tests := []struct {
		name    string
		body    string
		wantErr error // sentinel matched with errors.Is, or nil for HTTP 400
	}{
		{
			name: "missing name",
			body: `{"joining_date":"2024-01-01","membership_plan":"1-month"}`,
		},
		{
			name:    "unknown plan",
			body:    `{"name":"A","joining_date":"2024-01-01","membership_plan":"2-weeks"}`,
			wantErr: membership.ErrInvalidPlan,
		},
		{
			name:    "malformed joining date",
			body:    `{"name":"A","joining_date":"01/31/2024","membership_plan":"1-month"}`,
			wantErr: membership.ErrInvalidDate,
		},
		{
			name: "supplied next_payment_date disagrees with derivation",
			body: `{"name":"A","joining_date":"2024-01-01","membership_plan":"1-month","next_payment_date":"2024-03-01"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/api/customers", tt.body)
			err := h.CreateCustomer(c)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v; want %v", err, tt.wantErr)
				}
				return
			}
			if code := httpStatus(t, err); code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", code)
			}
		})
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	h := NewPaymentHandler(nil)

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name: "missing customer id",
			body: `{"amount":100,"payment_date":"2024-02-01","payment_mode":"Cash","membership_plan":"1-month"}`,
		},
		{
			name: "negative amount",
			body: `{"customer_id":1,"amount":-5,"payment_date":"2024-02-01","payment_mode":"Cash","membership_plan":"1-month"}`,
		},
		{
			name:    "unknown plan",
			body:    `{"customer_id":1,"amount":100,"payment_date":"2024-02-01","payment_mode":"Cash","membership_plan":"forever"}`,
			wantErr: membership.ErrInvalidPlan,
		},
		{
			name: "unknown payment mode",
			body: `{"customer_id":1,"amount":100,"payment_date":"2024-02-01","payment_mode":"Cheque","membership_plan":"1-month"}`,
		},
		{
			name:    "malformed payment date",
			body:    `{"customer_id":1,"amount":100,"payment_date":"yesterday","payment_mode":"Cash","membership_plan":"1-month"}`,
			wantErr: membership.ErrInvalidDate,
		},
		{
			name: "supplied next_payment_date disagrees with derivation",
			body: `{"customer_id":1,"amount":100,"payment_date":"2024-02-01","payment_mode":"Cash","membership_plan":"3-months","next_payment_date":"2024-03-01"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/api/payments", tt.body)
			err := h.CreatePayment(c)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v; want %v", err, tt.wantErr)
				}
				return
			}
			if code := httpStatus(t, err); code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", code)
			}
		})
	}
}
