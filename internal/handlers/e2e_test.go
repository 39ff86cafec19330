package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/postgres"

	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
	"gymdesk/internal/session"
	"gymdesk/internal/store"
)

// testServer wires the real handlers against the database named by
// TEST_DATABASE_URL, with a stub auth middleware standing in for
// Firebase. Skipped when no test database is configured.
func testServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Payment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Exec("TRUNCATE customers, payments RESTART IDENTITY").Error; err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}

	recordStore := store.New(db)
	customerHandler := NewCustomerHandler(recordStore)
	paymentHandler := NewPaymentHandler(recordStore)
	dashboardHandler := NewDashboardHandler(recordStore, nil)

	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	api := e.Group("/api")
	api.Use(stubAuth)

	api.GET("/customers", customerHandler.ListCustomers)
	api.POST("/customers", customerHandler.CreateCustomer)
	api.GET("/customers/:id", customerHandler.GetCustomer)
	api.PUT("/customers/:id", customerHandler.UpdateCustomer)
	api.DELETE("/customers/:id", customerHandler.DeleteCustomer)
	api.GET("/customers/:id/payments", customerHandler.ListCustomerPayments)
	api.GET("/payments", paymentHandler.ListPayments)
	api.POST("/payments", paymentHandler.CreatePayment)
	api.GET("/dashboard/stats", dashboardHandler.Stats)

	return e
}

// stubAuth injects an authenticated session the way RequireAuth would
// after cookie verification
func stubAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := session.NewContext(c.Request().Context(), session.Authenticated("test-uid", "admin@gym.test"))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, parsed
}

// TestMembershipRenewalFlow walks the full scenario: a member joins on
// a 1-month plan, renews onto a 3-month plan, and the customer record
// reflects the payment in the same write.
func TestMembershipRenewalFlow(t *testing.T) {
	e := testServer(t)

	rec, created := doJSON(t, e, http.MethodPost, "/api/customers",
		`{"name":"Asha Rao","phone":"9876543210","joining_date":"2024-01-01","membership_plan":"1-month"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: status %d, body %s", rec.Code, rec.Body)
	}
	if got := created["next_payment_date"]; got != "2024-02-01" {
		t.Fatalf("derived next_payment_date = %v; want 2024-02-01", got)
	}
	customerID := uint(created["id"].(float64))

	rec, paid := doJSON(t, e, http.MethodPost, "/api/payments",
		fmt.Sprintf(`{"customer_id":%d,"amount":2500,"payment_date":"2024-02-01","payment_mode":"Online","membership_plan":"3-months"}`, customerID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment: status %d, body %s", rec.Code, rec.Body)
	}

	payment := paid["payment"].(map[string]interface{})
	if got := payment["next_payment_date"]; got != "2024-05-01" {
		t.Errorf("payment next_payment_date = %v; want 2024-05-01", got)
	}

	customer := paid["customer"].(map[string]interface{})
	if got := customer["fee_paid"]; got != true {
		t.Errorf("customer fee_paid = %v; want true", got)
	}
	if got := customer["next_payment_date"]; got != "2024-05-01" {
		t.Errorf("customer next_payment_date = %v; want 2024-05-01", got)
	}
	if got := customer["membership_plan"]; got != "3-months" {
		t.Errorf("customer membership_plan = %v; want 3-months", got)
	}
	if got := customer["payment_mode"]; got != "Online" {
		t.Errorf("customer payment_mode = %v; want Online", got)
	}

	// The payment shows up in the member's history
	rec, history := doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/customers/%d/payments", customerID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list payments: status %d", rec.Code)
	}
	if items := history["items"].([]interface{}); len(items) != 1 {
		t.Errorf("payment history = %d items; want 1", len(items))
	}
}

func TestUnknownCustomerPaymentIs404(t *testing.T) {
	e := testServer(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/payments",
		`{"customer_id":4242,"amount":100,"payment_date":"2024-02-01","payment_mode":"Cash","membership_plan":"1-month"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}

	// The failed compound write left no payment behind
	rec, listing := doJSON(t, e, http.MethodGet, "/api/payments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list payments: status %d", rec.Code)
	}
	if total := listing["total_count"].(float64); total != 0 {
		t.Errorf("total_count = %v; want 0", total)
	}
}

func TestStaleCustomerUpdateIs409(t *testing.T) {
	e := testServer(t)

	rec, created := doJSON(t, e, http.MethodPost, "/api/customers",
		`{"name":"Ben Okafor","joining_date":"2024-01-01","membership_plan":"3-months"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: status %d", rec.Code)
	}
	id := uint(created["id"].(float64))
	readAt := created["updated_at"].(string)

	// Another operator edits the record after our read
	rec, _ = doJSON(t, e, http.MethodPut, fmt.Sprintf("/api/customers/%d", id),
		`{"phone":"555000111"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first update: status %d, body %s", rec.Code, rec.Body)
	}

	// Our guarded write must be refused
	rec, _ = doJSON(t, e, http.MethodPut, fmt.Sprintf("/api/customers/%d", id),
		fmt.Sprintf(`{"name":"B. Okafor","updated_at":%q}`, readAt))
	if rec.Code != http.StatusConflict {
		t.Errorf("stale update: status %d; want 409", rec.Code)
	}
}

func TestDueFilterIgnoresFeePaid(t *testing.T) {
	e := testServer(t)

	// Paid member whose renewal date is long past
	rec, created := doJSON(t, e, http.MethodPost, "/api/customers",
		`{"name":"Lapsed","joining_date":"2020-01-01","membership_plan":"1-month","fee_paid":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}
	if created["overdue"] != true {
		t.Errorf("overdue = %v; want true", created["overdue"])
	}

	rec, listing := doJSON(t, e, http.MethodGet, "/api/customers?filter=due", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if total := listing["total_count"].(float64); total != 1 {
		t.Errorf("due total = %v; want 1", total)
	}
}
