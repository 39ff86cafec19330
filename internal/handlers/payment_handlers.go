package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/membership"
	"gymdesk/internal/models"
	"gymdesk/internal/store"
)

// PaymentHandler serves the payment endpoints
type PaymentHandler struct {
	store *store.Store
}

func NewPaymentHandler(s *store.Store) *PaymentHandler {
	return &PaymentHandler{store: s}
}

type createPaymentRequest struct {
	CustomerID      uint    `json:"customer_id"`
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"payment_date"`
	PaymentMode     string  `json:"payment_mode"`
	MembershipPlan  string  `json:"membership_plan"`
	NextPaymentDate string  `json:"next_payment_date"`
	Notes           string  `json:"notes"`
}

// recordPaymentResponse returns both records touched by the compound
// write so the caller sees the customer's new due status immediately
type recordPaymentResponse struct {
	Payment  models.Payment  `json:"payment"`
	Customer models.Customer `json:"customer"`
}

// CreatePayment handles POST /api/payments. The payment's renewal date
// is derived from its payment date and plan; a derivation failure halts
// the write, and the payment insert plus the customer patch commit
// together or not at all.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.CustomerID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id is required")
	}
	if req.Amount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must not be negative")
	}

	plan, err := membership.ParsePlan(req.MembershipPlan)
	if err != nil {
		return err
	}
	mode, err := models.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	paymentDate, err := models.ParseDate(req.PaymentDate)
	if err != nil {
		return err
	}

	nextPaymentDate, err := membership.CalculateNextPaymentDate(req.PaymentDate, plan)
	if err != nil {
		return err
	}
	if req.NextPaymentDate != "" && req.NextPaymentDate != nextPaymentDate {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("next_payment_date %s does not match %s derived from the payment date and plan",
				req.NextPaymentDate, nextPaymentDate))
	}
	nextDate, err := models.ParseDate(nextPaymentDate)
	if err != nil {
		return err
	}

	payment := models.Payment{
		CustomerID:      req.CustomerID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate,
		PaymentMode:     mode,
		MembershipPlan:  plan,
		NextPaymentDate: nextDate,
	}
	if req.Notes != "" {
		payment.Notes = &req.Notes
	}

	customer, err := h.store.RecordPayment(c.Request().Context(), &payment)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, recordPaymentResponse{
		Payment:  payment,
		Customer: *customer,
	})
}

// ListPayments handles GET /api/payments, newest first, optionally
// narrowed to one customer
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	page, pageSize := pageParams(c)

	filter := store.PaymentFilter{Page: page, PageSize: pageSize}
	if raw := c.QueryParam("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid customer_id")
		}
		filter.CustomerID = uint(id)
	}

	payments, totalCount, err := h.store.ListPayments(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paginate(payments, totalCount, page, pageSize))
}
