package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/membership"
	"gymdesk/internal/models"
	"gymdesk/internal/store"
)

// CustomerHandler serves the member CRUD endpoints
type CustomerHandler struct {
	store *store.Store
}

func NewCustomerHandler(s *store.Store) *CustomerHandler {
	return &CustomerHandler{store: s}
}

// customerResponse is a customer plus its derived due state
type customerResponse struct {
	models.Customer
	Overdue bool `json:"overdue"`
}

func toCustomerResponse(c models.Customer, today time.Time) customerResponse {
	return customerResponse{Customer: c, Overdue: c.OverdueOn(today)}
}

// ListCustomers handles GET /api/customers with search, status filter
// and pagination
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	status := c.QueryParam("filter")
	switch status {
	case "", store.StatusDue, store.StatusPaid, store.StatusUnpaid:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown filter %q", status))
	}

	page, pageSize := pageParams(c)
	today := time.Now()

	customers, totalCount, err := h.store.ListCustomers(c.Request().Context(), store.ListFilter{
		Search:   c.QueryParam("search"),
		Status:   status,
		Today:    today,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	items := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, toCustomerResponse(customer, today))
	}

	return c.JSON(http.StatusOK, paginate(items, totalCount, page, pageSize))
}

// GetCustomer handles GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	customer, err := h.store.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(*customer, time.Now()))
}

type createCustomerRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	JoiningDate     string `json:"joining_date"`
	MembershipPlan  string `json:"membership_plan"`
	FeePaid         bool   `json:"fee_paid"`
	PaymentMode     string `json:"payment_mode"`
	NextPaymentDate string `json:"next_payment_date"`
	Notes           string `json:"notes"`
}

// CreateCustomer handles POST /api/customers. The renewal date is
// derived from the joining date and plan; a supplied value that
// disagrees with the derivation is rejected, and a derivation failure
// halts the write.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	plan, err := membership.ParsePlan(req.MembershipPlan)
	if err != nil {
		return err
	}
	joiningDate, err := models.ParseDate(req.JoiningDate)
	if err != nil {
		return err
	}

	nextPaymentDate, err := membership.CalculateNextPaymentDate(req.JoiningDate, plan)
	if err != nil {
		return err
	}
	if req.NextPaymentDate != "" && req.NextPaymentDate != nextPaymentDate {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("next_payment_date %s does not match %s derived from the joining date and plan",
				req.NextPaymentDate, nextPaymentDate))
	}
	nextDate, err := models.ParseDate(nextPaymentDate)
	if err != nil {
		return err
	}

	customer := models.Customer{
		Name:            req.Name,
		Phone:           req.Phone,
		JoiningDate:     joiningDate,
		MembershipPlan:  plan,
		FeePaid:         req.FeePaid,
		NextPaymentDate: nextDate,
	}
	if req.PaymentMode != "" {
		mode, err := models.ParsePaymentMode(req.PaymentMode)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		customer.PaymentMode = &mode
	}
	if req.Notes != "" {
		customer.Notes = &req.Notes
	}

	if err := h.store.CreateCustomer(c.Request().Context(), &customer); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(customer, time.Now()))
}

type updateCustomerRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	JoiningDate    *string `json:"joining_date"`
	MembershipPlan *string `json:"membership_plan"`
	FeePaid        *bool   `json:"fee_paid"`
	PaymentMode    *string `json:"payment_mode"`
	Notes          *string `json:"notes"`

	// UpdatedAt is the timestamp the client last read; when present the
	// write is refused if the record has changed since
	UpdatedAt *time.Time `json:"updated_at"`
}

// UpdateCustomer handles PUT /api/customers/:id. When the joining date
// or plan changes, the renewal date is recomputed from the latest
// payment date if one exists, otherwise from the joining date.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	existing, err := h.store.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	patch := store.CustomerPatch{
		Name:              req.Name,
		Phone:             req.Phone,
		FeePaid:           req.FeePaid,
		Notes:             req.Notes,
		ExpectedUpdatedAt: req.UpdatedAt,
	}

	plan := existing.MembershipPlan
	if req.MembershipPlan != nil {
		plan, err = membership.ParsePlan(*req.MembershipPlan)
		if err != nil {
			return err
		}
		patch.MembershipPlan = &plan
	}

	joiningDate := existing.JoiningDate
	if req.JoiningDate != nil {
		joiningDate, err = models.ParseDate(*req.JoiningDate)
		if err != nil {
			return err
		}
		patch.JoiningDate = &joiningDate
	}

	if req.PaymentMode != nil {
		mode, err := models.ParsePaymentMode(*req.PaymentMode)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		patch.PaymentMode = &mode
	}

	if req.MembershipPlan != nil || req.JoiningDate != nil {
		reference := joiningDate
		payments, err := h.store.ListPaymentsForCustomer(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if len(payments) > 0 {
			reference = payments[0].PaymentDate
		}
		next, err := membership.AddPlanPeriod(reference.Time, plan)
		if err != nil {
			return err
		}
		nextDate := models.NewDate(next)
		patch.NextPaymentDate = &nextDate
	}

	updated, err := h.store.UpdateCustomer(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(*updated, time.Now()))
}

// DeleteCustomer handles DELETE /api/customers/:id, cascading to the
// member's payments
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCustomer(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCustomerPayments handles GET /api/customers/:id/payments
func (h *CustomerHandler) ListCustomerPayments(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payments, err := h.store.ListPaymentsForCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": payments})
}
