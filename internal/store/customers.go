package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gymdesk/internal/membership"
	"gymdesk/internal/models"
	"gymdesk/internal/session"
)

// Customer listing status filters
const (
	StatusDue    = "due"
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// ListFilter narrows a customer listing
type ListFilter struct {
	Search   string // matches name or phone
	Status   string // "", due, paid or unpaid
	Today    time.Time
	Page     int
	PageSize int
}

// ListCustomers returns customers matching the filter, newest joiners
// first, plus the total match count for pagination. The "due" status
// selects next_payment_date <= today regardless of fee_paid.
func (s *Store) ListCustomers(ctx context.Context, f ListFilter) ([]models.Customer, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Customer{})

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}

	today := f.Today
	if today.IsZero() {
		today = time.Now()
	}

	switch f.Status {
	case StatusDue:
		query = query.Where("next_payment_date <= ?", models.NewDate(today))
	case StatusPaid:
		query = query.Where("fee_paid = ?", true)
	case StatusUnpaid:
		query = query.Where("fee_paid = ?", false)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, classify(err)
	}

	query = query.Order("joining_date DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, classify(err)
	}
	return customers, totalCount, nil
}

// GetCustomer fetches a single customer by id
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, classify(err)
	}
	return &customer, nil
}

// CreateCustomer inserts a new member record. The caller must have
// derived NextPaymentDate through the calculator already; a record is
// never persisted with a renewal date that failed to compute.
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if _, err := session.Require(ctx); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return classify(err)
	}
	return nil
}

// CustomerPatch is a partial update of a customer. Nil fields are left
// untouched. ExpectedUpdatedAt, when set, is the updated_at the caller
// last read; the write is refused with ErrStaleWrite if the row has
// moved on since.
type CustomerPatch struct {
	Name            *string
	Phone           *string
	JoiningDate     *models.Date
	MembershipPlan  *membership.Plan
	FeePaid         *bool
	PaymentMode     *models.PaymentMode
	NextPaymentDate *models.Date
	Notes           *string

	ExpectedUpdatedAt *time.Time
}

func (p CustomerPatch) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.JoiningDate != nil {
		updates["joining_date"] = *p.JoiningDate
	}
	if p.MembershipPlan != nil {
		updates["membership_plan"] = *p.MembershipPlan
	}
	if p.FeePaid != nil {
		updates["fee_paid"] = *p.FeePaid
	}
	if p.PaymentMode != nil {
		updates["payment_mode"] = *p.PaymentMode
	}
	if p.NextPaymentDate != nil {
		updates["next_payment_date"] = *p.NextPaymentDate
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	return updates
}

// UpdateCustomer applies a patch and returns the fresh record
func (s *Store) UpdateCustomer(ctx context.Context, id uint, patch CustomerPatch) (*models.Customer, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	// Existence first, so a stale timestamp is distinguishable from a
	// missing row
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}

	updates := patch.updates()
	if len(updates) > 0 {
		query := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id)
		if patch.ExpectedUpdatedAt != nil {
			query = query.Where("updated_at = ?", *patch.ExpectedUpdatedAt)
		}
		result := query.Updates(updates)
		if result.Error != nil {
			return nil, classify(result.Error)
		}
		if patch.ExpectedUpdatedAt != nil && result.RowsAffected == 0 {
			return nil, ErrStaleWrite
		}
	}

	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes a member and all of their payments in one
// transaction
func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := session.Require(ctx); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	return classify(err)
}
