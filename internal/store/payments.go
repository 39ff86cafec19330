package store

import (
	"context"

	"gorm.io/gorm"

	"gymdesk/internal/models"
	"gymdesk/internal/session"
)

// PaymentFilter narrows the all-payments listing
type PaymentFilter struct {
	CustomerID uint
	Page       int
	PageSize   int
}

// ListPaymentsForCustomer returns a member's payments, most recent
// first. The customer must exist.
func (s *Store) ListPaymentsForCustomer(ctx context.Context, customerID uint) ([]models.Payment, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("payment_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, classify(err)
	}
	return payments, nil
}

// ListPayments returns payments across all members, most recent first,
// with the owning customer preloaded for display joins
func (s *Store) ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Payment{})
	if f.CustomerID > 0 {
		query = query.Where("customer_id = ?", f.CustomerID)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, classify(err)
	}

	query = query.Preload("Customer").Order("payment_date DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, classify(err)
	}
	return payments, totalCount, nil
}

// RecordPayment inserts a payment and patches its customer's due status
// in a single transaction: the member is marked paid with the payment's
// plan, mode and renewal date, or neither record is written. This
// replaces the old two-step write that could leave a payment behind
// with the customer still unpaid.
func (s *Store) RecordPayment(ctx context.Context, payment *models.Payment) (*models.Customer, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, payment.CustomerID).Error; err != nil {
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"fee_paid":          true,
			"next_payment_date": payment.NextPaymentDate,
			"payment_mode":      payment.PaymentMode,
			"membership_plan":   payment.MembershipPlan,
		}
		return tx.Model(&customer).Updates(updates).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return s.GetCustomer(ctx, payment.CustomerID)
}
