package store

import (
	"context"
	"time"

	"gymdesk/internal/models"
)

// Stats summarizes the member base for the dashboard
type Stats struct {
	TotalMembers   int64  `json:"total_members"`
	ActiveMembers  int64  `json:"active_members"`
	OverdueMembers int64  `json:"overdue_members"`
	RecentPayments int64  `json:"recent_payments"`
	OverdueAsOf    string `json:"overdue_as_of"`
}

// CustomerStats computes dashboard counts as of today. Active means fee
// paid and renewal not yet due; overdue means unpaid or past the
// renewal date; recent payments counts the last 30 days.
func (s *Store) CustomerStats(ctx context.Context, today time.Time) (Stats, error) {
	stats := Stats{OverdueAsOf: models.NewDate(today).String()}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Customer{}).Count(&stats.TotalMembers).Error; err != nil {
		return Stats{}, classify(err)
	}

	todayDate := models.NewDate(today)
	if err := db.Model(&models.Customer{}).
		Where("fee_paid = ? AND next_payment_date >= ?", true, todayDate).
		Count(&stats.ActiveMembers).Error; err != nil {
		return Stats{}, classify(err)
	}

	if err := db.Model(&models.Customer{}).
		Where("fee_paid = ? OR next_payment_date < ?", false, todayDate).
		Count(&stats.OverdueMembers).Error; err != nil {
		return Stats{}, classify(err)
	}

	since := models.NewDate(today.AddDate(0, 0, -30))
	if err := db.Model(&models.Payment{}).
		Where("payment_date >= ?", since).
		Count(&stats.RecentPayments).Error; err != nil {
		return Stats{}, classify(err)
	}

	return stats, nil
}

// ListOverdueCustomers returns members whose renewal date is strictly
// before today, soonest-lapsed first. Used by the reminder scan.
func (s *Store) ListOverdueCustomers(ctx context.Context, today time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Where("next_payment_date < ?", models.NewDate(today)).
		Order("next_payment_date ASC").
		Find(&customers).Error
	if err != nil {
		return nil, classify(err)
	}
	return customers, nil
}
