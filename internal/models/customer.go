package models

import (
	"fmt"
	"time"

	"gymdesk/internal/membership"
)

// PaymentMode represents how a member pays
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeOnline PaymentMode = "Online"
)

// ParsePaymentMode validates a payment mode from user input
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentModeCash, PaymentModeOnline:
		return PaymentMode(s), nil
	}
	return "", fmt.Errorf("invalid payment mode: %q", s)
}

// Customer represents a gym member
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string          `gorm:"type:varchar(255)" json:"name"`
	Phone           string          `gorm:"type:varchar(50)" json:"phone"`
	JoiningDate     Date            `gorm:"type:date;index" json:"joining_date"`
	MembershipPlan  membership.Plan `gorm:"type:varchar(20)" json:"membership_plan"`
	FeePaid         bool            `gorm:"default:false" json:"fee_paid"`
	PaymentMode     *PaymentMode    `gorm:"type:varchar(10)" json:"payment_mode,omitempty"`
	NextPaymentDate Date            `gorm:"type:date;index" json:"next_payment_date"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// OverdueOn reports whether the member's renewal date has passed as of today
func (c Customer) OverdueOn(today time.Time) bool {
	return membership.OverdueOn(c.NextPaymentDate.Time, today)
}

// ActiveOn reports whether the member is in good standing: fee paid and
// not yet due for renewal
func (c Customer) ActiveOn(today time.Time) bool {
	return c.FeePaid && !c.OverdueOn(today)
}
