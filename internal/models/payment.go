package models

import (
	"time"

	"gymdesk/internal/membership"
)

// Payment records a membership fee payment. Payment rows are immutable
// after insert; they are only removed when their customer is deleted.
type Payment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CustomerID      uint            `gorm:"index;not null" json:"customer_id"`
	Amount          float64         `gorm:"type:decimal(15,2)" json:"amount"`
	PaymentDate     Date            `gorm:"type:date;index" json:"payment_date"`
	PaymentMode     PaymentMode     `gorm:"type:varchar(10)" json:"payment_mode"`
	MembershipPlan  membership.Plan `gorm:"type:varchar(20)" json:"membership_plan"`
	NextPaymentDate Date            `gorm:"type:date" json:"next_payment_date"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
