package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents how much of a bill has been settled
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
)

// Billing represents the invoice of an appointment
type Billing struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AppointmentID int64           `gorm:"not null;index" json:"appointment_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount" validate:"gte=0"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"paid_amount" validate:"gte=0"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(10);not null" json:"payment_status" validate:"required,oneof=pending paid partial"`
	PaymentDate   *Date           `gorm:"type:date" json:"payment_date,omitempty"`
}

func (Billing) TableName() string {
	return "billing"
}

func (*Billing) Kind() Kind       { return KindBilling }
func (b *Billing) GetID() int64   { return b.ID }
func (b *Billing) SetID(id int64) { b.ID = id }

func (b *Billing) Clone() Record {
	c := *b
	c.PaymentDate = cloneDate(b.PaymentDate)
	return &c
}

func (b *Billing) ApplyDefaults(_ time.Time) {
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
}

// Outstanding returns the amount still owed
func (b *Billing) Outstanding() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}
