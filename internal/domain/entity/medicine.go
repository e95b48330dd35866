package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine represents a stocked drug
type Medicine struct {
	ID           int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Manufacturer string          `gorm:"type:varchar(100)" json:"manufacturer,omitempty" validate:"omitempty,max=100"`
	Quantity     int             `gorm:"not null" json:"quantity" validate:"gte=0"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	ExpiryDate   Date            `gorm:"type:date;not null" json:"expiry_date" validate:"required"`
}

func (Medicine) TableName() string {
	return "medicines"
}

func (*Medicine) Kind() Kind       { return KindMedicine }
func (m *Medicine) GetID() int64   { return m.ID }
func (m *Medicine) SetID(id int64) { m.ID = id }
func (m *Medicine) Clone() Record  { c := *m; return &c }

// IsExpired reports whether the expiry date is on or before the given day
func (m *Medicine) IsExpired(at time.Time) bool {
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return !m.ExpiryDate.After(today)
}

// IsLowStock reports whether quantity has dropped to the threshold
func (m *Medicine) IsLowStock(threshold int) bool {
	return m.Quantity <= threshold
}
