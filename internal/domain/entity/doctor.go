package entity

import "time"

// AvailabilityStatus represents whether a doctor can take appointments
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityBusy      AvailabilityStatus = "busy"
	AvailabilityOff       AvailabilityStatus = "off"
)

// Doctor represents doctor-specific profile data owned by a user
type Doctor struct {
	ID                 int64              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID             int64              `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName           string             `gorm:"type:varchar(100);not null" json:"full_name" validate:"required,max=100"`
	Specialization     string             `gorm:"type:varchar(100);not null;index" json:"specialization" validate:"required,max=100"`
	Phone              string             `gorm:"type:varchar(15)" json:"phone,omitempty" validate:"omitempty,max=15"`
	Email              string             `gorm:"type:varchar(100)" json:"email,omitempty" validate:"omitempty,email,max=100"`
	AvailabilityStatus AvailabilityStatus `gorm:"type:varchar(10);not null" json:"availability_status" validate:"required,oneof=available busy off"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (*Doctor) Kind() Kind       { return KindDoctor }
func (d *Doctor) GetID() int64   { return d.ID }
func (d *Doctor) SetID(id int64) { d.ID = id }
func (d *Doctor) Clone() Record  { c := *d; return &c }

func (d *Doctor) ApplyDefaults(_ time.Time) {
	if d.AvailabilityStatus == "" {
		d.AvailabilityStatus = AvailabilityAvailable
	}
}

// IsAvailable checks if the doctor currently accepts appointments
func (d *Doctor) IsAvailable() bool {
	return d.AvailabilityStatus == AvailabilityAvailable
}
