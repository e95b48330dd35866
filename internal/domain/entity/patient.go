package entity

import "time"

// Gender of a patient
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient represents patient-specific profile data owned by a user
type Patient struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID   int64  `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName string `gorm:"type:varchar(100);not null" json:"full_name" validate:"required,max=100"`
	DOB      Date   `gorm:"column:dob;type:date;not null" json:"dob"`
	Gender   Gender `gorm:"type:varchar(10);not null" json:"gender" validate:"required,oneof=male female other"`
	Phone    string `gorm:"type:varchar(15)" json:"phone,omitempty" validate:"omitempty,max=15"`
	Email    string `gorm:"type:varchar(100)" json:"email,omitempty" validate:"omitempty,email,max=100"`
	Address  string `gorm:"type:text" json:"address,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (*Patient) Kind() Kind       { return KindPatient }
func (p *Patient) GetID() int64   { return p.ID }
func (p *Patient) SetID(id int64) { p.ID = id }
func (p *Patient) Clone() Record  { c := *p; return &c }

// Age returns the patient's age in whole years at the given instant
func (p *Patient) Age(at time.Time) int {
	if p.DOB.IsZero() {
		return 0
	}
	years := at.Year() - p.DOB.Year()
	if at.Month() < p.DOB.Month() || (at.Month() == p.DOB.Month() && at.Day() < p.DOB.Day()) {
		years--
	}
	return years
}
