package entity

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a patient visit with a doctor
type Appointment struct {
	ID              int64             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	PatientID       int64             `gorm:"not null;index" json:"patient_id"`
	DoctorID        int64             `gorm:"not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"not null;index" json:"appointment_date"`
	Status          AppointmentStatus `gorm:"type:varchar(10);not null;index" json:"status" validate:"required,oneof=scheduled completed cancelled"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (*Appointment) Kind() Kind       { return KindAppointment }
func (a *Appointment) GetID() int64   { return a.ID }
func (a *Appointment) SetID(id int64) { a.ID = id }
func (a *Appointment) Clone() Record  { c := *a; return &c }

func (a *Appointment) ApplyDefaults(_ time.Time) {
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
}

// IsScheduled checks if appointment is still upcoming
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentScheduled
}

// IsCompleted checks if appointment took place
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentCompleted
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentCancelled
}
