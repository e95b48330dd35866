package entity

import "time"

// Feedback is a patient's rating of the hospital or of a doctor.
// DoctorID is cleared, not cascaded, when the doctor is removed.
type Feedback struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	PatientID    int64     `gorm:"not null;index" json:"patient_id"`
	DoctorID     *int64    `gorm:"index" json:"doctor_id"`
	FeedbackText string    `gorm:"type:text" json:"feedback_text,omitempty"`
	Rating       int       `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (*Feedback) Kind() Kind       { return KindFeedback }
func (f *Feedback) GetID() int64   { return f.ID }
func (f *Feedback) SetID(id int64) { f.ID = id }

func (f *Feedback) Clone() Record {
	c := *f
	c.DoctorID = cloneID(f.DoctorID)
	return &c
}

func (f *Feedback) ApplyDefaults(now time.Time) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
}
