package entity

// Prescription links a medicine to an appointment
type Prescription struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AppointmentID int64  `gorm:"not null;index" json:"appointment_id"`
	MedID         int64  `gorm:"column:med_id;not null;index" json:"med_id"`
	Dosage        string `gorm:"type:varchar(50);not null" json:"dosage" validate:"required,max=50"`
	Duration      string `gorm:"type:varchar(50)" json:"duration,omitempty" validate:"omitempty,max=50"`
	Instructions  string `gorm:"type:text" json:"instructions,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (*Prescription) Kind() Kind       { return KindPrescription }
func (p *Prescription) GetID() int64   { return p.ID }
func (p *Prescription) SetID(id int64) { p.ID = id }
func (p *Prescription) Clone() Record  { c := *p; return &c }
