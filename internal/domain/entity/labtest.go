package entity

// LabTest represents a test ordered by a doctor for a patient
type LabTest struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	PatientID int64  `gorm:"not null;index" json:"patient_id"`
	DoctorID  int64  `gorm:"not null;index" json:"doctor_id"`
	TestName  string `gorm:"type:varchar(100);not null" json:"test_name" validate:"required,max=100"`
	TestDate  Date   `gorm:"type:date;not null" json:"test_date"`
	Result    string `gorm:"type:text" json:"result,omitempty"`
}

func (LabTest) TableName() string {
	return "lab_tests"
}

func (*LabTest) Kind() Kind       { return KindLabTest }
func (l *LabTest) GetID() int64   { return l.ID }
func (l *LabTest) SetID(id int64) { l.ID = id }
func (l *LabTest) Clone() Record  { c := *l; return &c }
