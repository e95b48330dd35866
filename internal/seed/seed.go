package seed

import (
	"context"
	"fmt"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Counter reports how many records of a kind exist.
type Counter interface {
	Count(kind entity.Kind) int
}

// Run loads the demo data set when the store holds no users. It reports
// whether anything was created.
func Run(ctx context.Context, counter Counter, uc usecase.RecordUsecase, log *logrus.Logger) (bool, error) {
	if counter.Count(entity.KindUser) > 0 {
		log.Info("Users present, skipping sample data")
		return false, nil
	}

	log.Info("Seeding sample data")
	s := &seeder{ctx: ctx, uc: uc}

	s.create(&entity.User{Username: "admin", Password: "admin123", Role: entity.RoleAdmin})
	doctorUser := s.create(&entity.User{Username: "doctor", Password: "doctor123", Role: entity.RoleDoctor})
	patientUser := s.create(&entity.User{Username: "patient", Password: "patient123", Role: entity.RolePatient})

	doctor := s.create(&entity.Doctor{
		UserID:         doctorUser,
		FullName:       "Dr. John Smith",
		Specialization: "Cardiology",
		Phone:          "123-456-7801",
		Email:          "doctor@hospital.com",
	})
	patient := s.create(&entity.Patient{
		UserID:   patientUser,
		FullName: "Jane Doe",
		DOB:      entity.NewDate(1990, time.March, 14),
		Gender:   entity.GenderFemale,
		Phone:    "123-456-7890",
		Email:    "patient@hospital.com",
		Address:  "12 Elm Street",
	})

	paracetamol := s.create(&entity.Medicine{
		Name:         "Paracetamol",
		Manufacturer: "Acme Pharma",
		Quantity:     100,
		Price:        decimal.RequireFromString("5.50"),
		ExpiryDate:   entity.NewDate(2030, time.December, 31),
	})
	s.create(&entity.Medicine{
		Name:         "Amoxicillin",
		Manufacturer: "Acme Pharma",
		Quantity:     5,
		Price:        decimal.RequireFromString("15.75"),
		ExpiryDate:   entity.NewDate(2024, time.June, 30),
	})

	appointment := s.create(&entity.Appointment{
		PatientID:       patient,
		DoctorID:        doctor,
		AppointmentDate: time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour),
		Status:          entity.AppointmentScheduled,
		Notes:           "Routine check-up",
	})
	s.create(&entity.Prescription{
		AppointmentID: appointment,
		MedID:         paracetamol,
		Dosage:        "500mg",
		Duration:      "5 days",
		Instructions:  "Twice daily after meals",
	})
	paidOn := entity.NewDate(time.Now().UTC().Date())
	s.create(&entity.Billing{
		AppointmentID: appointment,
		TotalAmount:   decimal.RequireFromString("25.00"),
		PaidAmount:    decimal.RequireFromString("25.00"),
		PaymentStatus: entity.PaymentPaid,
		PaymentDate:   &paidOn,
	})

	s.create(&entity.HospitalResource{ResourceName: "Ward A beds", ResourceType: entity.ResourceBed, Quantity: 10, Status: entity.ResourceAvailable})
	s.create(&entity.HospitalResource{ResourceName: "ICU beds", ResourceType: entity.ResourceBed, Quantity: 2, Status: entity.ResourceOccupied})

	s.create(&entity.LabTest{
		PatientID: patient,
		DoctorID:  doctor,
		TestName:  "Complete blood count",
		TestDate:  entity.NewDate(time.Now().UTC().Date()),
	})
	s.create(&entity.Feedback{
		PatientID:    patient,
		DoctorID:     &doctor,
		FeedbackText: "Very thorough",
		Rating:       5,
	})

	if s.err != nil {
		log.Errorf("Failed to seed sample data: %+v", s.err)
		return false, s.err
	}

	log.Info("Sample data seeded, credentials admin/admin123 doctor/doctor123 patient/patient123")
	return true, nil
}

// seeder keeps the first error and turns later creates into no-ops.
type seeder struct {
	ctx context.Context
	uc  usecase.RecordUsecase
	err error
}

func (s *seeder) create(rec entity.Record) int64 {
	if s.err != nil {
		return 0
	}
	created, err := s.uc.CreateRecord(s.ctx, nil, rec)
	if err != nil {
		s.err = fmt.Errorf("seed %s: %w", rec.Kind(), err)
		return 0
	}
	return created.GetID()
}
