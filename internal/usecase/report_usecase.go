package usecase

import (
	"context"
	"time"

	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ReportUsecase interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	LowStockMedicines(ctx context.Context, threshold int) (*dto.MedicineReportResponse, error)
	ExpiredMedicines(ctx context.Context) (*dto.MedicineReportResponse, error)
}

type reportUsecase struct {
	store             *store.Store
	log               *logrus.Logger
	lowStockThreshold int
	now               func() time.Time
}

func NewReportUsecase(st *store.Store, log *logrus.Logger, lowStockThreshold int) ReportUsecase {
	return &reportUsecase{
		store:             st,
		log:               log,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Dashboard summarises a single snapshot of the store.
func (u *reportUsecase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	snap := u.store.Snapshot()
	now := u.now()

	resp := &dto.DashboardResponse{
		Counts:       make(map[entity.Kind]int),
		Appointments: make(map[string]int),
		Resources:    make(map[string]int),
	}
	for _, kind := range entity.Kinds() {
		resp.Counts[kind] = snap.Count(kind)
	}

	for rec := range snap.List(entity.KindAppointment, nil) {
		resp.Appointments[string(rec.(*entity.Appointment).Status)]++
	}

	for rec := range snap.List(entity.KindHospitalResource, nil) {
		r := rec.(*entity.HospitalResource)
		resp.Resources[string(r.Status)] += r.Quantity
		if r.ResourceType != entity.ResourceBed {
			continue
		}
		switch r.Status {
		case entity.ResourceAvailable:
			resp.BedsAvailable += r.Quantity
		case entity.ResourceOccupied:
			resp.BedsOccupied += r.Quantity
		}
	}

	for rec := range snap.List(entity.KindMedicine, nil) {
		m := rec.(*entity.Medicine)
		if m.IsLowStock(u.lowStockThreshold) {
			resp.LowStockMedicines++
		}
		if m.IsExpired(now) {
			resp.ExpiredMedicines++
		}
	}

	outstanding := decimal.Zero
	for rec := range snap.List(entity.KindBilling, nil) {
		outstanding = outstanding.Add(rec.(*entity.Billing).Outstanding())
	}
	resp.OutstandingAmount = outstanding.StringFixed(2)

	return resp, nil
}

// LowStockMedicines lists medicines with quantity at or below threshold.
// A threshold below zero selects the configured default.
func (u *reportUsecase) LowStockMedicines(ctx context.Context, threshold int) (*dto.MedicineReportResponse, error) {
	if threshold < 0 {
		threshold = u.lowStockThreshold
	}

	resp := &dto.MedicineReportResponse{
		Threshold: threshold,
		AsOf:      entity.NewDate(u.today()).String(),
		Medicines: []*entity.Medicine{},
	}
	for rec := range u.store.List(entity.KindMedicine, func(r entity.Record) bool {
		return r.(*entity.Medicine).IsLowStock(threshold)
	}) {
		resp.Medicines = append(resp.Medicines, rec.(*entity.Medicine))
	}
	resp.Total = len(resp.Medicines)

	return resp, nil
}

// ExpiredMedicines lists medicines whose expiry date is today or earlier.
func (u *reportUsecase) ExpiredMedicines(ctx context.Context) (*dto.MedicineReportResponse, error) {
	now := u.now()

	resp := &dto.MedicineReportResponse{
		AsOf:      entity.NewDate(u.today()).String(),
		Medicines: []*entity.Medicine{},
	}
	for rec := range u.store.List(entity.KindMedicine, func(r entity.Record) bool {
		return r.(*entity.Medicine).IsExpired(now)
	}) {
		resp.Medicines = append(resp.Medicines, rec.(*entity.Medicine))
	}
	resp.Total = len(resp.Medicines)

	return resp, nil
}

func (u *reportUsecase) today() (int, time.Month, int) {
	return u.now().Date()
}
