package dto

import "go-healthcare-records/internal/domain/entity"

type DashboardResponse struct {
	Counts            map[entity.Kind]int `json:"counts"`
	Appointments      map[string]int      `json:"appointments_by_status"`
	Resources         map[string]int      `json:"resources_by_status"`
	BedsAvailable     int                 `json:"beds_available"`
	BedsOccupied      int                 `json:"beds_occupied"`
	LowStockMedicines int                 `json:"low_stock_medicines"`
	ExpiredMedicines  int                 `json:"expired_medicines"`
	OutstandingAmount string              `json:"outstanding_amount"`
}

type MedicineReportResponse struct {
	Threshold int                `json:"threshold,omitempty"`
	AsOf      string             `json:"as_of"`
	Medicines []*entity.Medicine `json:"medicines"`
	Total     int                `json:"total"`
}
