package entity

import "time"

// ResourceType classifies a hospital resource
type ResourceType string

const (
	ResourceRoom      ResourceType = "room"
	ResourceBed       ResourceType = "bed"
	ResourceEquipment ResourceType = "equipment"
)

// ResourceStatus represents the usage state of a hospital resource
type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "available"
	ResourceOccupied    ResourceStatus = "occupied"
	ResourceMaintenance ResourceStatus = "maintenance"
)

// HospitalResource represents rooms, beds and equipment
type HospitalResource struct {
	ID           int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ResourceName string         `gorm:"type:varchar(100);not null" json:"resource_name" validate:"required,max=100"`
	ResourceType ResourceType   `gorm:"type:varchar(10);not null;index" json:"resource_type" validate:"required,oneof=room bed equipment"`
	Quantity     int            `gorm:"not null" json:"quantity" validate:"gte=0"`
	Status       ResourceStatus `gorm:"type:varchar(15);not null;index" json:"status" validate:"required,oneof=available occupied maintenance"`
}

func (HospitalResource) TableName() string {
	return "hospital_resources"
}

func (*HospitalResource) Kind() Kind       { return KindHospitalResource }
func (h *HospitalResource) GetID() int64   { return h.ID }
func (h *HospitalResource) SetID(id int64) { h.ID = id }
func (h *HospitalResource) Clone() Record  { c := *h; return &c }

func (h *HospitalResource) ApplyDefaults(_ time.Time) {
	if h.Status == "" {
		h.Status = ResourceAvailable
	}
}
