package models

import (
	"fmt"
	"strings"
	"time"
)

type WarehouseStatus string

const (
	WarehouseActive      WarehouseStatus = "active"
	WarehouseMaintenance WarehouseStatus = "maintenance"
	WarehouseClosed      WarehouseStatus = "closed"
)

func (s WarehouseStatus) Valid() bool {
	switch s {
	case WarehouseActive, WarehouseMaintenance, WarehouseClosed:
		return true
	}
	return false
}

const DefaultWarehouseCapacity = 100

type WarehouseData struct {
	Name     string          `json:"name" gorm:"size:100;not null"`
	Address  string          `json:"address" gorm:"type:text"`
	Province string          `json:"province" gorm:"size:50"`
	Capacity int             `json:"capacity"`
	Status   WarehouseStatus `json:"status" gorm:"size:20"`
}

type Warehouse struct {
	ID uint `json:"id" gorm:"primaryKey"`
	WarehouseData
	CreatedAt time.Time `json:"created_at"`
}

func (d *WarehouseData) ApplyDefaults() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Capacity == 0 {
		d.Capacity = DefaultWarehouseCapacity
	}
	if d.Status == "" {
		d.Status = WarehouseActive
	}
}

func (d WarehouseData) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("warehouse name is required")
	case d.Capacity < 0:
		return fmt.Errorf("capacity must not be negative")
	case !d.Status.Valid():
		return fmt.Errorf("unknown warehouse status %q", d.Status)
	}
	return nil
}

type WarehousePatch struct {
	Name     *string          `json:"name"`
	Address  *string          `json:"address"`
	Province *string          `json:"province"`
	Capacity *int             `json:"capacity"`
	Status   *WarehouseStatus `json:"status"`
}

func (p WarehousePatch) Apply(d *WarehouseData) {
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	setIfPresent(&d.Address, p.Address)
	setIfPresent(&d.Province, p.Province)
	setIfPresent(&d.Capacity, p.Capacity)
	setIfPresent(&d.Status, p.Status)
}

func FullWarehousePatch(d WarehouseData) WarehousePatch {
	return WarehousePatch{
		Name:     &d.Name,
		Address:  &d.Address,
		Province: &d.Province,
		Capacity: &d.Capacity,
		Status:   &d.Status,
	}
}

type WarehouseMovement string

const (
	MovementIn  WarehouseMovement = "in"
	MovementOut WarehouseMovement = "out"
)

// OrderWarehouseHistory tracks an order entering or leaving a warehouse.
type OrderWarehouseHistory struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	OrderID     uint              `json:"order_id" gorm:"index;not null"`
	WarehouseID uint              `json:"warehouse_id" gorm:"index;not null"`
	Action      WarehouseMovement `json:"action" gorm:"size:20"`
	Note        string            `json:"note" gorm:"type:text"`
	Timestamp   time.Time         `json:"timestamp" gorm:"column:moved_at"`
}

func (OrderWarehouseHistory) TableName() string {
	return "order_warehouse_history"
}

type WarehouseStats struct {
	WarehouseID uint            `json:"warehouse_id"`
	OrderCount  int64           `json:"order_count"`
	Capacity    int             `json:"capacity"`
	CapacityPct float64         `json:"capacity_pct"`
	Status      WarehouseStatus `json:"status"`
}
