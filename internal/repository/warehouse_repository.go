package repository

import (
	"fmt"
	"time"

	"logistics/internal/models"

	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(warehouse *models.Warehouse) error
	GetByID(id uint) (*models.Warehouse, error)
	GetAll() ([]models.Warehouse, error)
	Update(warehouse *models.Warehouse) error
	Delete(id uint) error
	CountOrders(warehouseID uint) (int64, error)
	GetOrders(warehouseID uint) ([]models.Order, error)
	AssignOrder(orderID, warehouseID uint, note string) error
	GetOrderHistory(orderID uint) ([]models.OrderWarehouseHistory, error)
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(warehouse *models.Warehouse) error {
	return r.db.Create(warehouse).Error
}

func (r *warehouseRepository) GetByID(id uint) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.First(&warehouse, id).Error
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) GetAll() ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.Order("name ASC, id ASC").Find(&warehouses).Error
	return warehouses, err
}

func (r *warehouseRepository) Update(warehouse *models.Warehouse) error {
	return r.db.Save(warehouse).Error
}

func (r *warehouseRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Warehouse{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *warehouseRepository) CountOrders(warehouseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("current_warehouse_id = ?", warehouseID).Count(&count).Error
	return count, err
}

func (r *warehouseRepository) GetOrders(warehouseID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("current_warehouse_id = ?", warehouseID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

// AssignOrder moves an order into a warehouse. When the order leaves a
// different warehouse an "out" row is written for it before the "in" row.
func (r *warehouseRepository) AssignOrder(orderID, warehouseID uint, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		now := time.Now()
		if order.CurrentWarehouseID != nil && *order.CurrentWarehouseID != warehouseID {
			out := models.OrderWarehouseHistory{
				OrderID:     orderID,
				WarehouseID: *order.CurrentWarehouseID,
				Action:      models.MovementOut,
				Note:        transferNote(warehouseID),
				Timestamp:   now,
			}
			if err := tx.Create(&out).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Update("current_warehouse_id", warehouseID).Error; err != nil {
			return err
		}

		if note == "" {
			note = "Checked in"
		}
		return tx.Create(&models.OrderWarehouseHistory{
			OrderID:     orderID,
			WarehouseID: warehouseID,
			Action:      models.MovementIn,
			Note:        note,
			Timestamp:   now,
		}).Error
	})
}

func (r *warehouseRepository) GetOrderHistory(orderID uint) ([]models.OrderWarehouseHistory, error) {
	var history []models.OrderWarehouseHistory
	err := r.db.Where("order_id = ?", orderID).Order("moved_at DESC, id DESC").Find(&history).Error
	return history, err
}

func transferNote(warehouseID uint) string {
	return fmt.Sprintf("Transferred to warehouse #%d", warehouseID)
}
