package services

import (
	"fmt"
	"math"

	"logistics/internal/models"
	"logistics/internal/repository"
)

type WarehouseService interface {
	CreateWarehouse(data models.WarehouseData) (*models.Warehouse, error)
	GetWarehouseByID(id uint) (*models.Warehouse, error)
	GetAllWarehouses() ([]models.Warehouse, error)
	UpdateWarehouse(id uint, patch models.WarehousePatch) (*models.Warehouse, error)
	DeleteWarehouse(id uint) error
	GetWarehouseStats(id uint) (*models.WarehouseStats, error)
	GetOrdersInWarehouse(id uint) ([]models.Order, error)
	AssignOrder(orderID, warehouseID uint, note string) error
	GetOrderWarehouseHistory(orderID uint) ([]models.OrderWarehouseHistory, error)
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
	orderRepo     repository.OrderRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository, orderRepo repository.OrderRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo, orderRepo: orderRepo}
}

func (s *warehouseService) CreateWarehouse(data models.WarehouseData) (*models.Warehouse, error) {
	data.ApplyDefaults()
	if err := data.Validate(); err != nil {
		return nil, validationError(err)
	}

	warehouse := &models.Warehouse{WarehouseData: data}
	if err := s.warehouseRepo.Create(warehouse); err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}
	return warehouse, nil
}

func (s *warehouseService) GetWarehouseByID(id uint) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "warehouse", id)
	}
	return warehouse, nil
}

func (s *warehouseService) GetAllWarehouses() ([]models.Warehouse, error) {
	return s.warehouseRepo.GetAll()
}

func (s *warehouseService) UpdateWarehouse(id uint, patch models.WarehousePatch) (*models.Warehouse, error) {
	warehouse, err := s.GetWarehouseByID(id)
	if err != nil {
		return nil, err
	}

	patch.Apply(&warehouse.WarehouseData)
	if err := warehouse.Validate(); err != nil {
		return nil, validationError(err)
	}

	if err := s.warehouseRepo.Update(warehouse); err != nil {
		return nil, fmt.Errorf("failed to update warehouse #%d: %w", id, err)
	}
	return warehouse, nil
}

// DeleteWarehouse refuses while any order is still placed in the warehouse.
func (s *warehouseService) DeleteWarehouse(id uint) error {
	if _, err := s.GetWarehouseByID(id); err != nil {
		return err
	}
	count, err := s.warehouseRepo.CountOrders(id)
	if err != nil {
		return fmt.Errorf("failed to count orders in warehouse #%d: %w", id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: cannot delete warehouse with %d orders", ErrInUse, count)
	}
	if err := s.warehouseRepo.Delete(id); err != nil {
		return notFound(err, "warehouse", id)
	}
	return nil
}

func (s *warehouseService) GetWarehouseStats(id uint) (*models.WarehouseStats, error) {
	warehouse, err := s.GetWarehouseByID(id)
	if err != nil {
		return nil, err
	}
	count, err := s.warehouseRepo.CountOrders(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders in warehouse #%d: %w", id, err)
	}

	var pct float64
	if warehouse.Capacity > 0 {
		pct = math.Round(float64(count)/float64(warehouse.Capacity)*1000) / 10
	}
	return &models.WarehouseStats{
		WarehouseID: warehouse.ID,
		OrderCount:  count,
		Capacity:    warehouse.Capacity,
		CapacityPct: pct,
		Status:      warehouse.Status,
	}, nil
}

func (s *warehouseService) GetOrdersInWarehouse(id uint) ([]models.Order, error) {
	if _, err := s.GetWarehouseByID(id); err != nil {
		return nil, err
	}
	return s.warehouseRepo.GetOrders(id)
}

// AssignOrder places an order in a warehouse and records the movement.
func (s *warehouseService) AssignOrder(orderID, warehouseID uint, note string) error {
	if _, err := s.GetWarehouseByID(warehouseID); err != nil {
		return err
	}
	if err := s.warehouseRepo.AssignOrder(orderID, warehouseID, note); err != nil {
		return notFound(err, "order", orderID)
	}
	return nil
}

func (s *warehouseService) GetOrderWarehouseHistory(orderID uint) ([]models.OrderWarehouseHistory, error) {
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		return nil, notFound(err, "order", orderID)
	}
	return s.warehouseRepo.GetOrderHistory(orderID)
}
