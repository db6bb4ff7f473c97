package services

import (
	"errors"
	"fmt"
	"strings"

	"logistics/internal/models"
	"logistics/internal/repository"

	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(data models.OrderData, actor string) (*models.Order, error)
	GetOrderByID(id uint) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	SearchOrders(query string) ([]models.Order, error)
	FilterOrders(filter repository.OrderFilter) ([]models.Order, error)
	UniqueProvinces() ([]string, error)
	UpdateOrder(id uint, patch models.OrderPatch) (*models.Order, error)
	UpdateOrderStatus(id uint, status models.OrderStatus, changedBy, note string) (*models.Order, error)
	DeleteOrder(id uint) error
	GetStatusHistory(id uint) ([]models.OrderStatusHistory, error)
	PriceOrder(data *models.OrderData) error
}

type orderService struct {
	orderRepo     repository.OrderRepository
	warehouseRepo repository.WarehouseRepository
	routeService  RouteService
}

func NewOrderService(orderRepo repository.OrderRepository, warehouseRepo repository.WarehouseRepository, routeService RouteService) OrderService {
	return &orderService{orderRepo: orderRepo, warehouseRepo: warehouseRepo, routeService: routeService}
}

// CreateOrder fills defaults, validates and stores a new order. The initial
// status-history row is written in the same transaction.
func (s *orderService) CreateOrder(data models.OrderData, actor string) (*models.Order, error) {
	data.ApplyDefaults()
	if err := data.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensureTrackingCodeFree(data.TrackingCode, 0); err != nil {
		return nil, err
	}
	if data.CurrentWarehouseID != nil {
		if _, err := s.warehouseRepo.GetByID(*data.CurrentWarehouseID); err != nil {
			return nil, notFound(err, "warehouse", *data.CurrentWarehouseID)
		}
	}

	order := &models.Order{OrderData: data}
	if err := s.orderRepo.Create(order, actor); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrderByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return order, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

func (s *orderService) SearchOrders(query string) ([]models.Order, error) {
	return s.orderRepo.Search(query)
}

func (s *orderService) FilterOrders(filter repository.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError(fmt.Errorf("unknown status %q", filter.Status))
	}
	if filter.Days < 0 {
		return nil, validationError(fmt.Errorf("days must not be negative"))
	}
	return s.orderRepo.Filter(filter)
}

func (s *orderService) UniqueProvinces() ([]string, error) {
	return s.orderRepo.UniqueProvinces()
}

// UpdateOrder applies a partial edit; fields absent from the patch keep
// their stored values. Create-time defaults are not re-applied, so an
// explicit zero is validated as given.
func (s *orderService) UpdateOrder(id uint, patch models.OrderPatch) (*models.Order, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	patch.Apply(&order.OrderData)
	order.TrackingCode = strings.TrimSpace(order.TrackingCode)
	if err := order.Validate(); err != nil {
		return nil, validationError(err)
	}
	if patch.TrackingCode != nil {
		if err := s.ensureTrackingCodeFree(order.TrackingCode, order.ID); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order #%d: %w", id, err)
	}
	return order, nil
}

// UpdateOrderStatus allows any transition between the known statuses and
// appends it to the order's status history.
func (s *orderService) UpdateOrderStatus(id uint, status models.OrderStatus, changedBy, note string) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationError(fmt.Errorf("unknown status %q", status))
	}
	order, err := s.orderRepo.UpdateStatus(id, status, changedBy, note)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return order, nil
}

func (s *orderService) DeleteOrder(id uint) error {
	if err := s.orderRepo.Delete(id); err != nil {
		return notFound(err, "order", id)
	}
	return nil
}

func (s *orderService) GetStatusHistory(id uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrderByID(id); err != nil {
		return nil, err
	}
	return s.orderRepo.GetStatusHistory(id)
}

// PriceOrder sets the shipping cost from route pricing. The result is a
// snapshot; later route price changes do not touch stored orders.
func (s *orderService) PriceOrder(data *models.OrderData) error {
	cost, err := s.routeService.CalculateShippingCost(data.Sender.Province, data.Receiver.Province, data.Weight)
	if err != nil {
		return err
	}
	data.ShippingCost = cost
	return nil
}

func (s *orderService) ensureTrackingCodeFree(code string, selfID uint) error {
	existing, err := s.orderRepo.GetByTrackingCode(code)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check tracking code: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("%w: tracking code %s already exists", ErrAlreadyExists, code)
	}
	return nil
}
