package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"logistics/internal/models"
	"logistics/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RouteService interface {
	CreateRoute(data models.RouteData) (*models.Route, error)
	GetRouteByID(id uint) (*models.Route, error)
	GetAllRoutes() ([]models.Route, error)
	FindRoute(origin, dest string) (*models.Route, error)
	UpdateRoute(id uint, patch models.RoutePatch) (*models.Route, error)
	DeleteRoute(id uint) error
	CalculateShippingCost(origin, dest string, weightKg float64) (decimal.Decimal, error)
	GetRouteStats() ([]models.RouteStats, error)
}

type routeService struct {
	routeRepo        repository.RouteRepository
	orderRepo        repository.OrderRepository
	defaultRatePerKg decimal.Decimal
}

// NewRouteService prices unrouted shipments at defaultRatePerKg per kilogram.
func NewRouteService(routeRepo repository.RouteRepository, orderRepo repository.OrderRepository, defaultRatePerKg decimal.Decimal) RouteService {
	return &routeService{routeRepo: routeRepo, orderRepo: orderRepo, defaultRatePerKg: defaultRatePerKg}
}

func (s *routeService) CreateRoute(data models.RouteData) (*models.Route, error) {
	data.Normalize()
	if err := data.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensurePairFree(data, 0); err != nil {
		return nil, err
	}

	route := &models.Route{RouteData: data}
	if err := s.routeRepo.Create(route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return route, nil
}

func (s *routeService) GetRouteByID(id uint) (*models.Route, error) {
	route, err := s.routeRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "route", id)
	}
	return route, nil
}

func (s *routeService) GetAllRoutes() ([]models.Route, error) {
	return s.routeRepo.GetAll()
}

func (s *routeService) FindRoute(origin, dest string) (*models.Route, error) {
	origin, dest = strings.TrimSpace(origin), strings.TrimSpace(dest)
	route, err := s.routeRepo.FindByProvinces(origin, dest)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: route %s → %s", ErrNotFound, origin, dest)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find route: %w", err)
	}
	return route, nil
}

func (s *routeService) UpdateRoute(id uint, patch models.RoutePatch) (*models.Route, error) {
	route, err := s.GetRouteByID(id)
	if err != nil {
		return nil, err
	}

	patch.Apply(&route.RouteData)
	if err := route.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensurePairFree(route.RouteData, route.ID); err != nil {
		return nil, err
	}

	if err := s.routeRepo.Update(route); err != nil {
		return nil, fmt.Errorf("failed to update route #%d: %w", id, err)
	}
	return route, nil
}

func (s *routeService) DeleteRoute(id uint) error {
	if err := s.routeRepo.Delete(id); err != nil {
		return notFound(err, "route", id)
	}
	return nil
}

// CalculateShippingCost uses the exact (origin, dest) route when one exists
// and falls back to the default per-kg rate otherwise.
func (s *routeService) CalculateShippingCost(origin, dest string, weightKg float64) (decimal.Decimal, error) {
	if weightKg < 0 {
		return decimal.Zero, validationError(fmt.Errorf("weight must not be negative"))
	}

	route, err := s.routeRepo.FindByProvinces(strings.TrimSpace(origin), strings.TrimSpace(dest))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.defaultRatePerKg.Mul(decimal.NewFromFloat(weightKg)), nil
	case err != nil:
		return decimal.Zero, fmt.Errorf("failed to look up route: %w", err)
	}
	return route.ShippingCost(weightKg), nil
}

// GetRouteStats counts orders per route, busiest first.
func (s *routeService) GetRouteStats() ([]models.RouteStats, error) {
	routes, err := s.routeRepo.GetAll()
	if err != nil {
		return nil, err
	}

	stats := make([]models.RouteStats, 0, len(routes))
	for _, route := range routes {
		count, err := s.orderRepo.CountByRoute(route.OriginProvince, route.DestProvince)
		if err != nil {
			return nil, fmt.Errorf("failed to count orders for route #%d: %w", route.ID, err)
		}
		stats = append(stats, models.RouteStats{Route: route, OrderCount: count})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].OrderCount > stats[j].OrderCount
	})
	return stats, nil
}

func (s *routeService) ensurePairFree(data models.RouteData, selfID uint) error {
	existing, err := s.routeRepo.FindByProvinces(data.OriginProvince, data.DestProvince)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check route: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("%w: route %s already exists", ErrAlreadyExists, data.Display())
	}
	return nil
}
