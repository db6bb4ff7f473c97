package repository

import (
	"logistics/internal/models"

	"gorm.io/gorm"
)

type RouteRepository interface {
	Create(route *models.Route) error
	GetByID(id uint) (*models.Route, error)
	GetAll() ([]models.Route, error)
	FindByProvinces(origin, dest string) (*models.Route, error)
	Update(route *models.Route) error
	Delete(id uint) error
}

type routeRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) Create(route *models.Route) error {
	return r.db.Create(route).Error
}

func (r *routeRepository) GetByID(id uint) (*models.Route, error) {
	var route models.Route
	err := r.db.First(&route, id).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) GetAll() ([]models.Route, error) {
	var routes []models.Route
	err := r.db.Order("origin_province ASC, dest_province ASC").Find(&routes).Error
	return routes, err
}

// FindByProvinces is an exact, directional lookup.
func (r *routeRepository) FindByProvinces(origin, dest string) (*models.Route, error) {
	var route models.Route
	err := r.db.Where("origin_province = ? AND dest_province = ?", origin, dest).First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) Update(route *models.Route) error {
	return r.db.Save(route).Error
}

func (r *routeRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Route{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
