package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RouteData prices shipments from one province to another. The pair is
// directional: A → B and B → A are different routes.
type RouteData struct {
	OriginProvince string          `json:"origin_province" gorm:"size:50;not null;uniqueIndex:idx_routes_pair"`
	DestProvince   string          `json:"dest_province" gorm:"size:50;not null;uniqueIndex:idx_routes_pair"`
	DistanceKm     float64         `json:"distance_km"`
	EstHours       float64         `json:"est_hours"`
	BasePrice      decimal.Decimal `json:"base_price" gorm:"type:decimal(15,2)"`
	PricePerKg     decimal.Decimal `json:"price_per_kg" gorm:"type:decimal(15,2)"`
}

type Route struct {
	ID uint `json:"id" gorm:"primaryKey"`
	RouteData
	CreatedAt time.Time `json:"created_at"`
}

// ShippingCost is base_price + weight × price_per_kg.
func (d RouteData) ShippingCost(weightKg float64) decimal.Decimal {
	return d.BasePrice.Add(d.PricePerKg.Mul(decimal.NewFromFloat(weightKg)))
}

func (d RouteData) Display() string {
	return fmt.Sprintf("%s → %s", d.OriginProvince, d.DestProvince)
}

func (d *RouteData) Normalize() {
	d.OriginProvince = strings.TrimSpace(d.OriginProvince)
	d.DestProvince = strings.TrimSpace(d.DestProvince)
}

func (d RouteData) Validate() error {
	switch {
	case d.OriginProvince == "" || d.DestProvince == "":
		return fmt.Errorf("origin and destination provinces are required")
	case d.DistanceKm < 0 || d.EstHours < 0:
		return fmt.Errorf("distance and duration must not be negative")
	case d.BasePrice.IsNegative() || d.PricePerKg.IsNegative():
		return fmt.Errorf("prices must not be negative")
	}
	return nil
}

type RoutePatch struct {
	OriginProvince *string          `json:"origin_province"`
	DestProvince   *string          `json:"dest_province"`
	DistanceKm     *float64         `json:"distance_km"`
	EstHours       *float64         `json:"est_hours"`
	BasePrice      *decimal.Decimal `json:"base_price"`
	PricePerKg     *decimal.Decimal `json:"price_per_kg"`
}

func (p RoutePatch) Apply(d *RouteData) {
	setIfPresent(&d.OriginProvince, p.OriginProvince)
	setIfPresent(&d.DestProvince, p.DestProvince)
	setIfPresent(&d.DistanceKm, p.DistanceKm)
	setIfPresent(&d.EstHours, p.EstHours)
	setIfPresent(&d.BasePrice, p.BasePrice)
	setIfPresent(&d.PricePerKg, p.PricePerKg)
	d.Normalize()
}

func FullRoutePatch(d RouteData) RoutePatch {
	return RoutePatch{
		OriginProvince: &d.OriginProvince,
		DestProvince:   &d.DestProvince,
		DistanceKm:     &d.DistanceKm,
		EstHours:       &d.EstHours,
		BasePrice:      &d.BasePrice,
		PricePerKg:     &d.PricePerKg,
	}
}

type RouteStats struct {
	Route      Route `json:"route"`
	OrderCount int64 `json:"order_count"`
}
