package repository

import (
	"sort"
	"strings"
	"time"

	"logistics/internal/models"

	"gorm.io/gorm"
)

// OrderFilter narrows an order listing. Zero values disable a criterion.
type OrderFilter struct {
	Search   string
	Status   models.OrderStatus
	Days     int
	Province string
}

type OrderRepository interface {
	Create(order *models.Order, changedBy string) error
	GetByID(id uint) (*models.Order, error)
	GetByTrackingCode(code string) (*models.Order, error)
	Update(order *models.Order) error
	UpdateStatus(id uint, status models.OrderStatus, changedBy, note string) (*models.Order, error)
	Delete(id uint) error
	GetAll() ([]models.Order, error)
	Search(query string) ([]models.Order, error)
	Filter(filter OrderFilter) ([]models.Order, error)
	GetStatusHistory(orderID uint) ([]models.OrderStatusHistory, error)
	UniqueProvinces() ([]string, error)
	CountByRoute(origin, dest string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its initial status-history row.
func (r *orderRepository) Create(order *models.Order, changedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: order.Status,
			ChangedAt: time.Now(),
			ChangedBy: changedBy,
		}).Error
	})
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByTrackingCode(code string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("tracking_code = ?", code).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateStatus sets the status and appends the transition to the history
// in one transaction. It returns the order as stored after the change.
func (r *orderRepository) UpdateStatus(id uint, status models.OrderStatus, changedBy, note string) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		old := order.Status
		order.Status = status
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			OldStatus: &old,
			NewStatus: status,
			ChangedAt: time.Now(),
			ChangedBy: changedBy,
			Note:      note,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes the order and every history row that references it.
func (r *orderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderWarehouseHistory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Search(query string) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Order("created_at DESC, id DESC")
	if strings.TrimSpace(query) != "" {
		q = q.Where(matchAny(
			"CAST(id AS TEXT)", "tracking_code",
			"sender_name", "receiver_name",
			"sender_phone", "receiver_phone",
			"sender_address", "receiver_address",
			"item_name",
		), likeArgs(query, 9)...)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Filter(filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Order("created_at DESC, id DESC")

	if strings.TrimSpace(filter.Search) != "" {
		q = q.Where(matchAny(
			"CAST(id AS TEXT)", "tracking_code",
			"sender_name", "receiver_name",
			"sender_phone", "receiver_phone",
		), likeArgs(filter.Search, 6)...)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Days > 0 {
		q = q.Where("created_at >= ?", time.Now().AddDate(0, 0, -filter.Days))
	}
	if strings.TrimSpace(filter.Province) != "" {
		q = q.Where(matchAny("sender_province", "receiver_province"), likeArgs(filter.Province, 2)...)
	}

	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := r.db.Where("order_id = ?", orderID).Order("changed_at ASC, id ASC").Find(&history).Error
	return history, err
}

// UniqueProvinces returns the sorted, distinct provinces used by any order.
func (r *orderRepository) UniqueProvinces() ([]string, error) {
	var senders, receivers []string
	if err := r.db.Model(&models.Order{}).Distinct().Pluck("sender_province", &senders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Order{}).Distinct().Pluck("receiver_province", &receivers).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	provinces := []string{}
	for _, p := range append(senders, receivers...) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		provinces = append(provinces, p)
	}
	sort.Strings(provinces)
	return provinces, nil
}

func (r *orderRepository) CountByRoute(origin, dest string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("sender_province = ? AND receiver_province = ?", origin, dest).
		Count(&count).Error
	return count, err
}

// matchAny builds a case-insensitive "column contains" clause over columns.
// SQLite only folds ASCII in LOWER, so each column is also matched against
// the term as typed.
func matchAny(columns ...string) string {
	clauses := make([]string, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? OR " + col + " LIKE ?"
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

// likeArgs returns the bind values matchAny expects for n columns.
func likeArgs(term string, n int) []interface{} {
	term = strings.TrimSpace(term)
	lowered := "%" + strings.ToLower(term) + "%"
	raw := "%" + term + "%"
	args := make([]interface{}, 0, 2*n)
	for i := 0; i < n; i++ {
		args = append(args, lowered, raw)
	}
	return args
}
