package models

import "time"

// OrderStatusHistory is an append-only record of one status transition.
// OldStatus is nil on the row written when the order is created.
type OrderStatusHistory struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	OrderID   uint         `json:"order_id" gorm:"index;not null"`
	OldStatus *OrderStatus `json:"old_status" gorm:"size:50"`
	NewStatus OrderStatus  `json:"new_status" gorm:"size:50;not null"`
	ChangedAt time.Time    `json:"changed_at" gorm:"index"`
	ChangedBy string       `json:"changed_by" gorm:"size:100"`
	Note      string       `json:"note" gorm:"size:500"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
