package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusNew        OrderStatus = "New"
	StatusProcessing OrderStatus = "Processing"
	StatusShipping   OrderStatus = "Shipping"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the lifecycle states in display order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusNew, StatusProcessing, StatusShipping, StatusDelivered, StatusCancelled}
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

var statusLabels = map[OrderStatus]string{
	StatusNew:        "Mới tạo",
	StatusProcessing: "Đang xử lý",
	StatusShipping:   "Đang giao",
	StatusDelivered:  "Đã giao",
	StatusCancelled:  "Đã huỷ",
}

// Label is the Vietnamese display name used on reports.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

type OrderType string

const (
	OrderDomestic      OrderType = "domestic"
	OrderInternational OrderType = "international"
)

func (t OrderType) Valid() bool {
	return t == OrderDomestic || t == OrderInternational
}

type ItemType string

const (
	ItemNormal    ItemType = "normal"
	ItemFragile   ItemType = "fragile"
	ItemFrozen    ItemType = "frozen"
	ItemDangerous ItemType = "dangerous"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemNormal, ItemFragile, ItemFrozen, ItemDangerous:
		return true
	}
	return false
}

type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServiceExpress  ServiceType = "express"
	ServiceUrgent   ServiceType = "urgent"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceStandard, ServiceExpress, ServiceUrgent:
		return true
	}
	return false
}

// PaymentType names the party paying the shipping fee.
type PaymentType string

const (
	PaidBySender   PaymentType = "sender"
	PaidByReceiver PaymentType = "receiver"
)

func (t PaymentType) Valid() bool {
	return t == PaidBySender || t == PaidByReceiver
}

type Contact struct {
	Name     string `json:"name" gorm:"size:100"`
	Phone    string `json:"phone" gorm:"size:20"`
	Email    string `json:"email" gorm:"size:100"`
	Address  string `json:"address" gorm:"type:text"`
	Province string `json:"province" gorm:"size:50;index"`
	Ward     string `json:"ward" gorm:"size:100"`
}

// OrderData is the full editable field set of an order.
type OrderData struct {
	TrackingCode       string          `json:"tracking_code" gorm:"size:50;uniqueIndex;not null"`
	OrderType          OrderType       `json:"order_type" gorm:"size:20"`
	Sender             Contact         `json:"sender" gorm:"embedded;embeddedPrefix:sender_"`
	Receiver           Contact         `json:"receiver" gorm:"embedded;embeddedPrefix:receiver_"`
	CurrentWarehouseID *uint           `json:"current_warehouse_id" gorm:"index"`
	ItemName           string          `json:"item_name" gorm:"size:200"`
	ItemType           ItemType        `json:"item_type" gorm:"size:20"`
	PackageCount       int             `json:"package_count"`
	Weight             float64         `json:"weight"`
	Dimensions         string          `json:"dimensions" gorm:"size:50"`
	ServiceType        ServiceType     `json:"service_type" gorm:"size:20"`
	DeliveryNote       string          `json:"delivery_note" gorm:"type:text"`
	PaymentType        PaymentType     `json:"payment_type" gorm:"size:20"`
	ShippingCost       decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(15,2)"`
	HasCOD             bool            `json:"has_cod"`
	CODAmount          decimal.Decimal `json:"cod_amount" gorm:"type:decimal(15,2)"`
	Status             OrderStatus     `json:"status" gorm:"size:50;index"`
	ImagePath          string          `json:"image_path" gorm:"size:255"`
}

type Order struct {
	ID uint `json:"id" gorm:"primaryKey"`
	OrderData
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyDefaults fills the fields a new order may leave blank.
func (d *OrderData) ApplyDefaults() {
	d.TrackingCode = strings.TrimSpace(d.TrackingCode)
	if d.OrderType == "" {
		d.OrderType = OrderDomestic
	}
	if d.ItemType == "" {
		d.ItemType = ItemNormal
	}
	if d.ServiceType == "" {
		d.ServiceType = ServiceStandard
	}
	if d.PaymentType == "" {
		d.PaymentType = PaidBySender
	}
	if d.PackageCount == 0 {
		d.PackageCount = 1
	}
	if d.Status == "" {
		d.Status = StatusNew
	}
}

// Validate reports the first field that breaks an order invariant.
func (d OrderData) Validate() error {
	switch {
	case strings.TrimSpace(d.TrackingCode) == "":
		return fmt.Errorf("tracking code is required")
	case !d.OrderType.Valid():
		return fmt.Errorf("unknown order type %q", d.OrderType)
	case !d.ItemType.Valid():
		return fmt.Errorf("unknown item type %q", d.ItemType)
	case !d.ServiceType.Valid():
		return fmt.Errorf("unknown service type %q", d.ServiceType)
	case !d.PaymentType.Valid():
		return fmt.Errorf("unknown payment type %q", d.PaymentType)
	case !d.Status.Valid():
		return fmt.Errorf("unknown status %q", d.Status)
	case d.PackageCount < 1:
		return fmt.Errorf("package count must be at least 1")
	case d.Weight < 0:
		return fmt.Errorf("weight must not be negative")
	case d.ShippingCost.IsNegative():
		return fmt.Errorf("shipping cost must not be negative")
	case d.CODAmount.IsNegative():
		return fmt.Errorf("cod amount must not be negative")
	}
	return nil
}

// TotalCost is the shipping cost plus the COD amount when COD applies.
func (o Order) TotalCost() decimal.Decimal {
	if o.HasCOD {
		return o.ShippingCost.Add(o.CODAmount)
	}
	return o.ShippingCost
}

func (o Order) RouteSummary() string {
	return fmt.Sprintf("%s → %s", orNA(o.Sender.Province), orNA(o.Receiver.Province))
}

func (o Order) PackageSummary() string {
	count := o.PackageCount
	if count == 0 {
		count = 1
	}
	return fmt.Sprintf("%d pkg / %.1f kg", count, o.Weight)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

type ContactPatch struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Province *string `json:"province"`
	Ward     *string `json:"ward"`
}

func (p *ContactPatch) apply(c *Contact) {
	if p == nil {
		return
	}
	setIfPresent(&c.Name, p.Name)
	setIfPresent(&c.Phone, p.Phone)
	setIfPresent(&c.Email, p.Email)
	setIfPresent(&c.Address, p.Address)
	setIfPresent(&c.Province, p.Province)
	setIfPresent(&c.Ward, p.Ward)
}

// OrderPatch carries a partial order edit. Status and warehouse placement
// are changed through their own operations and are not part of a patch.
type OrderPatch struct {
	TrackingCode *string          `json:"tracking_code"`
	OrderType    *OrderType       `json:"order_type"`
	Sender       *ContactPatch    `json:"sender"`
	Receiver     *ContactPatch    `json:"receiver"`
	ItemName     *string          `json:"item_name"`
	ItemType     *ItemType        `json:"item_type"`
	PackageCount *int             `json:"package_count"`
	Weight       *float64         `json:"weight"`
	Dimensions   *string          `json:"dimensions"`
	ServiceType  *ServiceType     `json:"service_type"`
	DeliveryNote *string          `json:"delivery_note"`
	PaymentType  *PaymentType     `json:"payment_type"`
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
	HasCOD       *bool            `json:"has_cod"`
	CODAmount    *decimal.Decimal `json:"cod_amount"`
	ImagePath    *string          `json:"image_path"`
}

// Apply overwrites only the fields present in the patch.
func (p OrderPatch) Apply(d *OrderData) {
	if p.TrackingCode != nil {
		d.TrackingCode = strings.TrimSpace(*p.TrackingCode)
	}
	setIfPresent(&d.OrderType, p.OrderType)
	p.Sender.apply(&d.Sender)
	p.Receiver.apply(&d.Receiver)
	setIfPresent(&d.ItemName, p.ItemName)
	setIfPresent(&d.ItemType, p.ItemType)
	setIfPresent(&d.PackageCount, p.PackageCount)
	setIfPresent(&d.Weight, p.Weight)
	setIfPresent(&d.Dimensions, p.Dimensions)
	setIfPresent(&d.ServiceType, p.ServiceType)
	setIfPresent(&d.DeliveryNote, p.DeliveryNote)
	setIfPresent(&d.PaymentType, p.PaymentType)
	setIfPresent(&d.ShippingCost, p.ShippingCost)
	setIfPresent(&d.HasCOD, p.HasCOD)
	setIfPresent(&d.CODAmount, p.CODAmount)
	setIfPresent(&d.ImagePath, p.ImagePath)
}

// IsEmpty reports whether the patch would change nothing.
func (p OrderPatch) IsEmpty() bool {
	return p == OrderPatch{}
}

// FullOrderPatch returns a patch that sets every editable field to d.
func FullOrderPatch(d OrderData) OrderPatch {
	return OrderPatch{
		TrackingCode: &d.TrackingCode,
		OrderType:    &d.OrderType,
		Sender:       fullContactPatch(d.Sender),
		Receiver:     fullContactPatch(d.Receiver),
		ItemName:     &d.ItemName,
		ItemType:     &d.ItemType,
		PackageCount: &d.PackageCount,
		Weight:       &d.Weight,
		Dimensions:   &d.Dimensions,
		ServiceType:  &d.ServiceType,
		DeliveryNote: &d.DeliveryNote,
		PaymentType:  &d.PaymentType,
		ShippingCost: &d.ShippingCost,
		HasCOD:       &d.HasCOD,
		CODAmount:    &d.CODAmount,
		ImagePath:    &d.ImagePath,
	}
}

func fullContactPatch(c Contact) *ContactPatch {
	return &ContactPatch{
		Name:     &c.Name,
		Phone:    &c.Phone,
		Email:    &c.Email,
		Address:  &c.Address,
		Province: &c.Province,
		Ward:     &c.Ward,
	}
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
