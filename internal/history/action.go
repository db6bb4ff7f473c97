package history

import (
	"fmt"
	"time"

	"logistics/internal/models"
)

type ActionType string

const (
	ActionCreate       ActionType = "create"
	ActionUpdate       ActionType = "update"
	ActionDelete       ActionType = "delete"
	ActionStatusChange ActionType = "status_change"
)

type EntityType string

const (
	EntityOrder     EntityType = "order"
	EntityWarehouse EntityType = "warehouse"
	EntityRoute     EntityType = "route"
)

// Snapshot is the captured state of an entity before or after an edit.
// The set of implementations is closed.
type Snapshot interface {
	Entity() EntityType
	snapshot()
}

type OrderSnapshot struct {
	Data models.OrderData
}

func (OrderSnapshot) Entity() EntityType { return EntityOrder }
func (OrderSnapshot) snapshot()          {}

// StatusSnapshot carries only the status of an order.
type StatusSnapshot struct {
	Status models.OrderStatus
}

func (StatusSnapshot) Entity() EntityType { return EntityOrder }
func (StatusSnapshot) snapshot()          {}

type WarehouseSnapshot struct {
	Data models.WarehouseData
}

func (WarehouseSnapshot) Entity() EntityType { return EntityWarehouse }
func (WarehouseSnapshot) snapshot()          {}

type RouteSnapshot struct {
	Data models.RouteData
}

func (RouteSnapshot) Entity() EntityType { return EntityRoute }
func (RouteSnapshot) snapshot()          {}

// Action is one undoable edit. EntityID is refreshed when an undo or redo
// re-creates the entity under a new identity.
type Action struct {
	Type      ActionType
	Entity    EntityType
	EntityID  uint
	Old       Snapshot
	New       Snapshot
	Timestamp time.Time
}

// NewCreate records that an entity was created with the state in created.
func NewCreate(entityID uint, created Snapshot) (*Action, error) {
	if created == nil {
		return nil, fmt.Errorf("create action needs the created state")
	}
	if _, ok := created.(StatusSnapshot); ok {
		return nil, fmt.Errorf("create action needs a full snapshot")
	}
	return newAction(ActionCreate, created.Entity(), entityID, nil, created), nil
}

// NewUpdate records a field edit from old to updated.
func NewUpdate(entityID uint, old, updated Snapshot) (*Action, error) {
	if old == nil || updated == nil {
		return nil, fmt.Errorf("update action needs both old and new state")
	}
	if old.Entity() != updated.Entity() {
		return nil, fmt.Errorf("update action mixes %s and %s snapshots", old.Entity(), updated.Entity())
	}
	_, oldIsStatus := old.(StatusSnapshot)
	_, newIsStatus := updated.(StatusSnapshot)
	if oldIsStatus || newIsStatus {
		return nil, fmt.Errorf("update action needs full snapshots")
	}
	return newAction(ActionUpdate, old.Entity(), entityID, old, updated), nil
}

// NewDelete records that an entity with the state in deleted was removed.
func NewDelete(entityID uint, deleted Snapshot) (*Action, error) {
	if deleted == nil {
		return nil, fmt.Errorf("delete action needs the deleted state")
	}
	if _, ok := deleted.(StatusSnapshot); ok {
		return nil, fmt.Errorf("delete action needs a full snapshot")
	}
	return newAction(ActionDelete, deleted.Entity(), entityID, deleted, nil), nil
}

// NewStatusChange records an order moving from one status to another.
func NewStatusChange(orderID uint, from, to models.OrderStatus) (*Action, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("status change needs valid statuses, got %q → %q", from, to)
	}
	return newAction(ActionStatusChange, EntityOrder, orderID, StatusSnapshot{Status: from}, StatusSnapshot{Status: to}), nil
}

func newAction(t ActionType, entity EntityType, id uint, old, updated Snapshot) *Action {
	return &Action{
		Type:      t,
		Entity:    entity,
		EntityID:  id,
		Old:       old,
		New:       updated,
		Timestamp: time.Now(),
	}
}

// Describe renders the action for an undo/redo label, e.g. "delete order #12".
func (a *Action) Describe() string {
	action := string(a.Type)
	if a.Type == ActionStatusChange {
		action = "change status of"
	}
	return fmt.Sprintf("%s %s #%d", action, a.Entity, a.EntityID)
}
