package services

import (
	"errors"
	"fmt"

	"logistics/internal/history"
	"logistics/internal/models"

	"github.com/rs/zerolog"
)

// HistoryState is what an undo/redo control needs to render itself.
type HistoryState struct {
	CanUndo         bool   `json:"can_undo"`
	CanRedo         bool   `json:"can_redo"`
	UndoDescription string `json:"undo_description"`
	RedoDescription string `json:"redo_description"`
}

// UndoService performs the undoable edits, records them in the action
// history, and reverses or re-applies them on request.
type UndoService interface {
	CreateOrder(data models.OrderData, actor string) (*models.Order, error)
	UpdateOrder(id uint, patch models.OrderPatch) (*models.Order, error)
	UpdateOrderStatus(id uint, status models.OrderStatus, actor, note string) (*models.Order, error)
	DeleteOrder(id uint) error

	CreateWarehouse(data models.WarehouseData) (*models.Warehouse, error)
	UpdateWarehouse(id uint, patch models.WarehousePatch) (*models.Warehouse, error)
	DeleteWarehouse(id uint) error

	CreateRoute(data models.RouteData) (*models.Route, error)
	UpdateRoute(id uint, patch models.RoutePatch) (*models.Route, error)
	DeleteRoute(id uint) error

	Undo(actor string) (*history.Action, error)
	Redo(actor string) (*history.Action, error)
	State() HistoryState
	Clear()
}

type undoService struct {
	history    *history.Manager
	orders     OrderService
	warehouses WarehouseService
	routes     RouteService
	logger     zerolog.Logger
}

func NewUndoService(manager *history.Manager, orders OrderService, warehouses WarehouseService, routes RouteService, logger zerolog.Logger) UndoService {
	return &undoService{
		history:    manager,
		orders:     orders,
		warehouses: warehouses,
		routes:     routes,
		logger:     logger.With().Str("component", "undo").Logger(),
	}
}

func (s *undoService) CreateOrder(data models.OrderData, actor string) (*models.Order, error) {
	order, err := s.orders.CreateOrder(data, actor)
	if err != nil {
		return nil, err
	}
	s.record(history.NewCreate(order.ID, history.OrderSnapshot{Data: order.OrderData}))
	return order, nil
}

func (s *undoService) UpdateOrder(id uint, patch models.OrderPatch) (*models.Order, error) {
	before, err := s.orders.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	after, err := s.orders.UpdateOrder(id, patch)
	if err != nil {
		return nil, err
	}
	s.record(history.NewUpdate(id, history.OrderSnapshot{Data: before.OrderData}, history.OrderSnapshot{Data: after.OrderData}))
	return after, nil
}

func (s *undoService) UpdateOrderStatus(id uint, status models.OrderStatus, actor, note string) (*models.Order, error) {
	before, err := s.orders.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	after, err := s.orders.UpdateOrderStatus(id, status, actor, note)
	if err != nil {
		return nil, err
	}
	if before.Status != after.Status {
		s.record(history.NewStatusChange(id, before.Status, after.Status))
	}
	return after, nil
}

func (s *undoService) DeleteOrder(id uint) error {
	before, err := s.orders.GetOrderByID(id)
	if err != nil {
		return err
	}
	if err := s.orders.DeleteOrder(id); err != nil {
		return err
	}
	s.record(history.NewDelete(id, history.OrderSnapshot{Data: before.OrderData}))
	return nil
}

func (s *undoService) CreateWarehouse(data models.WarehouseData) (*models.Warehouse, error) {
	warehouse, err := s.warehouses.CreateWarehouse(data)
	if err != nil {
		return nil, err
	}
	s.record(history.NewCreate(warehouse.ID, history.WarehouseSnapshot{Data: warehouse.WarehouseData}))
	return warehouse, nil
}

func (s *undoService) UpdateWarehouse(id uint, patch models.WarehousePatch) (*models.Warehouse, error) {
	before, err := s.warehouses.GetWarehouseByID(id)
	if err != nil {
		return nil, err
	}
	after, err := s.warehouses.UpdateWarehouse(id, patch)
	if err != nil {
		return nil, err
	}
	s.record(history.NewUpdate(id, history.WarehouseSnapshot{Data: before.WarehouseData}, history.WarehouseSnapshot{Data: after.WarehouseData}))
	return after, nil
}

func (s *undoService) DeleteWarehouse(id uint) error {
	before, err := s.warehouses.GetWarehouseByID(id)
	if err != nil {
		return err
	}
	if err := s.warehouses.DeleteWarehouse(id); err != nil {
		return err
	}
	s.record(history.NewDelete(id, history.WarehouseSnapshot{Data: before.WarehouseData}))
	return nil
}

func (s *undoService) CreateRoute(data models.RouteData) (*models.Route, error) {
	route, err := s.routes.CreateRoute(data)
	if err != nil {
		return nil, err
	}
	s.record(history.NewCreate(route.ID, history.RouteSnapshot{Data: route.RouteData}))
	return route, nil
}

func (s *undoService) UpdateRoute(id uint, patch models.RoutePatch) (*models.Route, error) {
	before, err := s.routes.GetRouteByID(id)
	if err != nil {
		return nil, err
	}
	after, err := s.routes.UpdateRoute(id, patch)
	if err != nil {
		return nil, err
	}
	s.record(history.NewUpdate(id, history.RouteSnapshot{Data: before.RouteData}, history.RouteSnapshot{Data: after.RouteData}))
	return after, nil
}

func (s *undoService) DeleteRoute(id uint) error {
	before, err := s.routes.GetRouteByID(id)
	if err != nil {
		return err
	}
	if err := s.routes.DeleteRoute(id); err != nil {
		return err
	}
	s.record(history.NewDelete(id, history.RouteSnapshot{Data: before.RouteData}))
	return nil
}

// Undo reverses the most recent edit. A failed reversal leaves the action
// on the undo stack so it can be retried.
func (s *undoService) Undo(actor string) (*history.Action, error) {
	var previousID uint
	action, err := s.history.ApplyUndo(func(a *history.Action) error {
		previousID = a.EntityID
		return s.revert(a, actor)
	})
	return s.finish("undo", action, previousID, err)
}

// Redo re-applies the most recently undone edit.
func (s *undoService) Redo(actor string) (*history.Action, error) {
	var previousID uint
	action, err := s.history.ApplyRedo(func(a *history.Action) error {
		previousID = a.EntityID
		return s.reapply(a, actor)
	})
	return s.finish("redo", action, previousID, err)
}

func (s *undoService) State() HistoryState {
	return HistoryState{
		CanUndo:         s.history.CanUndo(),
		CanRedo:         s.history.CanRedo(),
		UndoDescription: s.history.UndoDescription(),
		RedoDescription: s.history.RedoDescription(),
	}
}

func (s *undoService) Clear() {
	s.history.Clear()
}

func (s *undoService) record(action *history.Action, err error) {
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build history action")
		return
	}
	s.history.Record(action)
}

// finish logs the outcome and, when the inversion re-created the entity,
// moves the rest of the history onto its new id.
func (s *undoService) finish(op string, action *history.Action, previousID uint, err error) (*history.Action, error) {
	if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("op", op).
			Str("action", string(action.Type)).
			Str("entity", string(action.Entity)).
			Uint("entity_id", action.EntityID).
			Msg("history inversion failed")
		return nil, fmt.Errorf("%s %s failed: %w", op, action.Describe(), err)
	}

	if action.EntityID != previousID {
		s.history.Remap(action.Entity, previousID, action.EntityID)
	}

	s.logger.Info().
		Str("op", op).
		Str("action", string(action.Type)).
		Str("entity", string(action.Entity)).
		Uint("entity_id", action.EntityID).
		Msg("history inversion applied")
	applied := *action
	return &applied, nil
}

func (s *undoService) revert(a *history.Action, actor string) error {
	switch a.Type {
	case history.ActionCreate:
		return s.remove(a.Entity, a.EntityID)
	case history.ActionDelete:
		id, err := s.restore(a.Old, actor)
		if err != nil {
			return err
		}
		a.EntityID = id
		return nil
	case history.ActionUpdate:
		return s.overwrite(a.EntityID, a.Old)
	case history.ActionStatusChange:
		return s.setStatus(a.EntityID, a.Old, actor, "Undo status change")
	}
	return fmt.Errorf("unsupported action type %q", a.Type)
}

func (s *undoService) reapply(a *history.Action, actor string) error {
	switch a.Type {
	case history.ActionCreate:
		id, err := s.restore(a.New, actor)
		if err != nil {
			return err
		}
		a.EntityID = id
		return nil
	case history.ActionDelete:
		return s.remove(a.Entity, a.EntityID)
	case history.ActionUpdate:
		return s.overwrite(a.EntityID, a.New)
	case history.ActionStatusChange:
		return s.setStatus(a.EntityID, a.New, actor, "Redo status change")
	}
	return fmt.Errorf("unsupported action type %q", a.Type)
}

func (s *undoService) remove(entity history.EntityType, id uint) error {
	switch entity {
	case history.EntityOrder:
		return s.orders.DeleteOrder(id)
	case history.EntityWarehouse:
		return s.warehouses.DeleteWarehouse(id)
	case history.EntityRoute:
		return s.routes.DeleteRoute(id)
	}
	return fmt.Errorf("unsupported entity %q", entity)
}

// restore re-creates an entity from a snapshot and returns its new id.
func (s *undoService) restore(snapshot history.Snapshot, actor string) (uint, error) {
	switch snap := snapshot.(type) {
	case history.OrderSnapshot:
		order, err := s.orders.CreateOrder(snap.Data, actor)
		if err != nil {
			return 0, err
		}
		return order.ID, nil
	case history.WarehouseSnapshot:
		warehouse, err := s.warehouses.CreateWarehouse(snap.Data)
		if err != nil {
			return 0, err
		}
		return warehouse.ID, nil
	case history.RouteSnapshot:
		route, err := s.routes.CreateRoute(snap.Data)
		if err != nil {
			return 0, err
		}
		return route.ID, nil
	}
	return 0, fmt.Errorf("cannot restore from %T", snapshot)
}

func (s *undoService) overwrite(id uint, snapshot history.Snapshot) error {
	var err error
	switch snap := snapshot.(type) {
	case history.OrderSnapshot:
		_, err = s.orders.UpdateOrder(id, models.FullOrderPatch(snap.Data))
	case history.WarehouseSnapshot:
		_, err = s.warehouses.UpdateWarehouse(id, models.FullWarehousePatch(snap.Data))
	case history.RouteSnapshot:
		_, err = s.routes.UpdateRoute(id, models.FullRoutePatch(snap.Data))
	default:
		err = fmt.Errorf("cannot overwrite from %T", snapshot)
	}
	return err
}

func (s *undoService) setStatus(id uint, snapshot history.Snapshot, actor, note string) error {
	snap, ok := snapshot.(history.StatusSnapshot)
	if !ok {
		return fmt.Errorf("status change needs a status snapshot, got %T", snapshot)
	}
	_, err := s.orders.UpdateOrderStatus(id, snap.Status, actor, note)
	return err
}
