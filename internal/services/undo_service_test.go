package services

import (
	"logistics/internal/history"
	"logistics/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func (s *ServiceTestSuite) TestUndoNothing() {
	_, err := s.undo.Undo("tester")
	require.ErrorIs(s.T(), err, history.ErrNothingToUndo)
	_, err = s.undo.Redo("tester")
	require.ErrorIs(s.T(), err, history.ErrNothingToRedo)

	state := s.undo.State()
	require.False(s.T(), state.CanUndo)
	require.Equal(s.T(), "Nothing to undo", state.UndoDescription)
}

func (s *ServiceTestSuite) TestUndoRedoCreateOrder() {
	order, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)
	require.True(s.T(), s.undo.State().CanUndo)

	action, err := s.undo.Undo("tester")
	require.NoError(s.T(), err)
	require.Equal(s.T(), history.ActionCreate, action.Type)
	_, err = s.orders.GetOrderByID(order.ID)
	require.ErrorIs(s.T(), err, ErrNotFound)

	action, err = s.undo.Redo("tester")
	require.NoError(s.T(), err)
	restored, err := s.orders.GetOrderByID(action.EntityID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "VN001", restored.TrackingCode)

	// the refreshed id lets a second undo find the re-created order
	_, err = s.undo.Undo("tester")
	require.NoError(s.T(), err)
	_, err = s.orders.GetOrderByID(action.EntityID)
	require.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ServiceTestSuite) TestUndoRedoUpdateOrder() {
	order, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)

	name := "Phạm Cường"
	cost := decimal.NewFromInt(55000)
	_, err = s.undo.UpdateOrder(order.ID, models.OrderPatch{
		Receiver:     &models.ContactPatch{Name: &name},
		ShippingCost: &cost,
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Undo update order #1", s.undo.State().UndoDescription)

	_, err = s.undo.Undo("tester")
	require.NoError(s.T(), err)
	reverted, err := s.orders.GetOrderByID(order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Trần Thị Bình", reverted.Receiver.Name)
	require.True(s.T(), decimal.NewFromInt(30000).Equal(reverted.ShippingCost))

	_, err = s.undo.Redo("tester")
	require.NoError(s.T(), err)
	redone, err := s.orders.GetOrderByID(order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Phạm Cường", redone.Receiver.Name)
	require.True(s.T(), cost.Equal(redone.ShippingCost))
}

func (s *ServiceTestSuite) TestUndoRedoStatusChange() {
	order, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)

	_, err = s.undo.UpdateOrderStatus(order.ID, models.StatusShipping, "tester", "")
	require.NoError(s.T(), err)

	_, err = s.undo.Undo("tester")
	require.NoError(s.T(), err)
	reverted, err := s.orders.GetOrderByID(order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), models.StatusNew, reverted.Status)

	_, err = s.undo.Redo("tester")
	require.NoError(s.T(), err)
	redone, err := s.orders.GetOrderByID(order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), models.StatusShipping, redone.Status)

	// create, change, undo, redo
	rows, err := s.orders.GetStatusHistory(order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 4)
}

func (s *ServiceTestSuite) TestUnchangedStatusIsNotRecorded() {
	order, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)

	_, err = s.undo.UpdateOrderStatus(order.ID, models.StatusNew, "tester", "")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, s.manager.UndoLen())
}

func (s *ServiceTestSuite) TestUndoDeleteRestoresOrder() {
	order, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)
	_, err = s.undo.UpdateOrderStatus(order.ID, models.StatusDelivered, "tester", "")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.undo.DeleteOrder(order.ID))

	action, err := s.undo.Undo("tester")
	require.NoError(s.T(), err)
	require.Equal(s.T(), history.ActionDelete, action.Type)

	restored, err := s.orders.GetOrderByID(action.EntityID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "VN001", restored.TrackingCode)
	require.Equal(s.T(), models.StatusDelivered, restored.Status)

	_, err = s.undo.Redo("tester")
	require.NoError(s.T(), err)
	_, err = s.orders.GetOrderByID(action.EntityID)
	require.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ServiceTestSuite) TestUndoRedoWarehouseAndRoute() {
	warehouse, err := s.undo.CreateWarehouse(models.WarehouseData{Name: "Kho Đà Nẵng", Capacity: 50})
	require.NoError(s.T(), err)
	capacity := 80
	_, err = s.undo.UpdateWarehouse(warehouse.ID, models.WarehousePatch{Capacity: &capacity})
	require.NoError(s.T(), err)

	route, err := s.undo.CreateRoute(s.routeData("Hà Nội", "Đà Nẵng"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.undo.DeleteRoute(route.ID))

	action, err := s.undo.Undo("tester")
	require.NoError(s.T(), err)
	_, err = s.routes.FindRoute("Hà Nội", "Đà Nẵng")
	require.NoError(s.T(), err)
	require.Equal(s.T(), history.EntityRoute, action.Entity)

	_, err = s.undo.Undo("tester") // route create
	require.NoError(s.T(), err)
	_, err = s.routes.FindRoute("Hà Nội", "Đà Nẵng")
	require.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.undo.Undo("tester") // warehouse update
	require.NoError(s.T(), err)
	reverted, err := s.warehouses.GetWarehouseByID(warehouse.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 50, reverted.Capacity)

	require.NoError(s.T(), s.undo.DeleteWarehouse(warehouse.ID))
	require.False(s.T(), s.undo.State().CanRedo)
	_, err = s.undo.Undo("tester")
	require.NoError(s.T(), err)
	all, err := s.warehouses.GetAllWarehouses()
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	require.Equal(s.T(), "Kho Đà Nẵng", all[0].Name)
}

func (s *ServiceTestSuite) TestFailedUndoKeepsAction() {
	route, err := s.undo.CreateRoute(s.routeData("Hà Nội", "Đà Nẵng"))
	require.NoError(s.T(), err)

	// removed behind the history's back
	require.NoError(s.T(), s.routes.DeleteRoute(route.ID))

	_, err = s.undo.Undo("tester")
	require.ErrorIs(s.T(), err, ErrNotFound)
	require.True(s.T(), s.undo.State().CanUndo)
	require.False(s.T(), s.undo.State().CanRedo)
	require.Equal(s.T(), "Undo create route #1", s.undo.State().UndoDescription)
}

func (s *ServiceTestSuite) TestFailedMutationIsNotRecorded() {
	_, err := s.undo.CreateOrder(models.OrderData{}, "tester")
	require.ErrorIs(s.T(), err, ErrValidation)
	require.ErrorIs(s.T(), s.undo.DeleteOrder(7), ErrNotFound)
	require.False(s.T(), s.undo.State().CanUndo)
}

func (s *ServiceTestSuite) TestClearEmptiesHistory() {
	_, err := s.undo.CreateOrder(s.orderData("VN001"), "tester")
	require.NoError(s.T(), err)
	s.undo.Clear()
	require.False(s.T(), s.undo.State().CanUndo)
}
