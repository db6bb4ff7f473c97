package services

import (
	"fmt"
	"io"

	"logistics/internal/repository"

	"github.com/xuri/excelize/v2"
)

const ordersSheet = "Orders"

var orderExportHeader = []interface{}{
	"ID", "Tracking Code", "Sender", "Receiver", "Phone", "Address",
	"Weight (kg)", "Cost (VND)", "Status", "Created At",
}

type ReportService interface {
	ExportOrders(w io.Writer) (int, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// ExportOrders writes every order to an xlsx workbook and returns the
// number of rows written.
func (s *reportService) ExportOrders(w io.Writer) (int, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) == 0 {
		return 0, fmt.Errorf("%w: no orders to export", ErrNoData)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(ordersSheet, "A1", &orderExportHeader); err != nil {
		return 0, err
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{
			o.ID,
			o.TrackingCode,
			o.Sender.Name,
			o.Receiver.Name,
			o.Receiver.Phone,
			o.Receiver.Address,
			o.Weight,
			o.ShippingCost.InexactFloat64(),
			o.Status.Label(),
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return 0, err
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(orders), nil
}
