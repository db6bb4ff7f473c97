package services

import (
	"bytes"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func (s *ServiceTestSuite) TestExportOrders() {
	report := NewReportService(s.orderRepo)

	var empty bytes.Buffer
	_, err := report.ExportOrders(&empty)
	require.ErrorIs(s.T(), err, ErrNoData)

	for _, code := range []string{"VN001", "VN002"} {
		_, err := s.orders.CreateOrder(s.orderData(code), "tester")
		require.NoError(s.T(), err)
	}

	var buf bytes.Buffer
	n, err := report.ExportOrders(&buf)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(s.T(), err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 3)
	require.Equal(s.T(), "Tracking Code", rows[0][1])
	require.Equal(s.T(), "Cost (VND)", rows[0][7])
	require.ElementsMatch(s.T(), []string{"VN001", "VN002"}, []string{rows[1][1], rows[2][1]})
	require.Equal(s.T(), "Trần Thị Bình", rows[1][3])
	require.Equal(s.T(), "0987654321", rows[1][4])
	require.Equal(s.T(), "30000", rows[1][7])
}
