package ocr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

const sampleLabel = "PHIẾU GỬI HÀNG\r\n" +
	"Người gửi: Nguyễn Văn An\r\n" +
	"SĐT: 0912.345.678\r\n" +
	"Email: an.nguyen@example.com\r\n" +
	"Địa chỉ gửi: 12 Lê Lợi, Phường Bến Nghé, TP. Hồ Chí Minh\r\n" +
	"Người nhận: Trần Thị Bình\r\n" +
	"Điện thoại: 0987 654 321\r\n" +
	"Địa chỉ: 45 Trần Phú, Phường Hải Châu, Đà Nẵng\r\n" +
	"Tên hàng: Áo thun\r\n" +
	"Trọng lượng: 2,5 kg\r\n" +
	"Số kiện: 3\r\n" +
	"Kích thước: 30x20x10\r\n" +
	"Phí vận chuyển: 35.000 VNĐ\r\n" +
	"Thu hộ (COD): 450.000đ\r\n" +
	"Ghi chú: Gọi trước khi giao\r\n" +
	"hàng dễ vỡ\r\n"

func TestParseFullLabel(t *testing.T) {
	info := Parse(sampleLabel)

	assert.Equal(t, "Nguyễn Văn An", info.Sender.Name)
	assert.Equal(t, "0912345678", info.Sender.Phone)
	assert.Equal(t, "an.nguyen@example.com", info.Sender.Email)
	assert.Equal(t, "12 Lê Lợi, Phường Bến Nghé, TP. Hồ Chí Minh", info.Sender.Address)
	assert.Equal(t, "TP. Hồ Chí Minh", info.Sender.Province)
	assert.Equal(t, "Phường Bến Nghé", info.Sender.Ward)

	assert.Equal(t, "Trần Thị Bình", info.Receiver.Name)
	assert.Equal(t, "0987654321", info.Receiver.Phone)
	assert.Equal(t, "45 Trần Phú, Phường Hải Châu, Đà Nẵng", info.Receiver.Address)
	assert.Equal(t, "Đà Nẵng", info.Receiver.Province)
	assert.Equal(t, "Phường Hải Châu", info.Receiver.Ward)
	assert.Empty(t, info.Receiver.Email)

	assert.Equal(t, "Áo thun", info.ItemName)
	assert.Equal(t, 2.5, info.Weight)
	assert.Equal(t, 3, info.PackageCount)
	assert.Equal(t, "30x20x10 cm", info.Dimensions)
	assert.True(t, decimal.NewFromInt(35000).Equal(info.ShippingCost))
	assert.True(t, info.HasCOD)
	assert.True(t, decimal.NewFromInt(450000).Equal(info.CODAmount))
	assert.Equal(t, "Gọi trước khi giao hàng dễ vỡ", info.DeliveryNote)
}

func TestParseDecomposedTextIsNormalised(t *testing.T) {
	info := Parse(norm.NFD.String(sampleLabel))

	assert.Equal(t, "Nguyễn Văn An", info.Sender.Name)
	assert.Equal(t, "Trần Thị Bình", info.Receiver.Name)
	assert.Equal(t, "Đà Nẵng", info.Receiver.Province)
}

func TestParseEmptyText(t *testing.T) {
	for _, raw := range []string{"", "   \n\n"} {
		info := Parse(raw)
		assert.Equal(t, emptyInfo(), info)
		assert.Equal(t, 1, info.PackageCount)
		assert.False(t, info.HasCOD)
		assert.Zero(t, info.Weight)
	}
}

func TestPhoneRules(t *testing.T) {
	info := Parse("SĐT: 912 345 6789")
	assert.Equal(t, "09123456789", info.Sender.Phone)

	info = Parse("Phone: 12345")
	assert.Empty(t, info.Sender.Phone)

	// first match wins within a section
	info = Parse("SĐT: 0911111111\nSĐT: 0922222222")
	assert.Equal(t, "0911111111", info.Sender.Phone)

	// numbers without a phone label are ignored
	info = Parse("Mã vận đơn 0933333333")
	assert.Empty(t, info.Sender.Phone)
}

func TestAddressRoleWordBeatsSection(t *testing.T) {
	text := "Người gửi: Lê Văn Cường\n" +
		"Địa chỉ nhận: 9 Hùng Vương, Huế\n" +
		"ĐC: 3 Bà Triệu"
	info := Parse(text)

	assert.Equal(t, "9 Hùng Vương, Huế", info.Receiver.Address)
	assert.Equal(t, "3 Bà Triệu", info.Sender.Address)
}

func TestAddressFirstMatchPerSection(t *testing.T) {
	info := Parse("Địa chỉ: 1 Nguyễn Trãi\nĐịa chỉ: 2 Lý Thường Kiệt")
	assert.Equal(t, "1 Nguyễn Trãi", info.Sender.Address)
	assert.Empty(t, info.Receiver.Address)
}

func TestNameNeedsMoreThanTwoCharacters(t *testing.T) {
	info := Parse("Người gửi: An\nNgười nhận")
	assert.Empty(t, info.Sender.Name)
	assert.Empty(t, info.Receiver.Name)
}

func TestWeightAndAmountThresholds(t *testing.T) {
	info := Parse("Khối lượng: 1500 g, 1,5 kg\nCước: 500 + 25.000\nTiền thu hộ: 800")
	assert.Equal(t, 1.5, info.Weight)
	assert.True(t, decimal.NewFromInt(25000).Equal(info.ShippingCost))
	assert.False(t, info.HasCOD)
	assert.True(t, info.CODAmount.IsZero())
}

func TestDeliveryNoteContinuation(t *testing.T) {
	info := Parse("Ghi chú: Giao giờ hành chính\n50.000 VNĐ")
	assert.Equal(t, "Giao giờ hành chính", info.DeliveryNote)

	info = Parse("Lưu ý: ok\nPhí: 1")
	assert.Empty(t, info.DeliveryNote)

	info = Parse("Ghi chú:\nđể ở bảo vệ")
	assert.Equal(t, "để ở bảo vệ", info.DeliveryNote)
}

func TestWardPatterns(t *testing.T) {
	assert.Equal(t, "Xã Tân Phú", Parse("Địa chỉ: Xã Tân Phú, Đồng Nai").Sender.Ward)
	assert.Equal(t, "Thị trấn Sa Pa", Parse("thôn 3, Thị trấn Sa Pa, Lào Cai").Sender.Ward)
	assert.Equal(t, "Lào Cai", Parse("thôn 3, Thị trấn Sa Pa, Lào Cai").Sender.Province)
}

func TestFindProvince(t *testing.T) {
	cases := map[string]string{
		"45 Trần Phú, Đà Nẵng":  "Đà Nẵng",
		"Hải Châu, Đà  Nẵng":    "Đà Nẵng",
		"Q1, Sài Gòn":           "TP. Hồ Chí Minh",
		"Quận 3, HCM":           "TP. Hồ Chí Minh",
		"Cầu Giấy, HN":          "Hà Nội",
		"Ninh Kiều, Cần Thơ":    "Cần Thơ",
		"Springfield, Illinois": "",
		"Chuyển hàng nhanh":     "",
	}
	for text, want := range cases {
		assert.Equal(t, want, FindProvince(text), text)
	}
}

func TestToOrderData(t *testing.T) {
	data := Parse(sampleLabel).ToOrderData()

	require.Empty(t, data.TrackingCode)
	assert.Equal(t, "Nguyễn Văn An", data.Sender.Name)
	assert.Equal(t, "Đà Nẵng", data.Receiver.Province)
	assert.Equal(t, 3, data.PackageCount)
	assert.True(t, data.HasCOD)
}
