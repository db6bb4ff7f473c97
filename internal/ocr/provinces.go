package ocr

import (
	"regexp"
	"strings"
)

// Provinces is the province list recognised on shipping labels.
var Provinces = []string{
	"Hà Nội", "TP. Hồ Chí Minh", "Hải Phòng", "Đà Nẵng", "Cần Thơ", "Huế",
	"Cao Bằng", "Điện Biên", "Lai Châu", "Sơn La", "Lạng Sơn", "Quảng Ninh",
	"Thanh Hóa", "Nghệ An", "Hà Tĩnh", "Tuyên Quang", "Lào Cai", "Thái Nguyên",
	"Phú Thọ", "Bắc Ninh", "Hưng Yên", "Ninh Bình", "Quảng Trị", "Quảng Ngãi",
	"Gia Lai", "Khánh Hòa", "Lâm Đồng", "Đắk Lắk", "Đồng Nai", "Tây Ninh",
	"Vĩnh Long", "Đồng Tháp", "Cà Mau", "An Giang",
}

var hanoiAbbrev = regexp.MustCompile(`\bhn\b`)

// FindProvince returns the first province named in text, or "".
// Misspellings of the largest cities that OCR commonly produces are mapped
// back to their canonical names.
func FindProvince(text string) string {
	lower := strings.ToLower(text)
	for _, province := range Provinces {
		if strings.Contains(lower, strings.ToLower(province)) {
			return province
		}
	}

	switch {
	case strings.Contains(lower, "nẵng") && strings.Contains(lower, "đà"):
		return "Đà Nẵng"
	case strings.Contains(lower, "chí minh"), strings.Contains(lower, "hcm"), strings.Contains(lower, "sài gòn"):
		return "TP. Hồ Chí Minh"
	case strings.Contains(lower, "hà nội"), hanoiAbbrev.MatchString(lower):
		return "Hà Nội"
	}
	return ""
}
