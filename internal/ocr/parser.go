// Package ocr turns the raw text of a scanned shipping label into order
// fields. Parsing is best-effort and never fails: anything that cannot be
// recognised is left at its default for the user to fill in.
package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"logistics/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

type Section int

const (
	SectionSender Section = iota
	SectionReceiver
)

// OrderInfo is the pre-fill extracted from a label.
type OrderInfo struct {
	Sender       models.Contact  `json:"sender"`
	Receiver     models.Contact  `json:"receiver"`
	ItemName     string          `json:"item_name"`
	Weight       float64         `json:"weight"`
	PackageCount int             `json:"package_count"`
	Dimensions   string          `json:"dimensions"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	HasCOD       bool            `json:"has_cod"`
	CODAmount    decimal.Decimal `json:"cod_amount"`
	DeliveryNote string          `json:"delivery_note"`
}

func emptyInfo() OrderInfo {
	return OrderInfo{PackageCount: 1}
}

func (i *OrderInfo) contact(s Section) *models.Contact {
	if s == SectionReceiver {
		return &i.Receiver
	}
	return &i.Sender
}

// ToOrderData converts the extraction into order fields. The tracking code
// is left blank for the user.
func (i OrderInfo) ToOrderData() models.OrderData {
	return models.OrderData{
		Sender:       i.Sender,
		Receiver:     i.Receiver,
		ItemName:     i.ItemName,
		Weight:       i.Weight,
		PackageCount: i.PackageCount,
		Dimensions:   i.Dimensions,
		ShippingCost: i.ShippingCost,
		HasCOD:       i.HasCOD,
		CODAmount:    i.CODAmount,
		DeliveryNote: i.DeliveryNote,
	}
}

// line is one label line as seen by an extractor.
type line struct {
	text  string
	lower string
	next  string
}

// extractor inspects one line in the current section and fills at most the
// fields it owns. Fields already set are never overwritten.
type extractor func(l line, section Section, info *OrderInfo)

var extractors = []extractor{
	extractName,
	extractPhone,
	extractEmail,
	extractAddress,
	extractProvince,
	extractWard,
	extractItemName,
	extractWeight,
	extractPackageCount,
	extractShippingCost,
	extractCOD,
	extractDeliveryNote,
}

var (
	phoneLabel     = regexp.MustCompile(`sđt|sdt|đt|phone|điện thoại`)
	phoneCandidate = regexp.MustCompile(`[0-9][0-9.\-\s]{8,12}`)
	nonDigit       = regexp.MustCompile(`[^0-9]`)
	emailPattern   = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	wardPattern    = regexp.MustCompile(`(?i)(Phường|Xã|TT\.|Thị trấn)\s+[\p{L}\p{N}_\s]+`)
	numberPattern  = regexp.MustCompile(`[0-9.,]+`)
	integerPattern = regexp.MustCompile(`[0-9]+`)
	bareAmount     = regexp.MustCompile(`^[0-9.\s]+(vnđ|vnd)?$`)
	dimensions     = regexp.MustCompile(`(\d+)\s*[xX×]\s*(\d+)\s*[xX×]\s*(\d+)`)
)

// Parse extracts order fields from raw OCR text. Lines are scanned top to
// bottom with a section cursor that starts on the sender and flips whenever
// a "người nhận" or "người gửi" marker appears.
func Parse(raw string) OrderInfo {
	info := emptyInfo()
	text := norm.NFC.String(raw)
	if strings.TrimSpace(text) == "" {
		return info
	}

	rawLines := strings.Split(text, "\n")
	section := SectionSender
	for i, rawLine := range rawLines {
		l := line{text: strings.TrimRight(rawLine, "\r")}
		l.lower = strings.ToLower(l.text)
		if i+1 < len(rawLines) {
			l.next = strings.TrimSpace(rawLines[i+1])
		}

		section = switchSection(l.lower, section)
		for _, extract := range extractors {
			extract(l, section, &info)
		}
	}

	if m := dimensions.FindStringSubmatch(text); m != nil {
		info.Dimensions = fmt.Sprintf("%sx%sx%s cm", m[1], m[2], m[3])
	}
	return info
}

func switchSection(lower string, current Section) Section {
	switch {
	case strings.Contains(lower, "người nhận"):
		return SectionReceiver
	case strings.Contains(lower, "người gửi"):
		return SectionSender
	}
	return current
}

func setOnce(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// afterColon returns the trimmed text after the first ':' and whether a
// colon was present at all.
func afterColon(text string) (string, bool) {
	_, value, found := strings.Cut(text, ":")
	return strings.TrimSpace(value), found
}

func extractName(l line, _ Section, info *OrderInfo) {
	if !strings.Contains(l.lower, "người") {
		return
	}
	name, ok := afterColon(l.text)
	if !ok || utf8.RuneCountInString(name) <= 2 {
		return
	}
	switch {
	case strings.Contains(l.lower, "gửi"):
		setOnce(&info.Sender.Name, name)
	case strings.Contains(l.lower, "nhận"):
		setOnce(&info.Receiver.Name, name)
	}
}

func extractPhone(l line, section Section, info *OrderInfo) {
	if !phoneLabel.MatchString(l.lower) {
		return
	}
	for _, candidate := range phoneCandidate.FindAllString(l.text, -1) {
		digits := nonDigit.ReplaceAllString(candidate, "")
		if len(digits) < 10 || len(digits) > 11 {
			continue
		}
		if !strings.HasPrefix(digits, "0") {
			digits = "0" + digits
		}
		setOnce(&info.contact(section).Phone, digits)
		return
	}
}

func extractEmail(l line, section Section, info *OrderInfo) {
	setOnce(&info.contact(section).Email, emailPattern.FindString(l.text))
}

func extractAddress(l line, section Section, info *OrderInfo) {
	compact := strings.ReplaceAll(l.lower, " ", "")
	if !strings.Contains(l.lower, "địa ch") && !strings.Contains(compact, "dc:") && !strings.Contains(compact, "đc:") {
		return
	}
	address, ok := afterColon(l.text)
	if !ok || address == "" {
		return
	}
	switch {
	case strings.Contains(l.lower, "gửi"):
		setOnce(&info.Sender.Address, address)
	case strings.Contains(l.lower, "nhận"):
		setOnce(&info.Receiver.Address, address)
	default:
		setOnce(&info.contact(section).Address, address)
	}
}

func extractProvince(l line, section Section, info *OrderInfo) {
	setOnce(&info.contact(section).Province, FindProvince(l.text))
}

func extractWard(l line, section Section, info *OrderInfo) {
	setOnce(&info.contact(section).Ward, strings.TrimSpace(wardPattern.FindString(l.text)))
}

func extractItemName(l line, _ Section, info *OrderInfo) {
	if !strings.Contains(l.lower, "tên hàng") {
		return
	}
	if name, ok := afterColon(l.text); ok {
		setOnce(&info.ItemName, name)
	}
}

func extractWeight(l line, _ Section, info *OrderInfo) {
	if info.Weight != 0 || (!strings.Contains(l.lower, "trọng lượng") && !strings.Contains(l.lower, "khối lượng")) {
		return
	}
	for _, n := range numberPattern.FindAllString(l.text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", "."), 64)
		if err == nil && v < 1000 {
			info.Weight = v
			return
		}
	}
}

func extractPackageCount(l line, _ Section, info *OrderInfo) {
	if !strings.Contains(l.lower, "số kiện") {
		return
	}
	if n := integerPattern.FindString(l.text); n != "" {
		if count, err := strconv.Atoi(n); err == nil && count > 0 {
			info.PackageCount = count
		}
	}
}

func extractShippingCost(l line, _ Section, info *OrderInfo) {
	if !info.ShippingCost.IsZero() || (!strings.Contains(l.lower, "phí vận") && !strings.Contains(l.lower, "cước")) {
		return
	}
	if amount, ok := firstAmount(l.text); ok {
		info.ShippingCost = amount
	}
}

func extractCOD(l line, _ Section, info *OrderInfo) {
	if info.HasCOD || (!strings.Contains(l.lower, "thu hộ") && !strings.Contains(l.lower, "cod")) {
		return
	}
	if amount, ok := firstAmount(l.text); ok {
		info.CODAmount = amount
		info.HasCOD = true
	}
}

// firstAmount returns the first number above 1000 on the line, reading
// '.' and ',' as thousands separators.
func firstAmount(text string) (decimal.Decimal, bool) {
	for _, n := range numberPattern.FindAllString(text, -1) {
		digits := strings.NewReplacer(",", "", ".", "").Replace(n)
		if digits == "" {
			continue
		}
		v, err := decimal.NewFromString(digits)
		if err == nil && v.GreaterThan(decimal.NewFromInt(1000)) {
			return v, true
		}
	}
	return decimal.Decimal{}, false
}

func extractDeliveryNote(l line, _ Section, info *OrderInfo) {
	if info.DeliveryNote != "" || (!strings.Contains(l.lower, "ghi chú") && !strings.Contains(l.lower, "lưu ý")) {
		return
	}
	note, _ := afterColon(l.text)
	if l.next != "" && !strings.Contains(l.next, ":") && !bareAmount.MatchString(strings.ToLower(l.next)) {
		note = strings.TrimSpace(note + " " + l.next)
	}
	if utf8.RuneCountInString(note) > 3 {
		info.DeliveryNote = note
	}
}
