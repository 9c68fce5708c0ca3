package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order type codes. Mirrors the order-management system's enum; this side is
// read-only.
const (
	OrderTypeService     = "service"
	OrderTypeSales       = "sales"
	OrderTypeInquiry     = "inquiry"
	OrderTypeLabour      = "labour"
	OrderTypeUnspecified = "unspecified"
	OrderTypeMixed       = "mixed"
)

var orderTypeLabels = map[string]string{
	OrderTypeService:     "Service",
	OrderTypeSales:       "Sales",
	OrderTypeInquiry:     "Inquiry",
	OrderTypeLabour:      "Labour",
	OrderTypeUnspecified: "Unspecified",
	OrderTypeMixed:       "Mixed",
}

// OrderTypeChoices returns the enumerated (code, label) pairs in a stable
// order, for filter dropdowns.
func OrderTypeChoices() [][2]string {
	return [][2]string{
		{OrderTypeService, orderTypeLabels[OrderTypeService]},
		{OrderTypeSales, orderTypeLabels[OrderTypeSales]},
		{OrderTypeInquiry, orderTypeLabels[OrderTypeInquiry]},
		{OrderTypeLabour, orderTypeLabels[OrderTypeLabour]},
		{OrderTypeUnspecified, orderTypeLabels[OrderTypeUnspecified]},
		{OrderTypeMixed, orderTypeLabels[OrderTypeMixed]},
	}
}

// OrderTypeDisplay maps an order type code to its label. Unknown codes pass
// through unchanged.
func OrderTypeDisplay(code string) string {
	if label, ok := orderTypeLabels[code]; ok {
		return label
	}
	return code
}

// Order as seen by the analytics subsystem. Owned by the external
// order-management system; never mutated here.
type Order struct {
	ID             int64     `json:"id"`
	BranchID       null.Int64 `json:"branch_id"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	CustomerID     null.Int64 `json:"customer_id"`
	StartedAt      null.Time `json:"started_at"`
	CompletedAt    null.Time `json:"completed_at"`
	CreatedAt      time.Time `json:"created_at"`
	Exceeded9Hours bool      `json:"exceeded_9_hours"`
	DelayReasonID  null.Int64 `json:"delay_reason_id"`
	DelayReportedBy null.Int64 `json:"delay_reported_by"`
	DelayReportedAt null.Time `json:"delay_reported_at"`
}

// CompletionHours returns the start-to-completion duration in hours and
// whether both timestamps were present.
func (o *Order) CompletionHours() (float64, bool) {
	if !o.StartedAt.Valid || !o.CompletedAt.Valid {
		return 0, false
	}
	return o.CompletedAt.Time.Sub(o.StartedAt.Time).Hours(), true
}
