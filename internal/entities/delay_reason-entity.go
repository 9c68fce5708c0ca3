package entities

// DelayReason is a catalog entry describing one cause of delay. Many orders
// may reference the same reason.
type DelayReason struct {
	ID         int64  `json:"id"`
	ReasonText string `json:"reason_text"`
	CategoryID int64  `json:"category_id"`
}

// DelayReasonCategory is the coarse classification of delay reasons.
type DelayReasonCategory struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// Fixed category code -> display label table. Initialized once, never
// mutated (resolving happens via CategoryDisplay).
var categoryLabels = map[string]string{
	"mechanical": "Mechanical Issues",
	"logistics":  "Logistics & Transport",
	"parts":      "Parts Availability",
	"staffing":   "Staffing Shortage",
	"customer":   "Customer Related",
	"external":   "External Factors",
	"other":      "Other",
}

// CategoryDisplay maps a category code to its human-readable label. Unknown
// codes pass through unchanged rather than erroring.
func CategoryDisplay(code string) string {
	if label, ok := categoryLabels[code]; ok {
		return label
	}
	return code
}
