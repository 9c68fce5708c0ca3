package dto

// AnalyticsFilterDTO carries the raw, loosely-typed request parameters.
// Defaulting and coercion rules live in the service layer; values are never
// validator-rejected (an unknown filter value means "no match", an unknown
// period falls back to the default window).
type AnalyticsFilterDTO struct {
	Period    string `query:"period"`
	Category  string `query:"category"`
	User      string `query:"user"`
	OrderType string `query:"order_type"`
}
