package dto

// JSON payload shapes for the analytics endpoints. Every response carries a
// top-level "success" flag; the rest is metric-specific.

type SummaryStatsDTO struct {
	TotalDelayedOrders     int64   `json:"total_delayed"`
	TotalAllOrders         int64   `json:"total_all"`
	DelayPercentage        float64 `json:"delay_percentage"`
	Exceeded9hCount        int64   `json:"exceeded_9h_count"`
	AverageCompletionHours float64 `json:"average_completion_hours"`
}

type ReasonItemDTO struct {
	ReasonText    string  `json:"reason_text"`
	CategoryCode  string  `json:"category_code"`
	CategoryLabel string  `json:"category_label"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type SummaryResponseDTO struct {
	Success    bool            `json:"success"`
	Summary    SummaryStatsDTO `json:"summary"`
	TopReasons []ReasonItemDTO `json:"top_reasons"`
}

type CategoryBreakdownItemDTO struct {
	CategoryCode  string  `json:"category_code"`
	CategoryLabel string  `json:"category_label"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type CategoryBreakdownResponseDTO struct {
	Success bool                       `json:"success"`
	Data    []CategoryBreakdownItemDTO `json:"data"`
	Total   int64                      `json:"total"`
}

type TrendPointDTO struct {
	Date               string  `json:"date"`
	DelayedCount       int64   `json:"delayed_count"`
	Exceeded9hCount    int64   `json:"exceeded_9h_count"`
	TotalOrdersThatDay int64   `json:"total_orders_that_day"`
	DelayRate          float64 `json:"delay_rate"`
}

type TrendsResponseDTO struct {
	Success bool            `json:"success"`
	Data    []TrendPointDTO `json:"data"`
}

type OrderTypeItemDTO struct {
	TypeCode   string  `json:"type_code"`
	TypeLabel  string  `json:"type_label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type OrderTypeResponseDTO struct {
	Success bool               `json:"success"`
	Data    []OrderTypeItemDTO `json:"data"`
}

type ReporterItemDTO struct {
	UserID          int64  `json:"user_id"`
	DisplayName     string `json:"display_name"`
	DelayCount      int64  `json:"delay_count"`
	Exceeded9hCount int64  `json:"exceeded_9h_count"`
}

type ReporterResponseDTO struct {
	Success bool              `json:"success"`
	Data    []ReporterItemDTO `json:"data"`
}

type ImpactStatsDTO struct {
	TotalDelayedHours            float64 `json:"total_delayed_hours"`
	EstimatedRevenueImpact       string  `json:"estimated_revenue_impact"`
	CustomersWithRepeatDelays    int64   `json:"customers_with_repeat_delays"`
	TotalUniqueCustomersAffected int64   `json:"total_unique_customers_affected"`
}

type ReasonImpactItemDTO struct {
	ReasonText            string `json:"reason_text"`
	CategoryCode          string `json:"category_code"`
	CategoryLabel         string `json:"category_label"`
	Count                 int64  `json:"count"`
	AffectedCustomerCount int64  `json:"affected_customer_count"`
}

type ImpactResponseDTO struct {
	Success      bool                  `json:"success"`
	Impact       ImpactStatsDTO        `json:"impact"`
	ReasonImpact []ReasonImpactItemDTO `json:"reason_impact"`
}

type RecommendationDTO struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

type RecommendationsResponseDTO struct {
	Success         bool                `json:"success"`
	Recommendations []RecommendationDTO `json:"recommendations"`
}

type DelayReasonItemDTO struct {
	ID            int64   `json:"id"`
	ReasonText    string  `json:"reason_text"`
	CategoryCode  string  `json:"category_code"`
	CategoryLabel string  `json:"category_label"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type DelayReasonsResponseDTO struct {
	Success bool                 `json:"success"`
	Data    []DelayReasonItemDTO `json:"data"`
	Total   int64                `json:"total"`
	Message string               `json:"message"`
}

type OrderTypeChoiceDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type CategoryChoiceDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type ReporterChoiceDTO struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// DashboardDTO is the filter context plus headline numbers used to render
// the analytics dashboard shell.
type DashboardDTO struct {
	TimePeriod         string               `json:"time_period"`
	SelectedCategory   string               `json:"selected_category"`
	SelectedUser       string               `json:"selected_user"`
	SelectedOrderType  string               `json:"selected_order_type"`
	TotalDelayedOrders int64                `json:"total_delayed_orders"`
	DelayRate          float64              `json:"delay_rate"`
	Categories         []CategoryChoiceDTO  `json:"categories"`
	Users              []ReporterChoiceDTO  `json:"users"`
	OrderTypes         []OrderTypeChoiceDTO `json:"order_types"`
}

type DashboardResponseDTO struct {
	Success   bool         `json:"success"`
	Dashboard DashboardDTO `json:"dashboard"`
}
