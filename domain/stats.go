package domain

// DashboardStats is the KPI block shown on the console landing view.
// Growth figures are percentages relative to the previous period.
type DashboardStats struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalDelivered int     `json:"totalDelivered"`
	TotalCancelled int     `json:"totalCancelled"`
	TotalRevenue   float64 `json:"totalRevenue"`
	OrderGrowth    float64 `json:"orderGrowth"`
	DeliveryGrowth float64 `json:"deliveryGrowth"`
	CancelGrowth   float64 `json:"cancelGrowth"`
	RevenueGrowth  float64 `json:"revenueGrowth"`
}
