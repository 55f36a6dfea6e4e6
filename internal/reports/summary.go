package reports

// DashboardSummary is the precomputed payload behind the dashboard endpoint.
type DashboardSummary struct {
	Window        Window   `json:"window"`
	Revenue       []Bucket `json:"revenue"`
	TotalRevenue  float64  `json:"totalRevenue"`
	OrderCount    int      `json:"orderCount"`
	TotalIn       float64  `json:"totalIn"`
	TotalOut      float64  `json:"totalOut"`
	LowStockCount int      `json:"lowStockCount"`
}
