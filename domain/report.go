package domain

// SalesReport aggregates sales performance for a date range.
type SalesReport struct {
	TotalOrders    int         `json:"totalOrders"`
	CustomerGrowth float64     `json:"customerGrowth"`
	TotalRevenue   float64     `json:"totalRevenue"`
	ProductsSold   int         `json:"productsSold"`
	TotalProfit    float64     `json:"totalProfit"`
	TotalClaims    int         `json:"totalClaims"`
	NewCustomers   int         `json:"newCustomers"`
	TopSalesReps   []SalesRep  `json:"topSalesReps"`
	ClaimsData     []ClaimData `json:"claimsData"`
}

// SalesRep is a ranked entry in the top-performers table.
type SalesRep struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Products int     `json:"products"`
	Premium  float64 `json:"premium"`
	Badge    string  `json:"badge"`
}

// ClaimData is one year of claim volume for the claims chart.
type ClaimData struct {
	Year      int `json:"year"`
	Approved  int `json:"approved"`
	Submitted int `json:"submitted"`
}

// ReportRange bounds a sales report query; empty fields mean unbounded.
type ReportRange struct {
	StartDate string
	EndDate   string
}
