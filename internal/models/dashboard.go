package models

// CarCounts holds inventory totals broken down by status
type CarCounts struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Sold        int `json:"sold"`
	Featured    int `json:"featured"`
}

// TestDriveCounts holds booking totals broken down by status
type TestDriveCounts struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Confirmed      int     `json:"confirmed"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	NoShow         int     `json:"no_show"`
	ConversionRate float64 `json:"conversion_rate"`
}

// PopularSearch is a frequently used search term with its usage count
type PopularSearch struct {
	SearchTerm  string `json:"search_term" db:"search_term"`
	SearchCount int    `json:"search_count" db:"search_count"`
}

// DashboardData is the admin dashboard aggregation, recomputed from the
// store snapshot on every call
type DashboardData struct {
	Cars            CarCounts       `json:"cars"`
	TestDrives      TestDriveCounts `json:"test_drives"`
	PopularSearches []PopularSearch `json:"popular_searches"`
}
