package domain

import "time"

// ProfitValidation cross-checks the gross profit reported in the files
// against the figure recomputed from its cost components.
type ProfitValidation struct {
	Calculated float64 `json:"calculated"`
	FromFile   float64 `json:"from_file"`
	Matches    bool    `json:"matches"`
}

// Metrics is an immutable KPI snapshot over the full record set. It is
// recomputed wholesale whenever the record set changes.
type Metrics struct {
	TotalTPV          float64          `json:"total_tpv"`
	TotalNetRevenue   float64          `json:"total_net_revenue"`
	TotalGrossProfit  float64          `json:"total_gross_profit"`
	BlendedTakeRate   float64          `json:"blended_take_rate"`
	BlendedGPM        float64          `json:"blended_gpm"`
	TotalTransactions float64          `json:"total_transactions"`
	AverageTicketSize float64          `json:"average_ticket_size"`
	ProfitValidation  ProfitValidation `json:"gross_profit_validation"`
}

// MonthlyAggregation is one YYYY-MM bucket of the monthly rollup.
type MonthlyAggregation struct {
	Month       string  `json:"month"`
	TPV         float64 `json:"tpv"`
	NetRevenue  float64 `json:"net_revenue"`
	GrossProfit float64 `json:"gross_profit"`
}

// EntityPerformance is one row of an entity ranking (merchant, channel,
// or combined), ordered by TPV descending.
type EntityPerformance struct {
	Name       string  `json:"name"`
	TPV        float64 `json:"tpv"`
	NetRevenue float64 `json:"net_revenue"`
}

// DistributionEntry is one slice of a categorical TPV distribution.
type DistributionEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DateRange is the min/max of all resolvable record dates. Valid is false
// when no record carried a resolvable date.
type DateRange struct {
	Min   time.Time `json:"min"`
	Max   time.Time `json:"max"`
	Valid bool      `json:"valid"`
}
