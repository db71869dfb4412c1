package domain

// SourceType identifies which kind of worksheet a record originated from.
// CSV files and worksheets whose name matches neither category are tagged
// SourceUnknown; their rows still participate in every aggregate.
type SourceType string

const (
	SourceMerchant SourceType = "merchant"
	SourceChannel  SourceType = "channel"
	SourceUnknown  SourceType = "unknown"
)

// Record is a single reconciled reporting row after header normalization
// and currency conversion. The numeric fields are always finite; inputs
// that were missing or unparsable normalize to zero. Records are never
// mutated after consolidation.
type Record struct {
	TPV              float64 `json:"tpv"`
	NetRevenue       float64 `json:"netRevenue"`
	DirectCost       float64 `json:"directCost"`
	SchemeFees       float64 `json:"schemeFees"`
	MRACost          float64 `json:"mraCost"`
	GrossProfit      float64 `json:"grossProfit"`
	TransactionCount float64 `json:"transactionCount"`

	// Month and Date hold the raw cell text (a date string or a
	// spreadsheet serial); resolution happens at aggregation time.
	Month    string `json:"month,omitempty"`
	Date     string `json:"date,omitempty"`
	Company  string `json:"company,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Currency string `json:"currency,omitempty"`
	Country  string `json:"country,omitempty"`

	Source SourceType `json:"sourceType"`
	Sheet  string     `json:"sheet,omitempty"`

	// Extra carries columns the normalizer did not recognize, keyed by
	// their original header.
	Extra map[string]string `json:"extra,omitempty"`
}
