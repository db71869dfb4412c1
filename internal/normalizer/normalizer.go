// Package normalizer reconciles the column names found in sales-reporting
// exports onto a canonical schema. Finance teams rarely agree on spelling,
// so matching is exact first and fuzzy-substring second.
package normalizer

import "strings"

// Canonical field names shared across the pipeline.
const (
	FieldTPV              = "tpv"
	FieldNetRevenue       = "netRevenue"
	FieldDirectCost       = "directCost"
	FieldSchemeFees       = "schemeFees"
	FieldMRACost          = "mraCost"
	FieldGrossProfit      = "grossProfit"
	FieldTransactionCount = "transactionCount"
	FieldMonth            = "month"
	FieldDate             = "date"
	FieldCompany          = "company"
	FieldChannel          = "channel"
	FieldCurrency         = "currency"
	FieldCountry          = "country"
)

type synonym struct {
	pattern string
	field   string
}

// synonyms is evaluated in declaration order for the substring scan; the
// first hit wins. Reordering entries changes which canonical field an
// ambiguous header lands on, so the order is part of the contract.
var synonyms = []synonym{
	{"sum of billing", FieldTPV},
	{"billing", FieldTPV},
	{"total payment volume", FieldTPV},
	{"tpv", FieldTPV},

	{"sum of comm", FieldNetRevenue},
	{"commission", FieldNetRevenue},
	{"net revenue", FieldNetRevenue},
	{"revenue", FieldNetRevenue},

	{"sum of direct cost", FieldDirectCost},
	{"direct cost", FieldDirectCost},

	{"sum of scheme fee", FieldSchemeFees},
	{"sum of scheme fees", FieldSchemeFees},
	{"scheme fee", FieldSchemeFees},
	{"scheme fees", FieldSchemeFees},

	{"sum of mra cost", FieldMRACost},
	{"mra cost", FieldMRACost},

	{"sum of gross profit", FieldGrossProfit},
	{"gross profit", FieldGrossProfit},
	{"gp", FieldGrossProfit},

	{"no of transaction", FieldTransactionCount},
	{"number of transactions", FieldTransactionCount},
	{"transactions", FieldTransactionCount},

	{"month", FieldMonth},
	{"date", FieldDate},
	{"company", FieldCompany},
	{"channel", FieldChannel},
	{"currency", FieldCurrency},
	{"entity reporting currency", FieldCurrency},
	{"reporting currency", FieldCurrency},
	{"country", FieldCountry},
	{"merchant country", FieldCountry},
}

// exact is the O(1) view of the table for step one. Later duplicates of a
// pattern never occur in the table, so plain assignment is fine.
var exact = func() map[string]string {
	m := make(map[string]string, len(synonyms))
	for _, s := range synonyms {
		m[s.pattern] = s.field
	}
	return m
}()

var numericFields = map[string]bool{
	FieldTPV:              true,
	FieldNetRevenue:       true,
	FieldDirectCost:       true,
	FieldSchemeFees:       true,
	FieldMRACost:          true,
	FieldGrossProfit:      true,
	FieldTransactionCount: true,
}

var monetaryFields = map[string]bool{
	FieldTPV:         true,
	FieldNetRevenue:  true,
	FieldDirectCost:  true,
	FieldSchemeFees:  true,
	FieldMRACost:     true,
	FieldGrossProfit: true,
}

// IsNumericField reports whether f is one of the seven canonical numeric
// fields that must always be parsed to a number.
func IsNumericField(f string) bool { return numericFields[f] }

// IsMonetaryField reports whether f is subject to currency conversion.
// TransactionCount is numeric but not monetary.
func IsMonetaryField(f string) bool { return monetaryFields[f] }

// NormalizeHeader maps one column name onto its canonical field. Headers
// with no exact or substring match come back trimmed but otherwise
// verbatim, so unrecognized columns survive the pipeline.
func NormalizeHeader(header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	if normalized == "" {
		// An empty name would substring-match every table entry.
		return ""
	}

	if field, ok := exact[normalized]; ok {
		return field
	}

	for _, s := range synonyms {
		if strings.Contains(normalized, s.pattern) || strings.Contains(s.pattern, normalized) {
			return s.field
		}
	}

	return strings.TrimSpace(header)
}

// MapHeaders builds the original-header to canonical-field mapping for one
// file or sheet. Every input file derives its own mapping; two files never
// have to agree on spelling before consolidation merges them.
func MapHeaders(headers []string) map[string]string {
	mapping := make(map[string]string, len(headers))
	for _, h := range headers {
		mapping[h] = NormalizeHeader(h)
	}
	return mapping
}
