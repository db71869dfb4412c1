// Package pipeline consolidates parsed report rows into the canonical
// record sequence and owns the session-scoped processing state.
package pipeline

import (
	"math"
	"strconv"
	"strings"

	"paylens/internal/currency"
	"paylens/internal/normalizer"
	"paylens/internal/parser"
	"paylens/pkg/contracts/domain"
)

// Consolidate flattens the raw rows of all files into one ordered record
// sequence. Each file (and each worksheet within it) derives its own
// header mapping, so inputs never have to agree on column spelling. When
// rates is non-nil the monetary fields are converted to USD using each
// row's own currency. Consolidation is a stable concatenation in file,
// then sheet, then row order; no row is ever dropped.
func Consolidate(files [][]parser.RawRow, rates currency.Rates) []domain.Record {
	var records []domain.Record
	for _, rows := range files {
		// Header mapping per sheet within the file; the empty sheet
		// name covers CSV sources.
		mappings := make(map[string]map[string]string)
		for _, row := range rows {
			mapping := mappings[row.Sheet]
			if mapping == nil {
				mapping = normalizer.MapHeaders(row.Headers)
				mappings[row.Sheet] = mapping
			}
			records = append(records, buildRecord(row, mapping, rates))
		}
	}
	return records
}

func buildRecord(row parser.RawRow, mapping map[string]string, rates currency.Rates) domain.Record {
	rec := domain.Record{
		Source: row.Source,
		Sheet:  row.Sheet,
	}

	for _, header := range row.Headers {
		value := row.Cells[header]
		switch field := mapping[header]; field {
		case normalizer.FieldTPV:
			rec.TPV = parseAmount(value)
		case normalizer.FieldNetRevenue:
			rec.NetRevenue = parseAmount(value)
		case normalizer.FieldDirectCost:
			rec.DirectCost = parseAmount(value)
		case normalizer.FieldSchemeFees:
			rec.SchemeFees = parseAmount(value)
		case normalizer.FieldMRACost:
			rec.MRACost = parseAmount(value)
		case normalizer.FieldGrossProfit:
			rec.GrossProfit = parseAmount(value)
		case normalizer.FieldTransactionCount:
			rec.TransactionCount = parseAmount(value)
		case normalizer.FieldMonth:
			rec.Month = value
		case normalizer.FieldDate:
			rec.Date = value
		case normalizer.FieldCompany:
			rec.Company = value
		case normalizer.FieldChannel:
			rec.Channel = value
		case normalizer.FieldCurrency:
			rec.Currency = value
		case normalizer.FieldCountry:
			rec.Country = value
		case "":
			// Unnamed column, nothing to key it by.
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[header] = value
		}
	}

	if rates != nil {
		rec.TPV = currency.Convert(rec.TPV, rec.Currency, rates)
		rec.NetRevenue = currency.Convert(rec.NetRevenue, rec.Currency, rates)
		rec.DirectCost = currency.Convert(rec.DirectCost, rec.Currency, rates)
		rec.SchemeFees = currency.Convert(rec.SchemeFees, rec.Currency, rates)
		rec.MRACost = currency.Convert(rec.MRACost, rec.Currency, rates)
		rec.GrossProfit = currency.Convert(rec.GrossProfit, rec.Currency, rates)
	}

	return rec
}

// parseAmount cleans a cell of currency symbols, thousands separators and
// other decoration before parsing. Missing or unparsable values become 0,
// never NaN.
func parseAmount(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
