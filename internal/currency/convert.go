package currency

import (
	"log/slog"
	"strings"
)

// Convert translates amount from the given currency into USD using a
// units-per-USD table. It fails open: an empty code is assumed USD, and an
// unknown or zero rate passes the amount through unchanged with a warning
// rather than failing the row.
func Convert(amount float64, code string, rates Rates) float64 {
	if code == "" || rates == nil {
		return amount
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" || normalized == "USD" {
		return amount
	}

	rate, ok := rates[normalized]
	if !ok || rate == 0 {
		slog.Warn("exchange rate not found for currency", slog.String("currency", normalized))
		return amount
	}

	return amount / rate
}
