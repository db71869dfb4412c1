package analytics

import (
	"sort"
	"strings"

	"paylens/pkg/contracts/domain"
)

// DistributionBy names the categorical dimension of a TPV distribution.
type DistributionBy string

const (
	ByCurrency DistributionBy = "currency"
	ByCountry  DistributionBy = "country"
)

// Legacy exports sometimes carry these concepts under headers the
// normalizer leaves untouched; they are consulted, in order, when the
// canonical field is empty.
var (
	currencyAliases = []string{
		"Entity Reporting Currency",
		"Reporting Currency",
		"entity reporting currency",
		"reporting currency",
		"Currency",
	}
	countryAliases = []string{
		"Merchant Country",
		"merchant country",
		"Country",
	}
)

// Distribution sums TPV per normalized currency or country. Keys are
// trimmed and uppercased; empty keys and the literal "unknown" (any case)
// are excluded. Entries come back descending by summed TPV.
func Distribution(records []domain.Record, by DistributionBy) []domain.DistributionEntry {
	totals := make(map[string]float64)
	for _, r := range records {
		key := distributionKey(r, by)
		if key == "" || strings.EqualFold(key, "unknown") {
			continue
		}
		totals[strings.ToUpper(key)] += r.TPV
	}

	out := make([]domain.DistributionEntry, 0, len(totals))
	for name, value := range totals {
		out = append(out, domain.DistributionEntry{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func distributionKey(r domain.Record, by DistributionBy) string {
	var key string
	var aliases []string
	if by == ByCountry {
		key, aliases = r.Country, countryAliases
	} else {
		key, aliases = r.Currency, currencyAliases
	}

	key = strings.TrimSpace(key)
	for _, alias := range aliases {
		if key != "" {
			break
		}
		key = strings.TrimSpace(r.Extra[alias])
	}
	return key
}
