package analytics

import (
	"sort"

	"paylens/pkg/contracts/domain"
)

// Monthly groups records into YYYY-MM buckets using the date derivation
// chain. Records whose date cannot be resolved are excluded here but still
// count toward the scalar totals. Buckets come back ascending by key,
// which for YYYY-MM is also chronological.
func Monthly(records []domain.Record) []domain.MonthlyAggregation {
	buckets := make(map[string]*domain.MonthlyAggregation)
	for _, r := range records {
		t, ok := recordDate(r)
		if !ok {
			continue
		}
		key := t.Format("2006-01")
		b := buckets[key]
		if b == nil {
			b = &domain.MonthlyAggregation{Month: key}
			buckets[key] = b
		}
		b.TPV += r.TPV
		b.NetRevenue += r.NetRevenue
		b.GrossProfit += r.GrossProfit
	}

	out := make([]domain.MonthlyAggregation, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
