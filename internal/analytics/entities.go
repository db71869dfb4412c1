package analytics

import (
	"sort"

	"paylens/pkg/contracts/domain"
)

// EntityScope selects which provenance slice an entity ranking covers.
type EntityScope string

const (
	// ScopeAll ranks merchants and channels together, keyed by company
	// with channel as the fallback.
	ScopeAll EntityScope = "all"
	// ScopeMerchant ranks merchant-sheet records by company.
	ScopeMerchant EntityScope = "merchant"
	// ScopeChannel ranks channel-sheet records by channel.
	ScopeChannel EntityScope = "channel"
)

// DefaultEntityLimit bounds a ranking when the caller passes limit <= 0.
const DefaultEntityLimit = 10

// TopEntities sums TPV and net revenue per entity within the scope and
// returns the top entries by TPV descending. Records without a key for
// the scope are excluded.
func TopEntities(records []domain.Record, scope EntityScope, limit int) []domain.EntityPerformance {
	if limit <= 0 {
		limit = DefaultEntityLimit
	}

	totals := make(map[string]*domain.EntityPerformance)
	for _, r := range records {
		name := entityKey(r, scope)
		if name == "" {
			continue
		}
		e := totals[name]
		if e == nil {
			e = &domain.EntityPerformance{Name: name}
			totals[name] = e
		}
		e.TPV += r.TPV
		e.NetRevenue += r.NetRevenue
	}

	out := make([]domain.EntityPerformance, 0, len(totals))
	for _, e := range totals {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TPV != out[j].TPV {
			return out[i].TPV > out[j].TPV
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func entityKey(r domain.Record, scope EntityScope) string {
	switch scope {
	case ScopeMerchant:
		if r.Source != domain.SourceMerchant {
			return ""
		}
		return r.Company
	case ScopeChannel:
		if r.Source != domain.SourceChannel {
			return ""
		}
		return r.Channel
	default:
		if r.Company != "" {
			return r.Company
		}
		return r.Channel
	}
}
