// Package analytics reduces the consolidated record set into KPI
// snapshots, time-bucketed rollups, entity rankings, and categorical
// distributions. Every operation is a pure, deterministic pass over the
// records it is given; nothing is cached or updated incrementally.
package analytics

import (
	"math"

	"paylens/pkg/contracts/domain"
)

// profitTolerance guards the profit cross-check against floating-point
// noise accumulated across many rows.
const profitTolerance = 0.01

// Compute derives the scalar KPI snapshot over the full record set. An
// empty set yields the zero snapshot with Matches false.
func Compute(records []domain.Record) domain.Metrics {
	if len(records) == 0 {
		return domain.Metrics{}
	}

	var m domain.Metrics
	var totalDirectCost, totalSchemeFees, totalMRACost float64
	for _, r := range records {
		m.TotalTPV += r.TPV
		m.TotalNetRevenue += r.NetRevenue
		m.TotalGrossProfit += r.GrossProfit
		m.TotalTransactions += r.TransactionCount
		totalDirectCost += r.DirectCost
		totalSchemeFees += r.SchemeFees
		totalMRACost += r.MRACost
	}

	if m.TotalTPV > 0 {
		m.BlendedTakeRate = m.TotalNetRevenue / m.TotalTPV * 100
	}
	if m.TotalNetRevenue > 0 {
		m.BlendedGPM = m.TotalGrossProfit / m.TotalNetRevenue * 100
	}
	if m.TotalTransactions > 0 {
		m.AverageTicketSize = m.TotalTPV / m.TotalTransactions
	}

	calculated := m.TotalNetRevenue - totalDirectCost - totalSchemeFees - totalMRACost
	m.ProfitValidation = domain.ProfitValidation{
		Calculated: calculated,
		FromFile:   m.TotalGrossProfit,
		Matches:    math.Abs(calculated-m.TotalGrossProfit) < profitTolerance,
	}

	return m
}
