package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paylens/pkg/contracts/domain"
)

func TestComputeEmpty(t *testing.T) {
	m := Compute(nil)
	assert.Zero(t, m.TotalTPV)
	assert.False(t, m.ProfitValidation.Matches)
}

func TestComputeTotalsAndRatios(t *testing.T) {
	records := []domain.Record{
		{TPV: 1000, NetRevenue: 60, GrossProfit: 40, DirectCost: 10, SchemeFees: 5, MRACost: 5, TransactionCount: 4},
		{TPV: 1000, NetRevenue: 40, GrossProfit: 30, DirectCost: 5, SchemeFees: 0, MRACost: 5, TransactionCount: 6},
	}

	m := Compute(records)
	assert.InDelta(t, 2000, m.TotalTPV, 1e-9)
	assert.InDelta(t, 100, m.TotalNetRevenue, 1e-9)
	assert.InDelta(t, 70, m.TotalGrossProfit, 1e-9)
	assert.InDelta(t, 10, m.TotalTransactions, 1e-9)
	assert.InDelta(t, 5, m.BlendedTakeRate, 1e-9)       // 100/2000*100
	assert.InDelta(t, 70, m.BlendedGPM, 1e-9)           // 70/100*100
	assert.InDelta(t, 200, m.AverageTicketSize, 1e-9)   // 2000/10
}

func TestComputeZeroDenominators(t *testing.T) {
	m := Compute([]domain.Record{{GrossProfit: 10}})
	assert.Zero(t, m.BlendedTakeRate)
	assert.Zero(t, m.BlendedGPM)
	assert.Zero(t, m.AverageTicketSize)
}

func TestProfitValidation(t *testing.T) {
	records := []domain.Record{
		{NetRevenue: 100, DirectCost: 20, SchemeFees: 5, MRACost: 5, GrossProfit: 70},
	}

	m := Compute(records)
	assert.InDelta(t, 70, m.ProfitValidation.Calculated, 1e-9)
	assert.InDelta(t, 70, m.ProfitValidation.FromFile, 1e-9)
	assert.True(t, m.ProfitValidation.Matches)

	records[0].GrossProfit = 60
	m = Compute(records)
	assert.False(t, m.ProfitValidation.Matches)
}

func TestMonthlyGroupsSerialAndMonthName(t *testing.T) {
	// 45966 is the spreadsheet serial for 2025-11-05; it must land in
	// the same bucket as the string form.
	records := []domain.Record{
		{Month: "45966", TPV: 100, NetRevenue: 10, GrossProfit: 5},
		{Month: "Nov-25", TPV: 50, NetRevenue: 5, GrossProfit: 2},
		{Month: "Oct-25", TPV: 30},
		{Month: "unparsable", TPV: 999},
	}

	monthly := Monthly(records)
	require.Len(t, monthly, 2)

	// Ascending by YYYY-MM key.
	assert.Equal(t, "2025-10", monthly[0].Month)
	assert.Equal(t, "2025-11", monthly[1].Month)
	assert.InDelta(t, 150, monthly[1].TPV, 1e-9)
	assert.InDelta(t, 15, monthly[1].NetRevenue, 1e-9)
	assert.InDelta(t, 7, monthly[1].GrossProfit, 1e-9)
}

func TestMonthlyExcludedRecordsStillInTotals(t *testing.T) {
	records := []domain.Record{
		{Month: "bad date", TPV: 100},
		{Month: "Nov-25", TPV: 50},
	}

	assert.InDelta(t, 150, Compute(records).TotalTPV, 1e-9)
	monthly := Monthly(records)
	require.Len(t, monthly, 1)
	assert.InDelta(t, 50, monthly[0].TPV, 1e-9)
}

func TestTopEntitiesCombined(t *testing.T) {
	records := []domain.Record{
		{Company: "A", TPV: 50, NetRevenue: 5},
		{Company: "A", TPV: 30, NetRevenue: 3},
		{Company: "B", TPV: 40, NetRevenue: 4},
		{Channel: "Online", TPV: 35},
		{}, // neither company nor channel: excluded
	}

	top := TopEntities(records, ScopeAll, 2)
	require.Len(t, top, 2)
	assert.Equal(t, domain.EntityPerformance{Name: "A", TPV: 80, NetRevenue: 8}, top[0])
	assert.Equal(t, domain.EntityPerformance{Name: "B", TPV: 40, NetRevenue: 4}, top[1])
}

func TestTopEntitiesScopes(t *testing.T) {
	records := []domain.Record{
		{Source: domain.SourceMerchant, Company: "Acme", TPV: 100},
		{Source: domain.SourceMerchant, Company: "", TPV: 50}, // no key: excluded
		{Source: domain.SourceChannel, Channel: "Online", TPV: 80},
		{Source: domain.SourceChannel, Channel: "POS", TPV: 20},
		{Source: domain.SourceUnknown, Company: "Stray", TPV: 10},
	}

	merchants := TopEntities(records, ScopeMerchant, 0)
	require.Len(t, merchants, 1)
	assert.Equal(t, "Acme", merchants[0].Name)

	channels := TopEntities(records, ScopeChannel, 0)
	require.Len(t, channels, 2)
	assert.Equal(t, "Online", channels[0].Name)
	assert.Equal(t, "POS", channels[1].Name)

	// Combined scope ignores provenance and keys by company ?? channel.
	combined := TopEntities(records, ScopeAll, 0)
	assert.Len(t, combined, 4)
}

func TestTopEntitiesDefaultLimit(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 15; i++ {
		records = append(records, domain.Record{Company: string(rune('A' + i)), TPV: float64(i)})
	}
	assert.Len(t, TopEntities(records, ScopeAll, 0), DefaultEntityLimit)
}

func TestDistribution(t *testing.T) {
	records := []domain.Record{
		{Currency: "myr", TPV: 100},
		{Currency: "MYR", TPV: 50},
		{Currency: "Unknown", TPV: 999}, // excluded, any case
		{Currency: "", TPV: 999},        // excluded
		{Currency: "USD", TPV: 75},
	}

	dist := Distribution(records, ByCurrency)
	require.Len(t, dist, 2)
	assert.Equal(t, domain.DistributionEntry{Name: "MYR", Value: 150}, dist[0])
	assert.Equal(t, domain.DistributionEntry{Name: "USD", Value: 75}, dist[1])
}

func TestDistributionLegacyAliases(t *testing.T) {
	records := []domain.Record{
		{TPV: 40, Extra: map[string]string{"Entity Reporting Currency": "eur"}},
		{TPV: 10, Extra: map[string]string{"Merchant Country": "Malaysia"}},
	}

	byCurrency := Distribution(records, ByCurrency)
	require.Len(t, byCurrency, 1)
	assert.Equal(t, "EUR", byCurrency[0].Name)

	byCountry := Distribution(records, ByCountry)
	require.Len(t, byCountry, 1)
	assert.Equal(t, domain.DistributionEntry{Name: "MALAYSIA", Value: 10}, byCountry[0])
}

func TestDistributionSortedDescending(t *testing.T) {
	records := []domain.Record{
		{Country: "MY", TPV: 10},
		{Country: "SG", TPV: 30},
		{Country: "ID", TPV: 20},
	}

	dist := Distribution(records, ByCountry)
	require.Len(t, dist, 3)
	assert.Equal(t, "SG", dist[0].Name)
	assert.Equal(t, "ID", dist[1].Name)
	assert.Equal(t, "MY", dist[2].Name)
}
