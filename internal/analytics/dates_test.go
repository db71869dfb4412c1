package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paylens/pkg/contracts/domain"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		// 45658 is the spreadsheet serial for 2025-01-01.
		{"spreadsheet serial", "45658", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"serial with fraction", "45658.5", time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"iso date", "2025-11-03", time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), true},
		{"slash date", "2025/11/03", time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), true},
		{"month abbrev two digit year", "Nov-25", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"month full four digit year", "November 2025", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"month space two digit", "Nov 25", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"uppercase month", "NOV-25", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"lowercase month", "november 2025", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"decorated month cell", "Nov-25 (est)", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"bogus month name", "Xyz-25", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.value)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	records := []domain.Record{
		{Month: "Nov-25"},
		{Date: "2025-01-15"}, // month empty, date fallback
		{Month: "totally invalid"},
		{},
	}

	dr := DateRange(records)
	require.True(t, dr.Valid)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), dr.Min)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), dr.Max)
}

func TestDateRangeEmpty(t *testing.T) {
	dr := DateRange([]domain.Record{{Month: "n/a"}})
	assert.False(t, dr.Valid)
}
