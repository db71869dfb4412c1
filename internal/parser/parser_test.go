package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"paylens/pkg/contracts/domain"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("report.csv"))
	assert.True(t, Supported("Report.CSV"))
	assert.True(t, Supported("report.xlsx"))
	assert.True(t, Supported("legacy.xls"))
	assert.False(t, Supported("report.pdf"))
	assert.False(t, Supported("report"))
}

func TestParseFileUnsupportedType(t *testing.T) {
	_, err := ParseFile("report.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseCSV(t *testing.T) {
	csvData := "Sum of Billing,Commission,Month\n100,10,Nov-25\n\n200,20,Dec-25\n"

	rows, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	// Two data rows; the header and the blank line are not rows.
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Sum of Billing", "Commission", "Month"}, rows[0].Headers)
	assert.Equal(t, "100", rows[0].Cells["Sum of Billing"])
	assert.Equal(t, "Dec-25", rows[1].Cells["Month"])
	assert.Equal(t, domain.SourceUnknown, rows[0].Source)
}

func TestParseCSVRejectsRowWidthMismatch(t *testing.T) {
	// A row narrower than the header loses columns and a wider one has
	// cells with no header to land under; both refuse the file rather
	// than guessing.
	tests := []struct {
		name    string
		csvData string
	}{
		{"short row", "a,b,c\n1,2\n"},
		{"extra cell", "a,b\n1,2,EXTRA\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseCSV(strings.NewReader(tt.csvData))
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.Contains(t, err.Error(), "parsing errors")
		})
	}
}

func TestParseCSVWidthMismatchAggregatesWithOtherErrors(t *testing.T) {
	// One narrow row and one wide row among good rows; both mismatches
	// end up in the single aggregated error.
	csvData := "a,b\nok,1\njust_one\nok,2\n1,2,3\n"

	rows, err := ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.Contains(t, err.Error(), "wrong number of fields")
}

func TestParseCSVMissingHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestParseCSVAggregatesLineErrors(t *testing.T) {
	// Bare quotes are malformed on two separate lines; both must be
	// reported and no partial result returned.
	csvData := "a,b\nok,1\n\"bad,2\nok,3\n\"also bad,4\n"

	rows, err := ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.Contains(t, err.Error(), "parsing errors")
}

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Merchant Summary": {
			{"Company", "Sum of Billing"},
			{"Acme", 100},
			{"Globex", 200},
		},
		"Channel Report": {
			{"Channel", "Sum of Billing"},
			{"Online", 300},
		},
		"Notes": {
			{"Note"},
			{"internal"},
		},
	}, []string{"Merchant Summary", "Channel Report", "Notes"})

	rows, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Sheet order then row order.
	assert.Equal(t, domain.SourceMerchant, rows[0].Source)
	assert.Equal(t, "Merchant Summary", rows[0].Sheet)
	assert.Equal(t, "Acme", rows[0].Cells["Company"])
	assert.Equal(t, "Globex", rows[1].Cells["Company"])

	assert.Equal(t, domain.SourceChannel, rows[2].Source)
	assert.Equal(t, "Online", rows[2].Cells["Channel"])

	// Sheets that match neither category still contribute rows.
	assert.Equal(t, domain.SourceUnknown, rows[3].Source)
	assert.Equal(t, "internal", rows[3].Cells["Note"])
}

func TestParseWorkbookEmptyCellsPresent(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Merchant Data": {
			{"Company", "Sum of Billing", "Currency"},
			{"Acme", 100}, // currency column missing entirely
		},
	}, []string{"Merchant Data"})

	rows, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	cell, present := rows[0].Cells["Currency"]
	assert.True(t, present)
	assert.Equal(t, "", cell)
}

func TestParseWorkbookBadData(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("this is not a workbook"))
	require.Error(t, err)
}

func TestClassifySheet(t *testing.T) {
	tests := []struct {
		sheet string
		want  domain.SourceType
	}{
		{"Merchant Summary", domain.SourceMerchant},
		{"MERCHANTS", domain.SourceMerchant},
		{"Channel Breakdown", domain.SourceChannel},
		{"partner channels", domain.SourceChannel},
		{"Sheet1", domain.SourceUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySheet(tt.sheet), "sheet %q", tt.sheet)
	}
}
