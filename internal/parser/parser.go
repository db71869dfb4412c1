// Package parser turns raw CSV and spreadsheet exports into ordered,
// loosely-typed rows. It knows nothing about the canonical schema; header
// reconciliation happens downstream in the normalizer.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"paylens/pkg/contracts/domain"
)

// ErrUnsupportedType is returned for files that are neither CSV nor a
// spreadsheet workbook.
var ErrUnsupportedType = errors.New("unsupported file type")

// RawRow is one parsed sheet row or CSV line before normalization. Headers
// preserves the original column order so downstream mapping is stable.
type RawRow struct {
	Headers []string
	Cells   map[string]string
	Source  domain.SourceType
	Sheet   string
}

// Supported reports whether the file name carries an extension the parser
// accepts. Unsupported files are filtered out of a selection before
// parsing rather than failing the batch.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// ParseFile dispatches on the file extension. CSV rows carry no worksheet
// provenance and are tagged SourceUnknown.
func ParseFile(name string, r io.Reader) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseWorkbook(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
	}
}

// ParseCSV reads a comma-delimited export with a mandatory header row.
// Blank lines are skipped. Every data row must have exactly as many
// fields as the header; malformed lines and width mismatches are
// collected and surfaced as one aggregated error, and on any line error
// no rows are returned at all.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []RawRow
	var lineErrs []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			lineErrs = append(lineErrs, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if isBlank(record) {
			continue
		}

		cells := make(map[string]string, len(headers))
		for i, h := range headers {
			cells[h] = strings.TrimSpace(record[i])
		}
		rows = append(rows, RawRow{
			Headers: headers,
			Cells:   cells,
			Source:  domain.SourceUnknown,
		})
	}

	if len(lineErrs) > 0 {
		return nil, fmt.Errorf("csv parsing errors: %s", strings.Join(lineErrs, "; "))
	}
	return rows, nil
}

// ParseWorkbook reads every worksheet of an Excel workbook. Each sheet is
// classified by its name, its own first row serves as the header, and all
// sheets' rows are concatenated in sheet order then row order. Cells are
// read raw so date serials survive as numbers instead of display strings.
func ParseWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var all []RawRow
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			// Header only, or nothing at all.
			continue
		}

		source := ClassifySheet(sheet)
		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = strings.TrimSpace(h)
		}

		for _, row := range rows[1:] {
			if isBlank(row) {
				continue
			}
			cells := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					cells[h] = strings.TrimSpace(row[i])
				} else {
					// excelize trims trailing empties; keep the
					// column present with an explicit empty value.
					cells[h] = ""
				}
			}
			all = append(all, RawRow{
				Headers: headers,
				Cells:   cells,
				Source:  source,
				Sheet:   sheet,
			})
		}

		slog.Debug("parsed worksheet",
			slog.String("sheet", sheet),
			slog.String("source_type", string(source)),
			slog.Int("rows", len(rows)-1))
	}

	return all, nil
}

// ClassifySheet derives a row's provenance tag from its worksheet name.
func ClassifySheet(name string) domain.SourceType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "merchant"):
		return domain.SourceMerchant
	case strings.Contains(lower, "channel"):
		return domain.SourceChannel
	default:
		return domain.SourceUnknown
	}
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
