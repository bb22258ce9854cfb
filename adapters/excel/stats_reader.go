// Package excel reads engine-exported statistics workbooks and maps them
// onto the canonical metric vocabulary.
package excel

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// StatsReader reads a one-row statistics table from an xlsx sheet: a header
// row of column labels followed by rows of numeric values.
type StatsReader struct {
	filePath string
	sheet    string
}

// NewStatsReader creates a reader for the default sheet
func NewStatsReader(filePath string) *StatsReader {
	return &StatsReader{filePath: filePath, sheet: "Sheet1"}
}

// NewStatsReaderForSheet creates a reader for a named sheet
func NewStatsReaderForSheet(filePath, sheet string) *StatsReader {
	return &StatsReader{filePath: filePath, sheet: sheet}
}

// ReadTable loads the sheet into a StatsTable
func (r *StatsReader) ReadTable() (contract.StatsTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return contract.StatsTable{}, fmt.Errorf("stats file not found: %s", r.filePath)
	}

	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return contract.StatsTable{}, fmt.Errorf("open stats file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return contract.StatsTable{}, fmt.Errorf("read sheet %s: %w", r.sheet, err)
	}
	if len(rows) == 0 {
		return contract.StatsTable{}, fmt.Errorf("%w: sheet %s is empty", core.ErrInsufficientData, r.sheet)
	}

	table := contract.StatsTable{Columns: rows[0]}
	for i, row := range rows[1:] {
		values := make([]float64, len(table.Columns))
		for j := range table.Columns {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return contract.StatsTable{}, core.NewValidationError(
					fmt.Sprintf("row %d column %q", i+2, table.Columns[j]),
					fmt.Sprintf("value %q is not numeric", cell))
			}
			values[j] = v
		}
		table.Rows = append(table.Rows, values)
	}
	return table, nil
}

// ReadMetrics loads the sheet and extracts the canonical metrics mapping
func (r *StatsReader) ReadMetrics() (map[string]float64, error) {
	table, err := r.ReadTable()
	if err != nil {
		return nil, err
	}
	return contract.ExtractMetrics(table)
}
