package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/epeers/markowitz/internal/models"
)

// ParseLiquidityCSV parses a liquidity label upload.
// Required columns: ticker, liquidity_label
// Optional columns: proxy_category (missing column defaults to "")
// Rows with an empty ticker are skipped; an empty label is an error.
func ParseLiquidityCSV(r io.Reader) ([]models.LiquidityUpdate, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Build column index map (case-insensitive, trimmed)
	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"ticker", "liquidity_label"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var updates []models.LiquidityUpdate
	rowNum := 1 // header is row 1, data starts at row 2
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		ticker := strings.ToUpper(field(record, "ticker"))
		if ticker == "" {
			continue
		}
		label := field(record, "liquidity_label")
		if label == "" {
			return nil, fmt.Errorf("row %d: liquidity_label is empty for %s", rowNum, ticker)
		}

		updates = append(updates, models.LiquidityUpdate{
			Ticker:         ticker,
			LiquidityLabel: label,
			ProxyCategory:  field(record, "proxy_category"),
		})
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("CSV contains no data rows")
	}
	return updates, nil
}
