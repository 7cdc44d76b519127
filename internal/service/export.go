package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"spend/internal/core"
)

// ExportResult is the serialized form of an export.
type ExportResult struct {
	Format string
	Data   string
	Count  int
}

var csvHeader = []string{"id", "date", "amount", "category", "subcategory", "note"}

// Export serializes up to 10,000 most-recent expenses as a JSON document
// or a CSV table. CSV output is properly quoted, so commas and newlines
// inside notes survive a round-trip.
func (s *ExpenseService) Export(ctx context.Context, format string) (ExportResult, error) {
	expenses, err := s.List(ctx, core.ListFilter{Limit: exportLimit})
	if err != nil {
		return ExportResult{}, err
	}

	switch strings.ToLower(format) {
	case "json":
		if expenses == nil {
			expenses = []core.Expense{}
		}
		data, err := json.MarshalIndent(expenses, "", "  ")
		if err != nil {
			return ExportResult{}, internalError(fmt.Errorf("encode json export: %w", err))
		}
		return ExportResult{Format: "json", Data: string(data), Count: len(expenses)}, nil

	case "csv":
		data, err := encodeCSV(expenses)
		if err != nil {
			return ExportResult{}, internalError(fmt.Errorf("encode csv export: %w", err))
		}
		return ExportResult{Format: "csv", Data: data, Count: len(expenses)}, nil

	default:
		return ExportResult{}, validationError("Unsupported format. Use 'json' or 'csv'")
	}
}

func encodeCSV(expenses []core.Expense) (string, error) {
	if len(expenses) == 0 {
		return "No expenses found", nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			strconv.FormatFloat(e.Amount, 'g', -1, 64),
			e.Category,
			e.Subcategory,
			e.Note,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
