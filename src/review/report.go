package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReportWriter copies the report template and projects a parsed table into
// it at the anchor position. The write is a single range update: all rows
// or none, and nothing outside the written rectangle is touched.
type ReportWriter struct {
	Backend   SpreadsheetBackend
	SheetName string
	Logger    *zap.Logger
}

// Write returns the new spreadsheet's URL.
func (w ReportWriter) Write(ctx context.Context, templateID, newTitle string, table *ParsedTable, anchor Anchor) (string, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rows := table.AllRows()
	if len(rows) == 0 {
		return "", fmt.Errorf("refusing to write an empty report")
	}

	// A copy inherits the template's grid, so bounds are checked against
	// the template itself. A misplaced anchor then fails before any copy
	// exists, leaving nothing to clean up in Drive.
	maxRows, maxCols, err := w.Backend.Dimensions(ctx, templateID, w.SheetName)
	if err != nil {
		return "", fmt.Errorf("sheet dimensions: %w", err)
	}
	lastRow := anchor.Row + len(rows) - 1
	lastCol := anchor.Col + table.Width() - 1
	if anchor.Row < 1 || anchor.Col < 1 || lastRow > maxRows || lastCol > maxCols {
		return "", fmt.Errorf("rectangle %s spans rows %d-%d cols %d-%d, sheet is %dx%d: %w",
			anchor.A1(), anchor.Row, lastRow, anchor.Col, lastCol, maxRows, maxCols, ErrOutOfBounds)
	}

	sheetID, err := w.Backend.CopyTemplate(ctx, templateID, newTitle)
	if err != nil {
		return "", fmt.Errorf("copy template: %w", err)
	}

	if err := w.Backend.WriteRange(ctx, sheetID, w.SheetName, anchor, rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}
	logger.Info("report written",
		zap.String("sheet_id", sheetID),
		zap.String("title", newTitle),
		zap.String("anchor", anchor.A1()),
		zap.Int("rows", len(rows)))
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", sheetID), nil
}
