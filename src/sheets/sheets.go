// Package sheets implements the review.SpreadsheetBackend against Google
// Sheets v4. Template copies go through Drive, so the copier is injected.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/Protocol-Lattice/sow-review/src/retry"
	"github.com/Protocol-Lattice/sow-review/src/review"
)

// DefaultFolder is where report copies land, matching the reviewer's
// Drive layout.
const DefaultFolder = "Temp"

// TemplateCopier copies a file into a named folder under a new title.
// Satisfied by drive.Service.
type TemplateCopier interface {
	CopyFile(ctx context.Context, sourceID, folderName, newTitle string) (string, error)
}

// Service wraps the Sheets API plus a Drive-backed template copier.
type Service struct {
	svc    *sheets.Service
	copier TemplateCopier
	folder string
	policy retry.Policy
	logger *zap.Logger
}

// NewService builds a Service using the supplied client options.
func NewService(ctx context.Context, copier TemplateCopier, logger *zap.Logger, policy retry.Policy, opts ...option.ClientOption) (*Service, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets init: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Classify == nil {
		policy.Classify = retry.TransientHTTP
	}
	return &Service{
		svc:    svc,
		copier: copier,
		folder: DefaultFolder,
		policy: policy,
		logger: logger,
	}, nil
}

// SetFolder overrides the destination folder for report copies.
func (s *Service) SetFolder(name string) {
	if name != "" {
		s.folder = name
	}
}

// CopyTemplate copies the template spreadsheet and returns the new ID.
func (s *Service) CopyTemplate(ctx context.Context, templateID, newTitle string) (string, error) {
	return s.copier.CopyFile(ctx, templateID, s.folder, newTitle)
}

// Dimensions returns the grid size of the named sheet.
func (s *Service) Dimensions(ctx context.Context, sheetID, sheetName string) (int, int, error) {
	ss, err := retry.Value(ctx, s.policy, "sheets get", func() (*sheets.Spreadsheet, error) {
		return s.svc.Spreadsheets.Get(sheetID).Context(ctx).Do()
	})
	if err != nil {
		return 0, 0, fmt.Errorf("sheets get %s: %w", sheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties == nil || sh.Properties.Title != sheetName {
			continue
		}
		if sh.Properties.GridProperties == nil {
			return 0, 0, fmt.Errorf("sheet %q has no grid properties", sheetName)
		}
		return int(sh.Properties.GridProperties.RowCount), int(sh.Properties.GridProperties.ColumnCount), nil
	}
	return 0, 0, fmt.Errorf("sheet %q not found in spreadsheet %s", sheetName, sheetID)
}

// WriteRange writes the rows starting at the anchor in a single update,
// leaving everything outside the rectangle untouched.
func (s *Service) WriteRange(ctx context.Context, sheetID, sheetName string, anchor review.Anchor, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	rng := RangeFor(sheetName, anchor)
	err := s.policy.Do(ctx, "sheets update", func() error {
		_, err := s.svc.Spreadsheets.Values.
			Update(sheetID, rng, &sheets.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("sheets update %s at %s: %w", sheetID, rng, err)
	}
	s.logger.Info("wrote report rows",
		zap.String("sheet_id", sheetID),
		zap.String("range", rng),
		zap.Int("rows", len(rows)))
	return nil
}

// RangeFor builds the A1 range string for an anchored write.
func RangeFor(sheetName string, anchor review.Anchor) string {
	return fmt.Sprintf("'%s'!%s", sheetName, anchor.A1())
}
