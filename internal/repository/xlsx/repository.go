// Package xlsx stores bookings in a local Excel workbook, mirroring the Google
// Sheets repository contract so the service can run offline.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Repository reads and appends rows in a workbook on disk. Every call opens the
// file fresh so external edits are picked up; writes are serialised.
type Repository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewRepository prepares a workbook-backed repository, creating parent directories as needed.
func NewRepository(path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return nil, errors.New("workbook path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create workbook directory: %w", err)
		}
	}
	return &Repository{path: path, logger: logger}, nil
}

// WriteRow appends values after the last used row of the range's sheet.
func (r *Repository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	sheet, err := sheetName(sheetRange)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.openOrCreate(sheet)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("resolve next row: %w", err)
	}

	row := append([]interface{}(nil), values...)
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	r.logger.Debug("row appended to workbook", zap.String("range", sheetRange), zap.String("cell", cell))
	return nil
}

// ReadRange returns every row of the range's sheet as formatted cell values.
// A missing workbook or sheet reads as empty.
func (r *Repository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	sheet, err := sheetName(sheetRange)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		out = append(out, cells)
	}
	return out, nil
}

func (r *Repository) openOrCreate(sheet string) (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("name sheet %s: %w", sheet, err)
		}
		return f, nil
	}

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	return f, nil
}

// sheetName extracts "Gigs" from A1 notation such as "Gigs!A:L".
func sheetName(sheetRange string) (string, error) {
	if sheetRange == "" {
		return "", fmt.Errorf("sheetRange must not be empty")
	}
	name, _, _ := strings.Cut(sheetRange, "!")
	name = strings.Trim(name, "'")
	if name == "" {
		return "", fmt.Errorf("sheetRange %q has no sheet name", sheetRange)
	}
	return name, nil
}
