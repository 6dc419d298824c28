// Package xlsx extracts source/target pairs from two columns of a spreadsheet.
package xlsx

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/tmtune/internal"
	"github.com/valpere/tmtune/internal/dedup"
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrNoSheets      = errors.New("workbook has no worksheets")
)

// ColumnIndex converts a column name such as "A", "c" or "AB" to its
// zero-based index. Names are case-insensitive; anything that is not a valid
// column name up to XFD is rejected.
func ColumnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidColumn, name, err)
	}
	return n - 1, nil
}

// Extractor reads a source and a target column from the first worksheet.
type Extractor struct {
	logger    *slog.Logger
	sourceCol string
	targetCol string
}

func New(logger *slog.Logger, sourceCol, targetCol string) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		logger:    logger,
		sourceCol: sourceCol,
		targetCol: targetCol,
	}
}

func (e *Extractor) Format() string { return "xlsx" }

// Extract returns the deduplicated pairs of the workbook at path. The first
// row is treated as a header. Errors are logged and produce an empty result.
func (e *Extractor) Extract(path string) []internal.Pair {
	pairs, err := e.read(path)
	if err != nil {
		e.logger.Error("error parsing Excel file", "path", path, "error", err)
		return nil
	}
	if len(pairs) == 0 {
		e.logger.Warn("no valid translation pairs found in the XLSX file", "path", path)
	}
	return pairs
}

func (e *Extractor) read(path string) ([]internal.Pair, error) {
	srcIdx, err := ColumnIndex(e.sourceCol)
	if err != nil {
		return nil, err
	}
	tgtIdx, err := ColumnIndex(e.targetCol)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	var (
		pairs  []internal.Pair
		width  int
		header = true
	)
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		width = max(width, len(cells))
		if header {
			header = false
			continue
		}
		pairs = append(pairs, internal.Pair{
			Source: cell(cells, srcIdx),
			Target: cell(cells, tgtIdx),
		})
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	for _, idx := range []int{srcIdx, tgtIdx} {
		if idx >= width {
			name, _ := excelize.ColumnNumberToName(idx + 1)
			return nil, fmt.Errorf("column %s is out of range: sheet %q has %d columns", name, sheets[0], width)
		}
	}

	return dedup.Pairs(pairs), nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}
