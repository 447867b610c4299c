package sheet

import (
	"fmt"
	"strings"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MergeResult summarises one merge.
type MergeResult struct {
	// Inserted is the number of records written.
	Inserted int `json:"inserted"`
	// Duplicates is the number of written rows marked duplicate.
	Duplicates int `json:"duplicates"`
	// FirstRow is the first written row (1-based); zero when nothing was written.
	FirstRow int `json:"first_row,omitempty"`
	// LastRow is the last written row (1-based); zero when nothing was written.
	LastRow int `json:"last_row,omitempty"`
}

// Merger appends response records to a template sheet.
type Merger struct {
	theme  Theme
	logger *zap.Logger
}

// NewMerger creates a Merger using theme.
func NewMerger(theme Theme, logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{theme: theme, logger: logger}
}

// Merge writes all records of batches below the existing data rows of sheet,
// in batch order then record order, and highlights rows whose identifier
// collides with an existing row or another incoming record.
// With no records the sheet is left untouched.
func (m *Merger) Merge(f *excelize.File, sheet string, batches []models.Batch) (MergeResult, error) {
	var records []models.Record
	for _, b := range batches {
		records = append(records, b.Records...)
	}
	if len(records) == 0 {
		return MergeResult{}, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	total, err := ColumnCount(f, sheet, rows)
	if err != nil {
		return MergeResult{}, err
	}
	starts := questionStarts(rows)

	lastFilled := 0
	existing := make(map[string]bool)
	for i := models.HeaderRows; i < len(rows); i++ {
		if id := firstCell(rows[i]); id != "" {
			lastFilled = i + 1
			existing[id] = true
		}
	}
	startRow := models.FirstDataRow
	if lastFilled > 0 {
		startRow = lastFilled + 1
	}

	duplicates := findDuplicates(records, existing)

	st := newStyler(f, m.theme)
	for i, rec := range records {
		rowNum := startRow + i
		fill := m.theme.FillOdd
		if (rowNum-models.FirstDataRow)%2 == 1 {
			fill = m.theme.FillEven
		}
		if duplicates[i] {
			fill = m.theme.FillDuplicate
		}

		values := make([]interface{}, total)
		for col := range values {
			v := ""
			if col < len(rec) {
				v = rec[col]
			}
			values[col] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return MergeResult{}, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return MergeResult{}, fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		for col := 1; col <= total; col++ {
			if err := st.apply(sheet, col, rowNum, dataStyle(fill, col, total, starts)); err != nil {
				return MergeResult{}, err
			}
		}
	}

	result := MergeResult{
		Inserted:   len(records),
		Duplicates: len(duplicates),
		FirstRow:   startRow,
		LastRow:    startRow + len(records) - 1,
	}
	m.logger.Info("Merged records",
		zap.String("sheet", sheet),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("first_row", result.FirstRow))
	return result, nil
}

// findDuplicates returns the indexes of records whose non-empty identifier
// is already present or shared with another record.
func findDuplicates(records []models.Record, existing map[string]bool) map[int]bool {
	positions := make(map[string][]int)
	for i, rec := range records {
		if id := rec.Identifier(); id != "" {
			positions[id] = append(positions[id], i)
		}
	}
	dups := make(map[int]bool)
	for id, idx := range positions {
		if existing[id] || len(idx) > 1 {
			for _, i := range idx {
				dups[i] = true
			}
		}
	}
	return dups
}

// ColumnCount returns the number of layout columns of a template sheet,
// taken from the widest header row and the sheet dimension.
func ColumnCount(f *excelize.File, sheet string, rows [][]string) (int, error) {
	n := 0
	for i := 0; i < models.HeaderRows && i < len(rows); i++ {
		if len(rows[i]) > n {
			n = len(rows[i])
		}
	}
	if dim, err := f.GetSheetDimension(sheet); err == nil {
		if parts := strings.Split(dim, ":"); len(parts) == 2 {
			if col, _, err := excelize.CellNameToCoordinates(parts[1]); err == nil && col > n {
				n = col
			}
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: sheet %q has no header", ErrInvalidTemplate, sheet)
	}
	return n, nil
}

// questionStarts reads the columns that open a question span from the
// title row: column 1 and every column with a title.
func questionStarts(rows [][]string) map[int]bool {
	starts := map[int]bool{1: true}
	if len(rows) < 2 {
		return starts
	}
	for i, v := range rows[1] {
		if i > 0 && strings.TrimSpace(v) != "" {
			starts[i+1] = true
		}
	}
	return starts
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}
