package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// excelize border style codes.
const (
	borderNone   = 0
	borderThin   = 1
	borderMedium = 2
	borderDashed = 3
)

type borders struct {
	top, bottom, left, right int
}

// cellStyle is the comparable description of a cell format.
type cellStyle struct {
	bold   bool
	align  string
	shrink bool
	fill   string
	border borders
}

// styler creates excelize styles on demand and reuses identical ones.
type styler struct {
	f     *excelize.File
	theme Theme
	ids   map[cellStyle]int
}

func newStyler(f *excelize.File, theme Theme) *styler {
	return &styler{f: f, theme: theme, ids: make(map[cellStyle]int)}
}

func (s *styler) id(cs cellStyle) (int, error) {
	if id, ok := s.ids[cs]; ok {
		return id, nil
	}
	st := &excelize.Style{
		Font: &excelize.Font{Family: s.theme.FontFamily, Size: s.theme.FontSize, Bold: cs.bold},
	}
	if cs.align != "" {
		st.Alignment = &excelize.Alignment{Horizontal: cs.align, Vertical: "center", ShrinkToFit: cs.shrink}
	}
	if cs.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{cs.fill}}
	}
	for _, b := range []struct {
		side  string
		style int
	}{
		{"top", cs.border.top},
		{"bottom", cs.border.bottom},
		{"left", cs.border.left},
		{"right", cs.border.right},
	} {
		if b.style != borderNone {
			st.Border = append(st.Border, excelize.Border{Type: b.side, Color: "000000", Style: b.style})
		}
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	s.ids[cs] = id
	return id, nil
}

// apply sets the style of a single cell.
func (s *styler) apply(sheet string, col, row int, cs cellStyle) error {
	id, err := s.id(cs)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(sheet, cell, cell, id)
}

// dataStyle is the format of a data cell: medium left edge on question
// starts, dashed elsewhere, medium right edge on the last column.
func dataStyle(fill string, col, total int, starts map[int]bool) cellStyle {
	b := borders{bottom: borderThin, left: borderDashed}
	if starts[col] {
		b.left = borderMedium
	}
	if col == total {
		b.right = borderMedium
	}
	return cellStyle{align: "center", fill: fill, border: b}
}
