package sheet

import (
	"fmt"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// placeholderRows is the number of empty styled data rows in a fresh template.
const placeholderRows = 2

// headerCell is one cell of the three header rows before it is written.
type headerCell struct {
	value string
	style cellStyle
}

// Renderer writes survey layouts as template workbooks.
type Renderer struct {
	theme  Theme
	logger *zap.Logger
}

// NewRenderer creates a Renderer using theme.
func NewRenderer(theme Theme, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{theme: theme, logger: logger}
}

// Render builds a new workbook holding the template for layout.
// The caller owns the returned file and must close it.
func (r *Renderer) Render(layout *models.Layout) (*excelize.File, error) {
	if layout.Len() == 0 {
		return nil, fmt.Errorf("%w: layout has no columns", ErrInvalidTemplate)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), models.SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := r.render(f, models.SheetName, layout); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Save renders layout and writes it to path. It returns the column count.
func (r *Renderer) Save(layout *models.Layout, path string) (int, error) {
	f, err := r.Render(layout)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("failed to save template: %w", err)
	}
	r.logger.Info("Template written",
		zap.String("path", path),
		zap.Int("columns", layout.Len()))
	return layout.Len(), nil
}

func (r *Renderer) render(f *excelize.File, sheet string, layout *models.Layout) error {
	total := layout.Len()
	starts := layout.QuestionStarts()
	grid := r.headerGrid(layout)
	st := newStyler(f, r.theme)

	for ri, row := range grid {
		for ci, hc := range row {
			col, rowNum := ci+1, ri+1
			if hc.value != "" {
				cell, err := excelize.CoordinatesToCellName(col, rowNum)
				if err != nil {
					return err
				}
				if err := f.SetCellStr(sheet, cell, hc.value); err != nil {
					return fmt.Errorf("failed to set header %s: %w", cell, err)
				}
			}
			if err := st.apply(sheet, col, rowNum, hc.style); err != nil {
				return err
			}
		}
	}

	if err := r.mergeHeaders(f, sheet, layout); err != nil {
		return err
	}

	for i := 0; i < placeholderRows; i++ {
		rowNum := models.FirstDataRow + i
		fill := r.theme.FillOdd
		if i%2 == 1 {
			fill = r.theme.FillEven
		}
		for col := 1; col <= total; col++ {
			if err := st.apply(sheet, col, rowNum, dataStyle(fill, col, total, starts)); err != nil {
				return err
			}
		}
	}

	for i, c := range layout.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := r.theme.WidthText
		switch {
		case c.Kind == models.KindIdentifier:
			width = r.theme.WidthIdentifier
		case c.IsNarrow():
			width = r.theme.WidthGlyph
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of %s: %w", name, err)
		}
	}
	for i, h := range r.theme.HeaderHeights {
		if err := f.SetRowHeight(sheet, i+1, h); err != nil {
			return fmt.Errorf("failed to set height of row %d: %w", i+1, err)
		}
	}

	if err := setupPrint(f, sheet); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      models.HeaderRows,
		TopLeftCell: fmt.Sprintf("A%d", models.FirstDataRow),
		ActivePane:  "bottomLeft",
	})
}

// headerGrid computes values and formats of the three header rows.
func (r *Renderer) headerGrid(layout *models.Layout) [models.HeaderRows][]headerCell {
	total := layout.Len()
	starts := layout.QuestionStarts()

	var grid [models.HeaderRows][]headerCell
	for i := range grid {
		grid[i] = make([]headerCell, total)
	}

	// Row 1: identifier label, section bands, framed cells outside any band.
	framed := borders{top: borderMedium, bottom: borderMedium, left: borderMedium, right: borderMedium}
	grid[0][0] = headerCell{value: models.LabelIdentifier, style: cellStyle{bold: true, align: "center", border: framed}}
	inSection := make([]bool, total+1)
	for _, sr := range layout.Sections {
		for col := sr.Start; col <= sr.End; col++ {
			inSection[col] = true
			b := borders{top: borderMedium, bottom: borderMedium}
			if col == sr.Start {
				b.left = borderMedium
			}
			if col == sr.End {
				b.right = borderMedium
			}
			hc := headerCell{style: cellStyle{bold: true, align: "left", border: b}}
			if col == sr.Start {
				hc.value = sr.Name
			}
			grid[0][col-1] = hc
		}
	}
	for col := 2; col <= total; col++ {
		if !inSection[col] {
			grid[0][col-1] = headerCell{style: cellStyle{bold: true, border: framed}}
		}
	}

	// Row 2: question titles on the first column of each span.
	for col := 2; col <= total; col++ {
		b := borders{top: borderMedium, bottom: borderThin}
		if starts[col] {
			b.left = borderMedium
		}
		grid[1][col-1] = headerCell{style: cellStyle{border: b}}
	}
	for _, sp := range layout.Spans {
		if sp.Start == 1 {
			continue
		}
		hc := &grid[1][sp.Start-1]
		hc.value = sp.Title
		hc.style.align = "left"
		hc.style.shrink = true
	}

	// Row 3: option glyphs and free-text markers.
	for col := 2; col <= total; col++ {
		c := layout.Columns[col-1]
		var label string
		switch c.Kind {
		case models.KindOption:
			label = r.theme.Glyph(c.OptionIndex)
		case models.KindOther:
			label = models.LabelOther
		}
		b := borders{top: borderThin, bottom: borderMedium, left: borderMedium}
		if !starts[col] && label != "" {
			b.left = borderDashed
		}
		grid[2][col-1] = headerCell{value: label, style: cellStyle{align: "center", border: b}}
	}

	// The identifier column spans all three rows under A1.
	grid[1][0] = headerCell{style: grid[0][0].style}
	grid[2][0] = headerCell{style: grid[0][0].style}

	for i := range grid {
		grid[i][total-1].style.border.right = borderMedium
	}
	return grid
}

func (r *Renderer) mergeHeaders(f *excelize.File, sheet string, layout *models.Layout) error {
	merge := func(c1, r1, c2, r2 int) error {
		from, err := excelize.CoordinatesToCellName(c1, r1)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(c2, r2)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, from, to); err != nil {
			return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
		}
		return nil
	}

	if err := merge(1, 1, 1, models.HeaderRows); err != nil {
		return err
	}
	for _, sr := range layout.Sections {
		if sr.Start > 1 && sr.End > sr.Start {
			if err := merge(sr.Start, 1, sr.End, 1); err != nil {
				return err
			}
		}
	}
	for _, sp := range layout.Spans {
		if sp.Start > 1 && sp.End > sp.Start {
			if err := merge(sp.Start, 2, sp.End, 2); err != nil {
				return err
			}
		}
	}
	return nil
}
