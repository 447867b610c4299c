package sheet

import (
	"fmt"
	"strings"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/xuri/excelize/v2"
)

// DuplicateRows returns the data rows whose identifier cell carries the
// theme's duplicate fill.
func DuplicateRows(f *excelize.File, sheet string, theme Theme) ([]int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	want := strings.ToUpper(theme.FillDuplicate)
	seen := make(map[int]bool)

	var dups []int
	for i := models.HeaderRows; i < len(rows); i++ {
		rowNum := i + 1
		cell := fmt.Sprintf("A%d", rowNum)
		id, err := f.GetCellStyle(sheet, cell)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			style, err := f.GetStyle(id)
			if err != nil {
				return nil, err
			}
			seen[id] = hasFill(style, want)
		}
		if seen[id] && firstCell(rows[i]) != "" {
			dups = append(dups, rowNum)
		}
	}
	return dups, nil
}

// hasFill compares RRGGBB against a fill that may be stored as AARRGGBB.
func hasFill(style *excelize.Style, rgb string) bool {
	if style == nil || rgb == "" {
		return false
	}
	for _, c := range style.Fill.Color {
		if strings.HasSuffix(strings.ToUpper(c), rgb) {
			return true
		}
	}
	return false
}
