package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/xuri/excelize/v2"
)

const printTitlesName = "_xlnm.Print_Titles"

// setupPrint repeats the header rows on every printed page and prints the
// sheet landscape.
func setupPrint(f *excelize.File, sheet string) error {
	err := f.SetDefinedName(&excelize.DefinedName{
		Name:     printTitlesName,
		RefersTo: fmt.Sprintf("'%s'!$1:$%d", sheet, models.HeaderRows),
		Scope:    sheet,
	})
	if err != nil {
		return fmt.Errorf("failed to set print titles: %w", err)
	}
	orientation := "landscape"
	return f.SetPageLayout(sheet, &excelize.PageLayoutOptions{Orientation: &orientation})
}

// PrintTitleRows returns the rows repeated on each printed page of sheet.
func PrintTitleRows(f *excelize.File, sheet string) (first, last int, ok bool) {
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printTitlesName) {
			continue
		}
		name, rows := splitReference(dn.RefersTo)
		if name != sheet {
			continue
		}
		if first, last, ok = parseRowRange(rows); ok {
			return first, last, true
		}
	}
	return 0, 0, false
}

// splitReference splits 'Sheet'!$1:$3 into the sheet name and range.
func splitReference(ref string) (string, string) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ""
	}
	return strings.Trim(ref[:idx], "'"), ref[idx+1:]
}

// parseRowRange parses a whole-row range like $1:$3.
func parseRowRange(s string) (int, int, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "$", ""), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	last, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return first, last, true
}
