package parser

import (
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells returns the non-empty rows of a sheet between firstRow and
// lastRow (1-based, inclusive). A lastRow of 0 reads to the end of the sheet.
func ExtractCells(f *excelize.File, sheetName string, firstRow, lastRow int) ([]models.CellRow, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var result []models.CellRow
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1
		if rowNum < firstRow || (lastRow > 0 && rowNum > lastRow) {
			continue
		}
		cellMap := make(map[string]string)
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			name, err := excelize.ColumnNumberToName(colIdx + 1)
			if err != nil {
				return nil, err
			}
			cellMap[name] = cellValue
		}
		if len(cellMap) > 0 {
			result = append(result, models.CellRow{R: rowNum, C: cellMap})
		}
	}

	return result, nil
}
