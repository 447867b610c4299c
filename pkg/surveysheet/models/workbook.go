package models

// WorkbookData is the inspection result for one workbook.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetName is the inspected sheet.
	SheetName string `json:"sheet_name"`
	// Sheet holds the sheet content.
	Sheet SheetData `json:"sheet"`
}
