package models

// SheetData is the inspected content of a merged sheet.
type SheetData struct {
	// Columns is the number of layout columns found in the header.
	Columns int `json:"columns"`
	// Headers contains the three header rows.
	Headers []CellRow `json:"headers,omitempty"`
	// Rows contains the non-empty data rows.
	Rows []CellRow `json:"rows,omitempty"`
	// Duplicates lists the data rows carrying the duplicate highlight.
	Duplicates []int `json:"duplicates,omitempty"`
}
