package models

// CellRow represents a single non-empty sheet row.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column letter to cell text.
	C map[string]string `json:"c"`
}
