package models

import "strings"

// Record is one response row. The first value is the respondent identifier.
type Record []string

// Identifier returns the trimmed first value, or "" for an empty record.
func (r Record) Identifier() string {
	if len(r) == 0 {
		return ""
	}
	return strings.TrimSpace(r[0])
}

// Batch is the set of records read from one source file.
type Batch struct {
	// Source is the path the records were read from.
	Source string `json:"source"`
	// Encoding is the name of the encoding that decoded the file.
	Encoding string `json:"encoding,omitempty"`
	// Records in file order.
	Records []Record `json:"records"`
}
