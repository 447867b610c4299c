// Package output serializes inspection results and layouts.
package output

import (
	"encoding/json"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
)

// ToJSON serializes an inspected workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// LayoutToJSON serializes a derived layout.
func LayoutToJSON(layout *models.Layout, pretty bool) ([]byte, error) {
	return marshal(layout, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
