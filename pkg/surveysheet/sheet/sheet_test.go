package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/parser"
)

// scenarioLayout is Q1 with options 1,2,3 where 2 permits free text.
func scenarioLayout(t *testing.T) *models.Layout {
	t.Helper()
	doc := &models.Document{Sections: []models.Section{{Questions: []models.Question{{
		ID:   "Q1",
		Type: models.TypeCheckbox,
		Meta: models.Meta{Section: "S1", Title: "Q1 title"},
		Options: []models.Option{
			{Value: "1"},
			{Value: "2", HasOther: true},
			{Value: "3"},
		},
	}}}}}
	layout, err := parser.DeriveLayout(doc)
	require.NoError(t, err)
	return layout
}

func renderScenario(t *testing.T) *excelize.File {
	t.Helper()
	f, err := NewRenderer(DefaultTheme(), nil).Render(scenarioLayout(t))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(models.SheetName, cell)
	require.NoError(t, err)
	return v
}

func cellFill(t *testing.T, f *excelize.File, cell, rgb string) bool {
	t.Helper()
	id, err := f.GetCellStyle(models.SheetName, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	return hasFill(style, rgb)
}
