package surveysheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const surveyJSON = `{
  "surveyName": "demo",
  "sections": [{
    "title": "A",
    "questions": [
      {"id": "Q1", "type": "checkbox",
       "options": [{"value": 1}, {"value": 2, "hasOther": true}, {"value": 3}],
       "csvMeta": {"section": "S1", "title": "Q1 title"}}
    ]
  }]
}`

const csvHeader = "survey\nexported\n-\nID,Q1_1,Q1_2,Q1_2_other,Q1_3,ts,op\n"

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = zap.NewNop()
	return opts
}

func TestBuildTemplateAndMerge(t *testing.T) {
	dir := t.TempDir()
	doc := write(t, filepath.Join(dir, "config", "demo.json"), surveyJSON)
	templatePath := filepath.Join(dir, "out", "template", "template_demo.xlsx")
	outputPath := filepath.Join(dir, "out", "demo_統合.xlsx")

	tr, err := BuildTemplate(doc, templatePath, testOptions())
	require.NoError(t, err)
	assert.False(t, tr.Skipped)
	assert.Equal(t, 7, tr.Columns)
	assert.FileExists(t, templatePath)

	again, err := BuildTemplate(doc, templatePath, testOptions())
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	a := write(t, filepath.Join(dir, "csv", "a.csv"), csvHeader+"101,1,,,,2024-01-01,sato\n102,,1,memo,,2024-01-02,sato\n")
	b := write(t, filepath.Join(dir, "csv", "b.csv"), "\xff\xfe\xfd")
	c := write(t, filepath.Join(dir, "csv", "c.csv"), csvHeader+"102,,,,1,2024-01-03,kato\n")

	report, err := MergeFiles(templatePath, outputPath, []string{a, b, c}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 2, report.Duplicates)
	assert.Equal(t, outputPath, report.OutputPath)
	require.Len(t, report.Batches, 3)
	assert.True(t, report.Batches[1].Unreadable())
	assert.Equal(t, 2, report.Batches[0].Records)

	wb, err := Inspect(outputPath, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "demo_統合.xlsx", wb.BookName)
	assert.Equal(t, 7, wb.Sheet.Columns)
	require.Len(t, wb.Sheet.Rows, 3)
	assert.Equal(t, "memo", wb.Sheet.Rows[1].C["D"])
	assert.Equal(t, []int{5, 6}, wb.Sheet.Duplicates)
	assert.Equal(t, "NO", wb.Sheet.Headers[0].C["A"])

	// Every run starts from the template, so re-merging gives the same rows.
	report, err = MergeFiles(templatePath, outputPath, []string{a, c}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, report.FirstRow)
}

func TestMergeFiles_NoRecords(t *testing.T) {
	dir := t.TempDir()
	doc := write(t, filepath.Join(dir, "demo.json"), surveyJSON)
	templatePath := filepath.Join(dir, "template.xlsx")
	outputPath := filepath.Join(dir, "merged.xlsx")
	_, err := BuildTemplate(doc, templatePath, testOptions())
	require.NoError(t, err)

	empty := write(t, filepath.Join(dir, "empty.csv"), csvHeader)
	report, err := MergeFiles(templatePath, outputPath, []string{empty}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 0, report.Duplicates)
	assert.Empty(t, report.OutputPath)
	assert.NoFileExists(t, outputPath)
}

func TestBuildTemplate_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	doc := write(t, filepath.Join(dir, "bad.yaml"), "sections:\n  - questions:\n      - id: Q1\n")
	templatePath := filepath.Join(dir, "template.xlsx")

	_, err := BuildTemplate(doc, templatePath, testOptions())
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, doc, cerr.Path)
	assert.Equal(t, "Q1", cerr.QuestionID)
	assert.NoFileExists(t, templatePath)
}
