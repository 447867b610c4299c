package surveysheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/parser"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/sheet"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// TemplateResult describes the outcome of BuildTemplate.
type TemplateResult struct {
	Path    string
	Columns int
	// Skipped is true when an existing template was kept.
	Skipped bool
}

// BatchSummary describes one record file of a merge.
type BatchSummary struct {
	Source   string
	Encoding string
	Records  int
}

// Unreadable reports whether no encoding decoded the file.
func (b BatchSummary) Unreadable() bool {
	return b.Encoding == ""
}

// MergeReport describes the outcome of MergeFiles.
type MergeReport struct {
	sheet.MergeResult
	Batches []BatchSummary
	// OutputPath is set when the merged workbook was written.
	OutputPath string
}

// LoadLayout loads the survey document at docPath and derives its layout.
func LoadLayout(docPath string) (*models.Layout, error) {
	doc, err := parser.LoadDocument(docPath)
	if err != nil {
		return nil, err
	}
	layout, err := parser.DeriveLayout(doc)
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) && cerr.Path == "" {
			cerr.Path = docPath
		}
		return nil, err
	}
	return layout, nil
}

// BuildTemplate derives the layout of the document at docPath and writes the
// template workbook to templatePath. An existing template is kept unless
// opts.Force is set; the document is validated either way.
func BuildTemplate(docPath, templatePath string, opts Options) (*TemplateResult, error) {
	log := opts.logger()
	layout, err := LoadLayout(docPath)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		if _, err := os.Stat(templatePath); err == nil {
			log.Info("Template exists, skipping generation", zap.String("path", templatePath))
			return &TemplateResult{Path: templatePath, Columns: layout.Len(), Skipped: true}, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(templatePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}
	n, err := sheet.NewRenderer(opts.Theme, log).Save(layout, templatePath)
	if err != nil {
		return nil, err
	}
	return &TemplateResult{Path: templatePath, Columns: n}, nil
}

// MergeFiles reads the record files and merges them into a fresh copy of the
// template, writing the result to outputPath. Nothing is written when the
// files hold no records. Undecodable files contribute no records.
func MergeFiles(templatePath, outputPath string, recordPaths []string, opts Options) (*MergeReport, error) {
	log := opts.logger()
	reader, err := parser.NewRecordReader(opts.Encodings, opts.SkipLines, log)
	if err != nil {
		return nil, err
	}
	batches, err := reader.ReadAll(recordPaths)
	if err != nil {
		return nil, err
	}

	report := &MergeReport{}
	for _, b := range batches {
		report.Batches = append(report.Batches, BatchSummary{
			Source:   b.Source,
			Encoding: b.Encoding,
			Records:  len(b.Records),
		})
	}

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	res, err := sheet.NewMerger(opts.Theme, log).Merge(f, sheetName, batches)
	if err != nil {
		return nil, err
	}
	report.MergeResult = res
	if res.Inserted == 0 {
		log.Info("No records to merge", zap.Int("files", len(recordPaths)))
		return report, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return nil, fmt.Errorf("failed to save merged workbook: %w", err)
	}
	report.OutputPath = outputPath
	log.Info("Merged workbook written",
		zap.String("path", outputPath),
		zap.Int("inserted", res.Inserted),
		zap.Int("duplicates", res.Duplicates))
	return report, nil
}

// Inspect reads the active sheet of a merged workbook.
func Inspect(path string, opts Options) (*models.WorkbookData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	cols, err := sheet.ColumnCount(f, sheetName, rows)
	if err != nil {
		return nil, err
	}
	headers, err := parser.ExtractCells(f, sheetName, 1, models.HeaderRows)
	if err != nil {
		return nil, err
	}
	data, err := parser.ExtractCells(f, sheetName, models.FirstDataRow, 0)
	if err != nil {
		return nil, err
	}
	dups, err := sheet.DuplicateRows(f, sheetName, opts.Theme)
	if err != nil {
		return nil, err
	}

	return &models.WorkbookData{
		BookName:  filepath.Base(path),
		SheetName: sheetName,
		Sheet: models.SheetData{
			Columns:    cols,
			Headers:    headers,
			Rows:       data,
			Duplicates: dups,
		},
	}, nil
}
