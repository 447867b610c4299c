// Package discovery locates the survey document, record files and output
// paths inside a working directory.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
)

var (
	// ErrNoDocument indicates the config directory holds no survey document.
	ErrNoDocument = errors.New("no survey document found")
	// ErrNoRecords indicates the record directory holds no CSV files.
	ErrNoRecords = errors.New("no record files found")
	// ErrRecordDirCreated indicates the record directory was missing and has
	// been created empty.
	ErrRecordDirCreated = errors.New("record directory created")
)

var documentExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// FindDocument returns the first survey document in dir, by file name.
func FindDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w in %s", ErrNoDocument, dir)
		}
		return "", fmt.Errorf("failed to read config directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if documentExts[strings.ToLower(filepath.Ext(e.Name()))] {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDocument, dir)
}

// FindRecords returns the CSV files in dir sorted by name. A missing dir is
// created and reported as ErrRecordDirCreated.
func FindRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create record directory: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrRecordDirCreated, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsRecordFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// IsRecordFile reports whether name looks like a record export.
func IsRecordFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// Stem returns the document file name without its extension.
func Stem(docPath string) string {
	base := filepath.Base(docPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TemplatePath returns the template workbook path for docPath.
func TemplatePath(templateDir, docPath string) string {
	return filepath.Join(templateDir, "template_"+Stem(docPath)+".xlsx")
}

// OutputPath returns the merged workbook path for docPath.
func OutputPath(outputDir, docPath string) string {
	return filepath.Join(outputDir, Stem(docPath)+models.MergedFileSuffix+".xlsx")
}
