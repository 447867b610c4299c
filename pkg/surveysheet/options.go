// Package surveysheet builds spreadsheet templates from survey definitions
// and merges response exports into them.
package surveysheet

import (
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/parser"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/sheet"
	"go.uber.org/zap"
)

// Options configures template generation and merging.
type Options struct {
	// Theme is the styling for templates and merged rows.
	Theme sheet.Theme
	// Encodings are tried in order when decoding record files.
	Encodings []string
	// SkipLines is the number of leading CSV rows ignored in every record file.
	SkipLines int
	// Force regenerates a template that already exists.
	Force bool
	// Logger receives progress logs. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Theme:     sheet.DefaultTheme(),
		Encodings: parser.DefaultEncodings,
		SkipLines: parser.DefaultSkipLines,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
