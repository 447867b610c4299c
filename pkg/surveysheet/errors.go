package surveysheet

import (
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/parser"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/sheet"
)

// ErrUndecodable indicates a record file no configured encoding could decode.
var ErrUndecodable = parser.ErrUndecodable

// ErrInvalidTemplate indicates a workbook that lacks the expected header rows.
var ErrInvalidTemplate = sheet.ErrInvalidTemplate

// ConfigError reports a malformed survey document.
type ConfigError = parser.ConfigError
