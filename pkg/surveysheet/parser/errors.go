package parser

import (
	"errors"
	"fmt"
)

// ErrUndecodable indicates that none of the configured encodings decoded a record file.
var ErrUndecodable = errors.New("no supported encoding decodes the file")

// ErrUnknownFormat indicates a survey document with an unsupported file extension.
var ErrUnknownFormat = errors.New("unknown document format")

// ConfigError reports a malformed survey document.
type ConfigError struct {
	Path       string
	QuestionID string
	Field      string
	Err        error
}

func (e *ConfigError) Error() string {
	where := e.Path
	if where == "" {
		where = "document"
	}
	if e.QuestionID != "" {
		return fmt.Sprintf("%s: question %q: %s: %v", where, e.QuestionID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", where, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var errMissing = errors.New("required field missing")
