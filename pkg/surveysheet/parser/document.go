package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"gopkg.in/yaml.v3"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatOf returns the document format implied by the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadDocument reads and decodes the survey document at path.
func LoadDocument(path string) (*models.Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data, format)
	if err != nil {
		return nil, &ConfigError{Path: path, Field: "document", Err: err}
	}
	return doc, nil
}

// ParseDocument decodes a survey document in the given format.
func ParseDocument(data []byte, format string) (*models.Document, error) {
	var doc models.Document
	switch format {
	case FormatJSON:
		// Accept a UTF-8 BOM, which some editors prepend.
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &doc, nil
}
