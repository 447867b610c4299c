// Package models defines the data structures shared by layout derivation,
// record ingestion and sheet rendering.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Question type tags recognised by the layout deriver.
// Any other tag is treated as a generic single-column question.
const (
	TypeRadio      = "radio"
	TypeCheckbox   = "checkbox"
	TypeTable      = "table"
	TypeDateWareki = "date_wareki"
	TypeYearMonth  = "year_month"
	TypeNumberPair = "number_pair"
	TypeScale      = "scale"
)

// Document is a survey definition as loaded from JSON or YAML.
type Document struct {
	// SurveyName is the human-readable survey name.
	SurveyName string `json:"surveyName" yaml:"surveyName"`
	// StorageKey identifies the survey in the collecting application.
	StorageKey string `json:"storageKey" yaml:"storageKey"`
	// Sections holds the top-level question groups in document order.
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is a titled group of questions.
type Section struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a node of the question tree.
type Question struct {
	// ID is the question identifier. Required.
	ID string `json:"id" yaml:"id"`
	// Type is the type tag. Required.
	Type string `json:"type" yaml:"type"`
	// Options lists selectable values for radio and checkbox questions.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	// Rows lists the rows of a table question.
	Rows []TableRow `json:"rows,omitempty" yaml:"rows,omitempty"`
	// Columns lists the selectable values shared by every row of a table question.
	Columns []TableColumn `json:"columns,omitempty" yaml:"columns,omitempty"`
	// Fields lists the inputs of a number_pair question.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	// SubQuestions are processed right after this question.
	SubQuestions []Question `json:"subQuestions,omitempty" yaml:"subQuestions,omitempty"`
	// Meta carries the section label and title used in the sheet header.
	Meta Meta `json:"csvMeta" yaml:"csvMeta"`
}

// Option is one selectable value of a choice question.
type Option struct {
	Value Scalar `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	// HasOther marks an option that permits free-text elaboration.
	HasOther bool `json:"hasOther,omitempty" yaml:"hasOther,omitempty"`
}

// TableRow is one row of a table question.
type TableRow struct {
	ID    Scalar `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Meta  Meta   `json:"csvMeta" yaml:"csvMeta"`
}

// TableColumn is one selectable value of a table question.
type TableColumn struct {
	Value Scalar `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Field is one input of a number_pair question.
type Field struct {
	ID   string `json:"id" yaml:"id"`
	Meta Meta   `json:"csvMeta" yaml:"csvMeta"`
}

// Meta is the display metadata block. Empty strings mean "not set".
type Meta struct {
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Scalar is a document value that may be written as a string or a number.
// It is always handled as text.
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = Scalar(t)
	case json.Number:
		*s = Scalar(t.String())
	case bool:
		*s = Scalar(strconv.FormatBool(t))
	default:
		return fmt.Errorf("expected a scalar value, got %s", data)
	}
	return nil
}

// UnmarshalYAML accepts any scalar node.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

func (s Scalar) String() string {
	return string(s)
}
