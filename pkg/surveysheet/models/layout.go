package models

// SectionRange is a contiguous run of columns sharing a section label.
type SectionRange struct {
	// Name is the section label.
	Name string `json:"name"`
	// Start is the first column (1-based).
	Start int `json:"start"`
	// End is the last column (1-based, inclusive).
	End int `json:"end"`
}

// Span is the header region of one question: its title sits on Start and
// covers every column through End.
type Span struct {
	// Group is the group of the span's columns.
	Group string `json:"group"`
	// Title is written once on Start.
	Title string `json:"title"`
	// Start is the first column (1-based).
	Start int `json:"start"`
	// End is the last column (1-based, inclusive).
	End int `json:"end"`
}

// Layout is the flattened column list derived from a survey document.
type Layout struct {
	// SurveyName is copied from the document.
	SurveyName string `json:"survey_name,omitempty"`
	// StorageKey is copied from the document.
	StorageKey string `json:"storage_key,omitempty"`
	// Columns in output order, identifier first, timestamp and operator last.
	Columns []Column `json:"columns"`
	// Sections are the header banding ranges.
	Sections []SectionRange `json:"sections,omitempty"`
	// Spans are the per-question title regions.
	Spans []Span `json:"spans"`
}

// Len returns the number of columns.
func (l *Layout) Len() int {
	return len(l.Columns)
}

// IDs returns the column identifiers in order.
func (l *Layout) IDs() []string {
	ids := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		ids[i] = c.ID
	}
	return ids
}

// QuestionStarts returns the set of 1-based columns that open a span.
func (l *Layout) QuestionStarts() map[int]bool {
	starts := make(map[int]bool, len(l.Spans))
	for _, s := range l.Spans {
		starts[s.Start] = true
	}
	return starts
}
