package models

// ColumnKind classifies a column of the flattened layout.
type ColumnKind int

const (
	// KindIdentifier is the leading respondent identifier column.
	KindIdentifier ColumnKind = iota
	// KindValue holds a single free value (text, scale, date part, number).
	KindValue
	// KindOption holds the mark for one selectable option.
	KindOption
	// KindOther holds free text elaborating the preceding option.
	KindOther
	// KindTimestamp is the trailing entry timestamp column.
	KindTimestamp
	// KindOperator is the trailing operator column.
	KindOperator
)

// Fixed identifiers of the non-question columns.
const (
	IdentifierColumnID = "ID"
	TimestampColumnID  = "timestamp"
	OperatorColumnID   = "operator"
)

// Column is one unit of the flattened layout.
type Column struct {
	// ID is the column identifier, e.g. "Q1_2" or "Q1_2_other".
	ID string `json:"id"`
	// Group is the identifier of the header span the column belongs to.
	// Option and other columns of one question share a group.
	Group string `json:"group"`
	// Title is the owning question's title. Empty for other columns.
	Title string `json:"title,omitempty"`
	// Section is the owning question's section label.
	Section string `json:"section,omitempty"`
	// Kind classifies the column.
	Kind ColumnKind `json:"kind"`
	// Option is the literal option value for option and other columns.
	Option string `json:"option,omitempty"`
	// OptionIndex is the 0-based position of Option among the declared options.
	OptionIndex int `json:"option_index"`
	// Span is the 0-based index of the header span the column belongs to.
	Span int `json:"span"`
}

// HasGlyph reports whether the column is labelled with an option glyph.
func (c Column) HasGlyph() bool {
	return c.Kind == KindOption
}

// IsNarrow reports whether the column carries a per-option marker rather than free text.
func (c Column) IsNarrow() bool {
	return c.Kind == KindOption || c.Kind == KindOther
}
