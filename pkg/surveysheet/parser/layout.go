package parser

import (
	"fmt"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
)

// expandFunc appends the columns of a single question (not its sub-questions).
type expandFunc func(d *deriver, q models.Question, section, title string) error

// expanders maps a question type tag to its column expansion.
// Tags not listed here produce a single value column.
var expanders = map[string]expandFunc{
	models.TypeDateWareki: expandSuffixed([]suffix{
		{"_era", models.SuffixEra},
		{"_year", models.SuffixYear},
		{"_month", models.SuffixMonth},
		{"_day", models.SuffixDay},
	}),
	models.TypeYearMonth: expandSuffixed([]suffix{
		{"_year", models.SuffixYear},
		{"_month", models.SuffixMonth},
	}),
	models.TypeNumberPair: expandNumberPair,
	models.TypeRadio:      expandChoice,
	models.TypeCheckbox:   expandChoice,
	models.TypeTable:      expandTable,
	models.TypeScale:      expandSingle,
}

type suffix struct {
	id    string
	title string
}

// deriver accumulates columns during the depth-first walk.
type deriver struct {
	columns []models.Column
	spans   int
}

// DeriveLayout flattens a survey document into its ordered column layout.
// A question without an id or type yields a *ConfigError.
func DeriveLayout(doc *models.Document) (*models.Layout, error) {
	d := &deriver{}
	d.addSpan(models.Column{
		ID:    models.IdentifierColumnID,
		Group: models.IdentifierColumnID,
		Title: models.LabelIdentifier,
		Kind:  models.KindIdentifier,
	})

	for si, section := range doc.Sections {
		for qi, q := range section.Questions {
			if err := d.walk(q, "", fmt.Sprintf("sections[%d].questions[%d]", si, qi)); err != nil {
				return nil, err
			}
		}
	}

	d.addSpan(models.Column{
		ID:    models.TimestampColumnID,
		Group: models.TimestampColumnID,
		Title: models.LabelTimestamp,
		Kind:  models.KindTimestamp,
	})
	d.addSpan(models.Column{
		ID:    models.OperatorColumnID,
		Group: models.OperatorColumnID,
		Title: models.LabelOperator,
		Kind:  models.KindOperator,
	})

	return &models.Layout{
		SurveyName: doc.SurveyName,
		StorageKey: doc.StorageKey,
		Columns:    d.columns,
		Sections:   SectionRanges(d.columns),
		Spans:      Spans(d.columns),
	}, nil
}

// walk expands q and then its sub-questions, which inherit q's section
// unless they declare their own.
func (d *deriver) walk(q models.Question, inherited, path string) error {
	if q.ID == "" {
		return &ConfigError{Field: path + ".id", Err: errMissing}
	}
	if q.Type == "" {
		return &ConfigError{QuestionID: q.ID, Field: "type", Err: errMissing}
	}

	section := q.Meta.Section
	if section == "" {
		section = inherited
	}
	title := q.Meta.Title
	if title == "" {
		title = q.ID
	}

	expand, ok := expanders[q.Type]
	if !ok {
		expand = expandSingle
	}
	if err := expand(d, q, section, title); err != nil {
		return err
	}

	for i, sub := range q.SubQuestions {
		if err := d.walk(sub, section, fmt.Sprintf("%s.subQuestions[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (d *deriver) add(c models.Column) {
	d.columns = append(d.columns, c)
}

// addSpan appends c as the first column of a new header span.
func (d *deriver) addSpan(c models.Column) {
	c.Span = d.spans
	d.spans++
	d.add(c)
}

// addOptions appends one column per value, each followed by an "other"
// column when its index is in others.
func (d *deriver) addOptions(group, title, section string, values []string, others map[int]bool) {
	span := d.spans
	d.spans++
	for i, v := range values {
		d.add(models.Column{
			ID:          group + "_" + v,
			Group:       group,
			Title:       title,
			Section:     section,
			Kind:        models.KindOption,
			Option:      v,
			OptionIndex: i,
			Span:        span,
		})
		if others[i] {
			d.add(models.Column{
				ID:          group + "_" + v + "_other",
				Group:       group,
				Section:     section,
				Kind:        models.KindOther,
				Option:      v,
				OptionIndex: i,
				Span:        span,
			})
		}
	}
}

func expandSingle(d *deriver, q models.Question, section, title string) error {
	d.addSpan(models.Column{
		ID:      q.ID,
		Group:   q.ID,
		Title:   title,
		Section: section,
		Kind:    models.KindValue,
	})
	return nil
}

func expandSuffixed(parts []suffix) expandFunc {
	return func(d *deriver, q models.Question, section, title string) error {
		for _, p := range parts {
			id := q.ID + p.id
			d.addSpan(models.Column{
				ID:      id,
				Group:   id,
				Title:   title + p.title,
				Section: section,
				Kind:    models.KindValue,
			})
		}
		return nil
	}
}

func expandNumberPair(d *deriver, q models.Question, section, title string) error {
	for i, f := range q.Fields {
		if f.ID == "" {
			return &ConfigError{QuestionID: q.ID, Field: fmt.Sprintf("fields[%d].id", i), Err: errMissing}
		}
		fs, ft := section, title
		if f.Meta.Section != "" {
			fs = f.Meta.Section
		}
		if f.Meta.Title != "" {
			ft = f.Meta.Title
		}
		d.addSpan(models.Column{
			ID:      f.ID,
			Group:   f.ID,
			Title:   ft,
			Section: fs,
			Kind:    models.KindValue,
		})
	}
	return nil
}

func expandChoice(d *deriver, q models.Question, section, title string) error {
	if len(q.Options) == 0 {
		return expandSingle(d, q, section, title)
	}
	values := make([]string, len(q.Options))
	others := make(map[int]bool)
	for i, opt := range q.Options {
		values[i] = opt.Value.String()
		if opt.HasOther {
			others[i] = true
		}
	}
	d.addOptions(q.ID, title, section, values, others)
	return nil
}

// expandTable treats every row as a choice question over the table's column values.
func expandTable(d *deriver, q models.Question, section, title string) error {
	values := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		values[i] = c.Value.String()
	}
	for i, row := range q.Rows {
		if row.ID == "" {
			return &ConfigError{QuestionID: q.ID, Field: fmt.Sprintf("rows[%d].id", i), Err: errMissing}
		}
		group := q.ID + "_" + row.ID.String()
		rs, rt := section, row.Label
		if row.Meta.Section != "" {
			rs = row.Meta.Section
		}
		if row.Meta.Title != "" {
			rt = row.Meta.Title
		}
		if rt == "" {
			rt = group
		}
		if len(values) == 0 {
			d.addSpan(models.Column{ID: group, Group: group, Title: rt, Section: rs, Kind: models.KindValue})
			continue
		}
		d.addOptions(group, rt, rs, values, nil)
	}
	return nil
}

// SectionRanges groups columns into contiguous runs of equal section labels.
// A column without a label closes the open run and opens none.
func SectionRanges(columns []models.Column) []models.SectionRange {
	var ranges []models.SectionRange
	var open *models.SectionRange
	closeOpen := func() {
		if open != nil {
			ranges = append(ranges, *open)
			open = nil
		}
	}
	for i, c := range columns {
		col := i + 1
		switch {
		case c.Section == "":
			closeOpen()
		case open != nil && open.Name == c.Section:
			open.End = col
		default:
			closeOpen()
			open = &models.SectionRange{Name: c.Section, Start: col, End: col}
		}
	}
	closeOpen()
	return ranges
}

// Spans groups consecutive columns with the same span index into title
// regions. Questions sharing an id still get separate regions.
func Spans(columns []models.Column) []models.Span {
	var spans []models.Span
	for i, c := range columns {
		col := i + 1
		if n := len(spans); n > 0 && columns[i-1].Span == c.Span {
			spans[n-1].End = col
			continue
		}
		spans = append(spans, models.Span{Group: c.Group, Title: c.Title, Start: col, End: col})
	}
	return spans
}
