package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
)

func choice(id string, values ...string) models.Question {
	q := models.Question{ID: id, Type: models.TypeCheckbox, Meta: models.Meta{Section: "S1", Title: id + " title"}}
	for _, v := range values {
		q.Options = append(q.Options, models.Option{Value: models.Scalar(v)})
	}
	return q
}

func docOf(questions ...models.Question) *models.Document {
	return &models.Document{
		SurveyName: "test",
		Sections:   []models.Section{{Title: "one", Questions: questions}},
	}
}

func TestDeriveLayout_ChoiceWithOther(t *testing.T) {
	q := choice("Q1", "1", "2", "3")
	q.Options[1].HasOther = true

	layout, err := DeriveLayout(docOf(q))
	require.NoError(t, err)

	want := []string{"ID", "Q1_1", "Q1_2", "Q1_2_other", "Q1_3", "timestamp", "operator"}
	if diff := cmp.Diff(want, layout.IDs()); diff != "" {
		t.Errorf("column ids mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, layout.Columns[1:], 6)

	other := layout.Columns[3]
	assert.Equal(t, models.KindOther, other.Kind)
	assert.Empty(t, other.Title)
	assert.Equal(t, "S1", other.Section)
	assert.Equal(t, "Q1", other.Group)

	for i, c := range layout.Columns[1:5] {
		if c.Kind == models.KindOption {
			assert.Equal(t, "Q1 title", c.Title, "column %d", i)
		}
	}
	assert.Equal(t, 2, layout.Columns[4].OptionIndex)
	assert.Equal(t, "3", layout.Columns[4].Option)
}

func TestDeriveLayout_OptionColumnCount(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for k := 0; k < n; k++ {
			values := make([]string, n)
			for i := range values {
				values[i] = string(rune('a' + i))
			}
			q := choice("Q", values...)
			q.Options[k].HasOther = true

			layout, err := DeriveLayout(docOf(q))
			require.NoError(t, err)

			var options, others int
			for i, c := range layout.Columns {
				switch c.Kind {
				case models.KindOption:
					options++
				case models.KindOther:
					others++
					prev := layout.Columns[i-1]
					assert.Equal(t, models.KindOption, prev.Kind)
					assert.Equal(t, k, prev.OptionIndex)
				}
			}
			assert.Equal(t, n, options)
			assert.Equal(t, 1, others)
		}
	}
}

func TestDeriveLayout_Deterministic(t *testing.T) {
	doc := docOf(
		choice("Q1", "1", "2"),
		models.Question{ID: "Q2", Type: models.TypeDateWareki, Meta: models.Meta{Section: "S2", Title: "birth"}},
		models.Question{ID: "Q3", Type: "text"},
	)
	first, err := DeriveLayout(doc)
	require.NoError(t, err)
	second, err := DeriveLayout(doc)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layouts differ (-first +second):\n%s", diff)
	}
}

func TestDeriveLayout_Expansions(t *testing.T) {
	tests := []struct {
		name   string
		q      models.Question
		ids    []string
		titles []string
	}{
		{
			name:   "date_wareki",
			q:      models.Question{ID: "D", Type: models.TypeDateWareki, Meta: models.Meta{Title: "生年月日"}},
			ids:    []string{"D_era", "D_year", "D_month", "D_day"},
			titles: []string{"生年月日_元号", "生年月日_年", "生年月日_月", "生年月日_日"},
		},
		{
			name:   "year_month",
			q:      models.Question{ID: "YM", Type: models.TypeYearMonth, Meta: models.Meta{Title: "開始"}},
			ids:    []string{"YM_year", "YM_month"},
			titles: []string{"開始_年", "開始_月"},
		},
		{
			name: "number_pair",
			q: models.Question{ID: "N", Type: models.TypeNumberPair, Meta: models.Meta{Title: "人数"},
				Fields: []models.Field{
					{ID: "N_adult", Meta: models.Meta{Title: "大人"}},
					{ID: "N_child"},
				}},
			ids:    []string{"N_adult", "N_child"},
			titles: []string{"大人", "人数"},
		},
		{
			name:   "scale",
			q:      models.Question{ID: "SC", Type: models.TypeScale, Options: []models.Option{{Value: "1"}}},
			ids:    []string{"SC"},
			titles: []string{"SC"},
		},
		{
			name:   "radio without options",
			q:      models.Question{ID: "R", Type: models.TypeRadio, Meta: models.Meta{Title: "r"}},
			ids:    []string{"R"},
			titles: []string{"r"},
		},
		{
			name:   "generic",
			q:      models.Question{ID: "T", Type: "textarea"},
			ids:    []string{"T"},
			titles: []string{"T"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := DeriveLayout(docOf(tt.q))
			require.NoError(t, err)

			body := layout.Columns[1 : len(layout.Columns)-2]
			var ids, titles []string
			for _, c := range body {
				ids = append(ids, c.ID)
				titles = append(titles, c.Title)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestDeriveLayout_Table(t *testing.T) {
	q := models.Question{
		ID:   "T",
		Type: models.TypeTable,
		Meta: models.Meta{Section: "S", Title: "table"},
		Rows: []models.TableRow{
			{ID: "a", Label: "row A"},
			{ID: "b", Label: "row B", Meta: models.Meta{Title: "custom B", Section: "S2"}},
		},
		Columns: []models.TableColumn{{Value: "1"}, {Value: "2"}, {Value: "3"}},
	}
	layout, err := DeriveLayout(docOf(q))
	require.NoError(t, err)

	want := []string{"ID", "T_a_1", "T_a_2", "T_a_3", "T_b_1", "T_b_2", "T_b_3", "timestamp", "operator"}
	assert.Equal(t, want, layout.IDs())
	assert.Equal(t, "row A", layout.Columns[1].Title)
	assert.Equal(t, "custom B", layout.Columns[4].Title)
	assert.Equal(t, "S2", layout.Columns[4].Section)
	assert.Equal(t, 0, layout.Columns[4].OptionIndex)

	assert.Equal(t, []models.SectionRange{
		{Name: "S", Start: 2, End: 4},
		{Name: "S2", Start: 5, End: 7},
	}, layout.Sections)
}

func TestDeriveLayout_SubQuestionsInheritSection(t *testing.T) {
	q := choice("Q1", "1", "2")
	q.SubQuestions = []models.Question{
		{ID: "Q1a", Type: "text"},
		{ID: "Q1b", Type: "text", Meta: models.Meta{Section: "other"},
			SubQuestions: []models.Question{{ID: "Q1b1", Type: "text"}}},
	}
	layout, err := DeriveLayout(docOf(q, models.Question{ID: "Q2", Type: "text"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Q1_1", "Q1_2", "Q1a", "Q1b", "Q1b1", "Q2", "timestamp", "operator"}, layout.IDs())
	assert.Equal(t, "S1", layout.Columns[3].Section)
	assert.Equal(t, "other", layout.Columns[4].Section)
	assert.Equal(t, "other", layout.Columns[5].Section)
	assert.Equal(t, "", layout.Columns[6].Section)
}

func TestDeriveLayout_MalformedQuestion(t *testing.T) {
	tests := []struct {
		name  string
		q     models.Question
		field string
	}{
		{"missing id", models.Question{Type: "text"}, "sections[0].questions[0].id"},
		{"missing type", models.Question{ID: "Q9"}, "type"},
		{"missing nested type", models.Question{ID: "Q1", Type: "text", SubQuestions: []models.Question{{ID: "Q1a"}}}, "type"},
		{"missing field id", models.Question{ID: "N", Type: models.TypeNumberPair, Fields: []models.Field{{}}}, "fields[0].id"},
		{"missing row id", models.Question{ID: "T", Type: models.TypeTable, Rows: []models.TableRow{{Label: "x"}}}, "rows[0].id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := DeriveLayout(docOf(tt.q))
			require.Error(t, err)
			assert.Nil(t, layout)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
			assert.ErrorIs(t, err, errMissing)
		})
	}
}

func TestSectionRanges(t *testing.T) {
	cols := []models.Column{
		{ID: "ID"},
		{ID: "a", Section: "A"},
		{ID: "b", Section: "A"},
		{ID: "x"},
		{ID: "c", Section: "A"},
		{ID: "d", Section: "B"},
		{ID: "t"},
	}
	got := SectionRanges(cols)
	want := []models.SectionRange{
		{Name: "A", Start: 2, End: 3},
		{Name: "A", Start: 5, End: 5},
		{Name: "B", Start: 6, End: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("section ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestSpans(t *testing.T) {
	q := choice("Q1", "1", "2")
	q.Options[1].HasOther = true
	layout, err := DeriveLayout(docOf(q, models.Question{ID: "Q2", Type: "text", Meta: models.Meta{Title: "free"}}))
	require.NoError(t, err)

	want := []models.Span{
		{Group: "ID", Title: "NO", Start: 1, End: 1},
		{Group: "Q1", Title: "Q1 title", Start: 2, End: 4},
		{Group: "Q2", Title: "free", Start: 5, End: 5},
		{Group: "timestamp", Title: "入力日時", Start: 6, End: 6},
		{Group: "operator", Title: "入力者", Start: 7, End: 7},
	}
	if diff := cmp.Diff(want, layout.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 5: true, 6: true, 7: true}, layout.QuestionStarts())
}

func TestSpans_RepeatedQuestionIDs(t *testing.T) {
	first := models.Question{ID: "Q9", Type: "text", Meta: models.Meta{Title: "first"}}
	second := models.Question{ID: "Q9", Type: "text", Meta: models.Meta{Title: "second"}}
	layout, err := DeriveLayout(docOf(first, second))
	require.NoError(t, err)

	want := []models.Span{
		{Group: "ID", Title: "NO", Start: 1, End: 1},
		{Group: "Q9", Title: "first", Start: 2, End: 2},
		{Group: "Q9", Title: "second", Start: 3, End: 3},
		{Group: "timestamp", Title: "入力日時", Start: 4, End: 4},
		{Group: "operator", Title: "入力者", Start: 5, End: 5},
	}
	if diff := cmp.Diff(want, layout.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, layout.QuestionStarts()[3])
}

func TestSpans_RepeatedChoiceIDs(t *testing.T) {
	layout, err := DeriveLayout(docOf(choice("Q1", "1", "2"), choice("Q1", "1", "2")))
	require.NoError(t, err)

	require.Len(t, layout.Spans, 5)
	assert.Equal(t, 2, layout.Spans[1].Start)
	assert.Equal(t, 3, layout.Spans[1].End)
	assert.Equal(t, 4, layout.Spans[2].Start)
	assert.Equal(t, 5, layout.Spans[2].End)
}
