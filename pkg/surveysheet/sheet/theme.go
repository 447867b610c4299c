// Package sheet renders survey layouts into excelize workbooks and merges
// response records into them.
package sheet

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tiendc/go-deepcopy"
)

// ErrInvalidTemplate indicates a workbook that lacks the expected header rows.
var ErrInvalidTemplate = errors.New("invalid template structure")

// Theme is the styling applied to templates and merged rows.
type Theme struct {
	FontFamily string
	FontSize   float64
	// Fill colors as RRGGBB.
	FillDuplicate string
	FillOdd       string
	FillEven      string
	// Column widths.
	WidthIdentifier float64
	WidthGlyph      float64
	WidthText       float64
	// HeaderHeights are the heights of the three header rows.
	HeaderHeights [3]float64
	// Glyphs labels option index i; indexes beyond it render as "(i)".
	Glyphs []string
}

// DefaultTheme returns the standard styling.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:      "游ゴシック",
		FontSize:        10,
		FillDuplicate:   "FFFF00",
		FillOdd:         "FFFFFF",
		FillEven:        "F2F2F2",
		WidthIdentifier: 6,
		WidthGlyph:      3.5,
		WidthText:       8,
		HeaderHeights:   [3]float64{20, 18, 18},
		Glyphs: []string{
			"⓪", "①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩",
			"⑪", "⑫", "⑬", "⑭", "⑮", "⑯", "⑰", "⑱", "⑲", "⑳",
			"㉑", "㉒", "㉓", "㉔", "㉕", "㉖", "㉗", "㉘", "㉙", "㉚",
			"㉛", "㉜", "㉝", "㉞", "㉟", "㊱", "㊲", "㊳", "㊴", "㊵",
			"㊶", "㊷", "㊸", "㊹", "㊺", "㊻", "㊼", "㊽", "㊾", "㊿",
		},
	}
}

// Clone returns a deep copy that can be modified independently.
func (t Theme) Clone() (Theme, error) {
	var out Theme
	if err := deepcopy.Copy(&out, t); err != nil {
		return Theme{}, fmt.Errorf("failed to copy theme: %w", err)
	}
	return out, nil
}

// Glyph returns the label for a 0-based option index.
func (t Theme) Glyph(index int) string {
	if index >= 0 && index < len(t.Glyphs) {
		return t.Glyphs[index]
	}
	return "(" + strconv.Itoa(index) + ")"
}
