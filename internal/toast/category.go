package toast

import (
	"unicode"
	"unicode/utf8"
)

// Category selects a toast's colour and icon.
type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Warning Category = "warning"
	Info    Category = "info"
)

// Style is the presentation of a category.
type Style struct {
	Background string // bootstrap background class
	Icon       string // bootstrap-icons name
}

var styles = map[Category]Style{
	Success: {Background: "bg-success", Icon: "check-circle"},
	Error:   {Background: "bg-danger", Icon: "x-circle"},
	Warning: {Background: "bg-warning", Icon: "info-circle"},
	Info:    {Background: "bg-info", Icon: "info-circle"},
}

// neutral is used for any category outside the known four.
var neutral = Style{Background: "bg-secondary", Icon: "info-circle"}

// ParseCategory maps an omitted (empty) category to Info. Matching is
// exact: "ERROR" is not Error and renders neutral, labelled as given.
func ParseCategory(s string) Category {
	if s == "" {
		return Info
	}
	return Category(s)
}

// Known reports whether c is one of the four styled categories.
func (c Category) Known() bool {
	_, ok := styles[c]
	return ok
}

// Style returns the category's presentation, neutral when unknown.
func (c Category) Style() Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return neutral
}

// Label is the header text: the category with its first letter upper-cased.
func (c Category) Label() string {
	r, size := utf8.DecodeRuneInString(string(c))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + string(c)[size:]
}
