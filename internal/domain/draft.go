package domain

import (
	"fmt"
	"unicode/utf8"
)

// MaxDescriptionLength is the description limit, counted in characters.
const MaxDescriptionLength = 500

// Draft is the report being edited before it is submitted.
type Draft struct {
	Title             string
	Description       string
	Category          Category
	IncludeScreenshot bool
}

// Empty reports whether the draft carries no user input.
func (d Draft) Empty() bool {
	return d.Title == "" && d.Description == "" && !d.IncludeScreenshot
}

// Cleared returns the draft with its user input removed. The category is kept.
func (d Draft) Cleared() Draft {
	return Draft{Category: d.Category}
}

// TruncateDescription keeps the first MaxDescriptionLength characters of s.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxDescriptionLength {
			return s[:i]
		}
		n++
	}
	return s
}

// CharCount renders the length indicator shown under the description field.
func CharCount(description string) string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(description), MaxDescriptionLength)
}
