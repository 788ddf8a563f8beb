package domain

import (
	"fmt"
	"strings"
)

// Category classifies a report and decides which list it is filed under.
type Category int

const (
	CategoryBug Category = iota
	CategoryFeedback
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBug, CategoryFeedback}

func (c Category) String() string {
	switch c {
	case CategoryBug:
		return "bug"
	case CategoryFeedback:
		return "feedback"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the name shown on the category buttons.
func (c Category) Label() string {
	switch c {
	case CategoryBug:
		return "Bug"
	case CategoryFeedback:
		return "Feedback"
	default:
		return c.String()
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryBug || c == CategoryFeedback
}

// ParseCategory accepts "bug" or "feedback" in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bug", "bugs":
		return CategoryBug, nil
	case "feedback":
		return CategoryFeedback, nil
	default:
		return 0, fmt.Errorf("unknown category %q (expected bug or feedback)", s)
	}
}

// Placeholder holds the hint texts rendered in empty form fields.
type Placeholder struct {
	Title       string
	Description string
}

// CategorySpec binds a category to its destination list and placeholders.
type CategorySpec struct {
	ListID      string
	Placeholder Placeholder
}

// DefaultTitlePlaceholder returns the title hint for a category.
func DefaultTitlePlaceholder(c Category) string {
	return c.Label() + " title..."
}
