package domain

import (
	"strings"
	"time"
)

// TimestampLayout formats the submit time written into the card footer.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// ComposeDescription wraps the user text with the details header and the
// extra info footer sent with every card.
func ComposeDescription(description, appVersion string, at time.Time) string {
	var b strings.Builder
	b.WriteString("### Details\n")
	b.WriteString(description)
	b.WriteString("\n\n### Extra Info\n")
	b.WriteString("Application Version: ")
	b.WriteString(appVersion)
	b.WriteString("\nDate and Time: ")
	b.WriteString(at.Format(TimestampLayout))
	return b.String()
}
