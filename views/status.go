// Package views holds the HTMX fragments returned when a request carries
// the HX-Request header. Markup lives in the .templ files; run
// `templ generate` after editing them.
package views

import (
	"strings"

	"boqtracker/boq"
)

var statusClasses = map[boq.Status]string{
	boq.StatusDraft:     "badge-draft",
	boq.StatusSubmitted: "badge-submitted",
	boq.StatusInReview:  "badge-review",
	boq.StatusApproved:  "badge-approved",
	boq.StatusRejected:  "badge-rejected",
}

// StatusLabel turns "in-review" into "In Review".
func StatusLabel(s boq.Status) string {
	words := strings.Split(s.String(), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func statusClass(s boq.Status) string {
	if class, ok := statusClasses[s]; ok {
		return class
	}
	return "badge-unknown"
}
