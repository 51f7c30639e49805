// Package validation enforces the input contract for profiles entering the
// scoring engine. The engine itself clamps defensively and never fails on
// sparse input; this layer is where structurally invalid caller data gets
// reported instead of silently absorbed.
package validation

import (
	"fmt"
	"strings"
)

// FieldIssue describes one contract violation on an input profile.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// InvalidProfileError aggregates every contract violation found on a profile,
// so callers see the full list in one round trip.
type InvalidProfileError struct {
	Profile string
	Issues  []FieldIssue
}

func (e *InvalidProfileError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Profile, strings.Join(parts, "; "))
}
