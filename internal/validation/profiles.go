package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/marcus/course-designer/internal/types"
)

var validate = validator.New()

// ValidateContentProfile checks a content profile against its input contract:
// a non-negative file count and quality sub-readings inside [0,100] when
// present. Topics and complexity are free text by design and never rejected.
// A nil profile is a contract violation; an empty one is not.
func ValidateContentProfile(profile *types.ContentProfile) error {
	if profile == nil {
		return &InvalidProfileError{
			Profile: "content profile",
			Issues:  []FieldIssue{{Field: "profile", Message: "must not be nil"}},
		}
	}

	var issues []FieldIssue
	if err := validate.Var(profile.FileCount, "gte=0"); err != nil {
		issues = append(issues, FieldIssue{
			Field:   "file_count",
			Message: fmt.Sprintf("must be non-negative, got %d", profile.FileCount),
		})
	}
	issues = append(issues, qualityIssues(profile.Quality)...)

	if len(issues) > 0 {
		return &InvalidProfileError{Profile: "content profile", Issues: issues}
	}
	return nil
}

// ValidateInterviewProfile checks an interview profile against its input
// contract: a completion percentage inside [0,100]. Answers are opaque free
// text and never rejected; an empty answer map is a valid zero-completion
// interview.
func ValidateInterviewProfile(profile *types.InterviewProfile) error {
	if profile == nil {
		return &InvalidProfileError{
			Profile: "interview profile",
			Issues:  []FieldIssue{{Field: "profile", Message: "must not be nil"}},
		}
	}

	if err := validate.Var(profile.CompletionPercentage, "gte=0,lte=100"); err != nil {
		return &InvalidProfileError{
			Profile: "interview profile",
			Issues: []FieldIssue{{
				Field:   "completion_percentage",
				Message: fmt.Sprintf("must be within [0,100], got %g", profile.CompletionPercentage),
			}},
		}
	}
	return nil
}

// ValidateProfiles validates both engine inputs, returning the first failure.
func ValidateProfiles(content *types.ContentProfile, interview *types.InterviewProfile) error {
	if err := ValidateContentProfile(content); err != nil {
		return err
	}
	return ValidateInterviewProfile(interview)
}

func qualityIssues(q *types.QualityRatings) []FieldIssue {
	if q == nil {
		return nil
	}
	readings := []struct {
		field string
		value *float64
	}{
		{"quality.clarity", q.Clarity},
		{"quality.completeness", q.Completeness},
		{"quality.structure", q.Structure},
		{"quality.currency", q.Currency},
	}

	var issues []FieldIssue
	for _, r := range readings {
		if r.value == nil {
			continue
		}
		if err := validate.Var(*r.value, "gte=0,lte=100"); err != nil {
			issues = append(issues, FieldIssue{
				Field:   r.field,
				Message: fmt.Sprintf("must be within [0,100], got %g", *r.value),
			})
		}
	}
	return issues
}
