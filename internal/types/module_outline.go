// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ModuleOutline is the planned course structure assembled after strategy
// recommendations are accepted. It groups source topics into sequenced
// modules, each delivered with one of the recommended strategies.
type ModuleOutline struct {
	CourseTitle     string         `json:"course_title"`
	PrimaryStrategy string         `json:"primary_strategy"`
	Modules         []CourseModule `json:"modules"`
	GeneratedAt     string         `json:"generated_at"`
}

// CourseModule is a single sequenced unit in a module outline.
type CourseModule struct {
	Number          int      `json:"number"`
	Title           string   `json:"title"`
	Objective       string   `json:"objective"`
	Topics          []string `json:"topics"`
	Strategy        string   `json:"strategy"`
	DurationMinutes int      `json:"duration_minutes"`
	Assessment      string   `json:"assessment,omitempty"`
}

// ModuleCount returns the number of modules in the outline.
func (o *ModuleOutline) ModuleCount() int {
	return len(o.Modules)
}

// TotalDurationMinutes sums the planned duration across all modules.
func (o *ModuleOutline) TotalDurationMinutes() int {
	total := 0
	for _, m := range o.Modules {
		total += m.DurationMinutes
	}
	return total
}

// TopicCoverage returns every topic assigned to a module, in module order.
// Duplicate topics across modules appear once, first assignment wins.
func (o *ModuleOutline) TopicCoverage() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, m := range o.Modules {
		for _, t := range m.Topics {
			if !seen[t] {
				seen[t] = true
				topics = append(topics, t)
			}
		}
	}
	return topics
}
