// Package catalog provides the static registry of instructional strategy definitions.
package catalog

import (
	"strings"

	"github.com/marcus/course-designer/internal/types"
)

// strategies is the fixed catalog, in presentation order. Order matters:
// the ranker breaks score ties by catalog position, so entries are
// append-only and never reordered.
var strategies = []types.StrategyDefinition{
	{
		Name:        "Scenario-Based Learning",
		Description: "Learners work through realistic workplace situations that branch on their decisions. Each scenario mirrors the judgment calls the role actually demands.",
		UseCases: []string{
			"Compliance decision training",
			"Customer interaction practice",
			"Safety judgment drills",
			"Clinical decision support",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"New hires", "Frontline staff", "Clinical teams"},
			ContentTypes:    []string{"procedural", "compliance", "soft skills"},
			TimeConstraints: "Moderate",
			Complexity:      "medium",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Branching scenarios", "Case walkthroughs", "Decision-point videos"},
			Duration: "30-45 minutes per scenario",
			Delivery: "Self-paced online",
		},
		ContentTypeMatch: map[string]float64{
			"procedural": 85,
			"compliance": 88,
			"decision":   90,
			"safety":     85,
			"customer":   80,
		},
		Icon:  "🎭",
		Color: "#6366F1",
	},
	{
		Name:        "Interactive Video Lessons",
		Description: "Video instruction with embedded questions, clickable hotspots, and pause-point checks. Keeps attention high for material that benefits from demonstration.",
		UseCases: []string{
			"Software walkthroughs",
			"Equipment demonstrations",
			"Process overviews",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Visual learners", "Remote employees"},
			ContentTypes:    []string{"technical", "procedural", "software"},
			TimeConstraints: "Flexible",
			Complexity:      "medium",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Annotated video", "In-video quizzes", "Chaptered screencasts"},
			Duration: "10-20 minutes per lesson",
			Delivery: "Self-paced online",
		},
		ContentTypeMatch: map[string]float64{
			"software":      90,
			"technical":     85,
			"process":       82,
			"demonstration": 88,
		},
		Icon:  "🎬",
		Color: "#F59E0B",
	},
	{
		Name:        "Microlearning Modules",
		Description: "Single-objective lessons sized for attention spans measured in minutes. Fits into the workday without pulling people off the floor.",
		UseCases: []string{
			"Just-in-time reference",
			"Mobile workforce training",
			"Spaced reinforcement",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Busy professionals", "Mobile workers", "Field teams"},
			ContentTypes:    []string{"factual", "procedural", "reference"},
			TimeConstraints: "Very limited",
			Complexity:      "low",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Short videos", "Flashcards", "Quick-check quizzes"},
			Duration: "5-10 minutes per module",
			Delivery: "Mobile-first",
		},
		ContentTypeMatch: map[string]float64{
			"reference": 85,
			"factual":   88,
			"policy":    75,
			"product":   80,
		},
		Icon:  "⚡",
		Color: "#10B981",
	},
	{
		Name:        "Hands-On Workshops",
		Description: "Instructor-guided sessions where learners practice real tasks on real tools. Skills transfer fastest when the practice environment matches the job.",
		UseCases: []string{
			"Equipment operation",
			"Lab technique training",
			"New system onboarding",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Kinesthetic learners", "Technicians", "Operations staff"},
			ContentTypes:    []string{"procedural", "technical", "equipment"},
			TimeConstraints: "Dedicated sessions",
			Complexity:      "medium",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Guided practice", "Lab exercises", "Peer demonstrations"},
			Duration: "2-4 hours per workshop",
			Delivery: "In-person or virtual classroom",
		},
		ContentTypeMatch: map[string]float64{
			"procedural": 92,
			"equipment":  95,
			"technical":  85,
			"hands-on":   90,
			"laboratory": 88,
		},
		Icon:  "🔧",
		Color: "#EF4444",
	},
	{
		Name:        "Virtual Simulation Labs",
		Description: "Immersive practice environments let learners rehearse high-stakes procedures safely. Mistakes cost nothing here and everything on the job.",
		UseCases: []string{
			"Clinical procedure rehearsal",
			"Emergency response drills",
			"Complex equipment training",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Clinical teams", "Safety-critical roles", "Advanced practitioners"},
			ContentTypes:    []string{"procedural", "clinical", "safety"},
			TimeConstraints: "Dedicated sessions",
			Complexity:      "high",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"3D simulations", "Virtual patient encounters", "Digital twin walkthroughs"},
			Duration: "4-6 weeks including lab configuration",
			Delivery: "Virtual lab platform",
		},
		ContentTypeMatch: map[string]float64{
			"clinical":   95,
			"patient":    94,
			"healthcare": 92,
			"emergency":  92,
			"safety":     90,
			"procedural": 85,
		},
		Icon:  "🧪",
		Color: "#8B5CF6",
	},
	{
		Name:        "Gamified Learning Paths",
		Description: "Points, streaks, and leaderboards wrapped around structured content. Motivation mechanics keep completion rates up across long curricula.",
		UseCases: []string{
			"Annual compliance refreshers",
			"Sales enablement",
			"Onboarding journeys",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Competitive learners", "Large cohorts"},
			ContentTypes:    []string{"factual", "compliance", "product"},
			TimeConstraints: "Flexible",
			Complexity:      "low",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Challenge tracks", "Badges and leaderboards", "Team competitions"},
			Duration: "15-20 minutes per challenge",
			Delivery: "Self-paced online",
		},
		ContentTypeMatch: map[string]float64{
			"compliance": 82,
			"product":    85,
			"sales":      88,
			"onboarding": 80,
		},
		Icon:  "🏆",
		Color: "#F97316",
	},
	{
		Name:        "Adaptive Learning Paths",
		Description: "Diagnostic-driven sequencing that routes each learner around what they already know. Seat time goes only where the gaps are.",
		UseCases: []string{
			"Mixed-experience cohorts",
			"Certification preparation",
			"Remediation programs",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Mixed-skill cohorts", "Experienced staff", "Career changers"},
			ContentTypes:    []string{"Any content type"},
			TimeConstraints: "Flexible",
			Complexity:      "any level",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Diagnostic pre-assessments", "Branching content paths", "Mastery checkpoints"},
			Duration: "2-4 weeks of path configuration",
			Delivery: "Adaptive platform",
		},
		ContentTypeMatch: map[string]float64{
			"certification": 88,
			"assessment":    85,
			"mixed":         80,
		},
		Icon:  "🧭",
		Color: "#06B6D4",
	},
	{
		Name:        "Social Learning Communities",
		Description: "Structured peer discussion, shared workspaces, and expert office hours. Knowledge that lives in people's heads moves through conversation.",
		UseCases: []string{
			"Communities of practice",
			"Leadership development",
			"Cross-team knowledge sharing",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Collaborative learners", "Distributed teams", "Managers"},
			ContentTypes:    []string{"soft skills", "conceptual", "leadership"},
			TimeConstraints: "Ongoing",
			Complexity:      "medium",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Discussion cohorts", "Peer review circles", "Expert office hours"},
			Duration: "45-60 minutes per session",
			Delivery: "Cohort-based online",
		},
		ContentTypeMatch: map[string]float64{
			"leadership":    90,
			"soft skills":   88,
			"communication": 85,
			"management":    82,
		},
		Icon:  "💬",
		Color: "#3B82F6",
	},
	{
		Name:        "Storytelling-Driven Modules",
		Description: "Narrative arcs carry the teaching points through characters and consequences. Stories stick where bullet lists slide off.",
		UseCases: []string{
			"Culture and values training",
			"Ethics case studies",
			"Change management",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"New hires", "General audiences"},
			ContentTypes:    []string{"conceptual", "culture", "ethics"},
			TimeConstraints: "Moderate",
			Complexity:      "low",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Narrative videos", "Illustrated case arcs", "Character-driven scenarios"},
			Duration: "20-30 minutes per module",
			Delivery: "Self-paced online",
		},
		ContentTypeMatch: map[string]float64{
			"culture":   90,
			"ethics":    88,
			"values":    85,
			"narrative": 92,
			"history":   80,
		},
		Icon:  "📖",
		Color: "#EC4899",
	},
	{
		Name:        "Competency Assessment Tracks",
		Description: "Assessment-first design that certifies observable skills against a defined rubric. Every module exists to close a measured gap.",
		UseCases: []string{
			"Regulatory certification",
			"Skills verification",
			"Annual revalidation",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Regulated roles", "Certification candidates"},
			ContentTypes:    []string{"procedural", "compliance", "clinical"},
			TimeConstraints: "Scheduled windows",
			Complexity:      "medium",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Rubric-scored assessments", "Observed checklists", "Knowledge exams"},
			Duration: "1-2 hours per track",
			Delivery: "Blended",
		},
		ContentTypeMatch: map[string]float64{
			"compliance":    92,
			"certification": 95,
			"regulatory":    90,
			"clinical":      85,
			"audit":         85,
		},
		Icon:  "📋",
		Color: "#14B8A6",
	},
	{
		Name:        "Guided Case Study Analysis",
		Description: "Facilitated deep dives into real incidents and decisions with structured debriefs. Analysis skills build by dissecting how outcomes actually happened.",
		UseCases: []string{
			"Incident retrospectives",
			"Business decision training",
			"Root cause practice",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Analysts", "Senior staff", "Managers"},
			ContentTypes:    []string{"analytical", "case-based", "business"},
			TimeConstraints: "Dedicated sessions",
			Complexity:      "high",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Annotated case packets", "Facilitated debriefs", "Written analyses"},
			Duration: "60-90 minutes per case",
			Delivery: "Instructor-led",
		},
		ContentTypeMatch: map[string]float64{
			"analysis": 90,
			"business": 85,
			"incident": 88,
			"case":     92,
			"decision": 85,
		},
		Icon:  "🔍",
		Color: "#A855F7",
	},
	{
		Name:        "Structured Reading Modules",
		Description: "Sequenced readings with summaries and end-of-section comprehension checks. The dependable baseline when interactivity adds little.",
		UseCases: []string{
			"Policy distribution",
			"Reference material rollout",
			"Pre-work for live sessions",
		},
		IdealFor: types.StrategyFit{
			LearnerTypes:    []string{"Self-directed learners", "Any audience"},
			ContentTypes:    []string{"Any content type"},
			TimeConstraints: "Flexible",
			Complexity:      "any level",
		},
		Implementation: types.StrategyImplementation{
			Formats:  []string{"Curated readings", "Section summaries", "Comprehension checks"},
			Duration: "Self-paced",
			Delivery: "Document portal",
		},
		ContentTypeMatch: map[string]float64{
			"policy":        80,
			"reference":     82,
			"documentation": 78,
		},
		Icon:  "📚",
		Color: "#64748B",
	},
}

// All returns the full catalog in its fixed order. Callers must treat the
// returned definitions as read-only.
func All() []types.StrategyDefinition {
	return strategies
}

// Size returns the number of strategies in the catalog.
func Size() int {
	return len(strategies)
}

// ByName returns the strategy with the given name, matched case-insensitively.
func ByName(name string) (*types.StrategyDefinition, bool) {
	target := strings.TrimSpace(strings.ToLower(name))
	for i := range strategies {
		if strings.ToLower(strategies[i].Name) == target {
			return &strategies[i], true
		}
	}
	return nil, false
}

// Names returns the strategy names in catalog order.
func Names() []string {
	names := make([]string, len(strategies))
	for i := range strategies {
		names[i] = strategies[i].Name
	}
	return names
}
