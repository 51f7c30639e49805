// Package analysis provides LLM-backed classification of source content into structured profiles.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/course-designer/internal/ingestion"
	"github.com/marcus/course-designer/internal/llm"
	"github.com/marcus/course-designer/internal/types"
)

// maxConcurrentAnalyses caps the fan-out when profiling multi-document sets
const maxConcurrentAnalyses = 3

// AnalyzeContent extracts a structured ContentProfile from cleaned source text
func AnalyzeContent(ctx context.Context, cleanedText string, apiKey string) (*types.ContentProfile, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}
	if cleanedText == "" {
		return nil, &ValidationError{Message: "source text is empty"}
	}

	// Initialize LLM client with default config
	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	return analyzeWithClient(ctx, client, cleanedText)
}

// analyzeWithClient runs a single profile extraction on an existing client
func analyzeWithClient(ctx context.Context, client llm.Client, cleanedText string) (*types.ContentProfile, error) {
	prompt := llm.BuildExtractionPrompt(llm.ContentAnalysisSchema(), cleanedText)

	// Classification does not need deep reasoning, TierStandard is enough
	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate content profile",
			Cause:   err,
		}
	}

	responseText = llm.CleanJSONBlock(responseText)

	profile, err := parseProfileResponse(responseText)
	if err != nil {
		return nil, err
	}

	if err := postProcessProfile(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// AnalyzeSourceSet profiles an ingested source set. Single-document sets run
// one extraction; larger sets fan out per document and merge the results.
func AnalyzeSourceSet(ctx context.Context, set *ingestion.SourceSet, apiKey string) (*types.ContentProfile, error) {
	if set == nil || set.FileCount() == 0 {
		return nil, &ValidationError{Message: "source set is empty"}
	}
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}

	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	if set.FileCount() == 1 {
		profile, err := analyzeWithClient(ctx, client, set.Documents[0].Text)
		if err != nil {
			return nil, err
		}
		profile.FileCount = 1
		return profile, nil
	}

	profiles := make([]*types.ContentProfile, len(set.Documents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)

	for i, doc := range set.Documents {
		g.Go(func() error {
			profile, err := analyzeWithClient(gctx, client, doc.Text)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", doc.Path, err)
			}
			profiles[i] = profile
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := MergeProfiles(profiles)
	merged.FileCount = set.FileCount()
	return merged, nil
}

// parseProfileResponse parses the JSON response into a ContentProfile
func parseProfileResponse(jsonText string) (*types.ContentProfile, error) {
	var profile types.ContentProfile
	if err := json.Unmarshal([]byte(jsonText), &profile); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	return &profile, nil
}

// postProcessProfile applies normalization and validation
func postProcessProfile(profile *types.ContentProfile) error {
	profile.Topics = NormalizeTopics(profile.Topics)
	if len(profile.Topics) == 0 {
		return &ValidationError{
			Field:   "topics",
			Message: "at least one topic is required",
		}
	}

	profile.ComplexityLevel = types.NormalizeComplexity(profile.ComplexityLevel)
	profile.PrimaryContentType = normalizeContentType(profile.PrimaryContentType)

	if profile.Quality != nil {
		clampRating(&profile.Quality.Clarity)
		clampRating(&profile.Quality.Completeness)
		clampRating(&profile.Quality.Structure)
		clampRating(&profile.Quality.Currency)
	}

	return nil
}

// clampRating clamps an optional quality reading into [0,100] in place
func clampRating(r **float64) {
	if *r == nil {
		return
	}
	v := **r
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	**r = v
}

// MergeProfiles combines per-document profiles into one set-level profile.
// Topics union in first-appearance order; complexity and content type go to
// the most frequent value; quality readings average across documents that
// reported them.
func MergeProfiles(profiles []*types.ContentProfile) *types.ContentProfile {
	merged := &types.ContentProfile{}

	seen := make(map[string]bool)
	complexityVotes := make(map[string]int)
	typeVotes := make(map[string]int)
	typeOrder := make(map[string]int)

	var quality []*types.QualityRatings

	for _, p := range profiles {
		if p == nil {
			continue
		}
		for _, t := range p.Topics {
			if !seen[t] {
				seen[t] = true
				merged.Topics = append(merged.Topics, t)
			}
		}
		complexityVotes[p.ComplexityBand()]++
		if p.PrimaryContentType != "" {
			if _, ok := typeOrder[p.PrimaryContentType]; !ok {
				typeOrder[p.PrimaryContentType] = len(typeOrder)
			}
			typeVotes[p.PrimaryContentType]++
		}
		if p.Quality != nil {
			quality = append(quality, p.Quality)
		}
	}

	merged.ComplexityLevel = dominantComplexity(complexityVotes)
	merged.PrimaryContentType = dominantValue(typeVotes, typeOrder)
	merged.Quality = averageQuality(quality)

	return merged
}

// dominantComplexity picks the most voted band, ties resolving toward the
// higher band so mixed sets are not under-scoped.
func dominantComplexity(votes map[string]int) string {
	if len(votes) == 0 {
		return types.ComplexityMedium
	}
	best := types.ComplexityMedium
	bestVotes := -1
	for _, band := range []string{types.ComplexityHigh, types.ComplexityMedium, types.ComplexityLow} {
		if votes[band] > bestVotes {
			best = band
			bestVotes = votes[band]
		}
	}
	return best
}

// dominantValue picks the most voted value, ties resolving to first appearance
func dominantValue(votes map[string]int, order map[string]int) string {
	if len(votes) == 0 {
		return ""
	}
	values := make([]string, 0, len(votes))
	for v := range votes {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if votes[values[i]] != votes[values[j]] {
			return votes[values[i]] > votes[values[j]]
		}
		return order[values[i]] < order[values[j]]
	})
	return values[0]
}

// averageQuality averages readings across documents that reported them.
// A reading absent everywhere stays absent in the merge.
func averageQuality(ratings []*types.QualityRatings) *types.QualityRatings {
	if len(ratings) == 0 {
		return nil
	}

	avg := func(pick func(*types.QualityRatings) *float64) *float64 {
		var sum float64
		var n int
		for _, q := range ratings {
			if v := pick(q); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		mean := sum / float64(n)
		return &mean
	}

	return &types.QualityRatings{
		Clarity:      avg(func(q *types.QualityRatings) *float64 { return q.Clarity }),
		Completeness: avg(func(q *types.QualityRatings) *float64 { return q.Completeness }),
		Structure:    avg(func(q *types.QualityRatings) *float64 { return q.Structure }),
		Currency:     avg(func(q *types.QualityRatings) *float64 { return q.Currency }),
	}
}
