package main

import (
	"os/exec"
	"testing"

	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswersFromMap_BaseQuestionOrder(t *testing.T) {
	base := interview.BaseQuestions()
	answered := map[string]string{
		"objectives": "Operate the forklift safely",
		"audience":   "New warehouse hires",
	}

	answers := answersFromMap(base, answered)

	require.Len(t, answers, 2)
	// Base question order, not map order
	assert.Equal(t, "audience", answers[0].QuestionKey)
	assert.Equal(t, "objectives", answers[1].QuestionKey)
	require.NotNil(t, answers[0].Answer)
	assert.Equal(t, "New warehouse hires", *answers[0].Answer)
}

func TestAnswersFromMap_ExtraKeysSortedAsFollowUps(t *testing.T) {
	base := interview.BaseQuestions()
	answered := map[string]string{
		"role":      "Daily reference material",
		"zz_custom": "Custom answer",
		"aa_custom": "Another answer",
	}

	answers := answersFromMap(base, answered)

	require.Len(t, answers, 3)
	assert.Equal(t, "role", answers[0].QuestionKey)
	assert.Equal(t, "aa_custom", answers[1].QuestionKey)
	assert.Equal(t, "zz_custom", answers[2].QuestionKey)
	assert.Equal(t, db.QuestionSourceFollowUp, answers[1].Source)
	assert.Equal(t, db.QuestionSourceFollowUp, answers[2].Source)
}

func TestCompletionRatio_Bounds(t *testing.T) {
	base := interview.BaseQuestions()

	assert.InDelta(t, 0.0, completionRatio(base, nil), 0.001)

	all := make(map[string]string, len(base))
	for _, q := range base {
		all[q.Key] = "answered"
	}
	assert.InDelta(t, 100.0, completionRatio(base, all), 0.001)

	half := map[string]string{
		base[0].Key: "a",
		base[1].Key: "b",
		base[2].Key: "c",
	}
	assert.InDelta(t, 50.0, completionRatio(base, half), 0.001)
}

func TestCompletionRatio_IgnoresUnknownKeys(t *testing.T) {
	base := interview.BaseQuestions()
	answered := map[string]string{
		base[0].Key: "a",
		"not_asked": "b",
	}

	ratio := completionRatio(base, answered)
	assert.InDelta(t, 100.0/float64(len(base)), ratio, 0.001)
}

func TestQuestionsCommand_FlagsValidation(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "questions", "--followups", "2")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "--followups requires both --summary and --answers")

	cmd = exec.Command(binaryPath, "questions", "--profile-out", "/tmp/profile.json")
	output, err = cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "--profile-out requires --answers")
}
