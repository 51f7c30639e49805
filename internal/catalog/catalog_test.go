// Package catalog provides the static registry of instructional strategy definitions.
package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_StableOrder(t *testing.T) {
	first := All()
	second := All()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestAll_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range All() {
		lower := strings.ToLower(s.Name)
		assert.False(t, seen[lower], "duplicate strategy name %q", s.Name)
		seen[lower] = true
	}
}

func TestAll_EntriesComplete(t *testing.T) {
	require.NotEmpty(t, All())
	for _, s := range All() {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.UseCases, "strategy %q has no use cases", s.Name)
		assert.NotEmpty(t, s.IdealFor.ContentTypes, "strategy %q has no content types", s.Name)
		assert.NotEmpty(t, s.Implementation.Formats, "strategy %q has no formats", s.Name)
		assert.NotEmpty(t, s.Implementation.Duration, "strategy %q has no duration", s.Name)
	}
}

func TestAll_AffinityTablesAreNormalized(t *testing.T) {
	for _, s := range All() {
		for key, affinity := range s.ContentTypeMatch {
			assert.Equal(t, strings.ToLower(key), key,
				"strategy %q affinity key %q must be lowercase", s.Name, key)
			assert.GreaterOrEqual(t, affinity, 0.0)
			assert.LessOrEqual(t, affinity, 100.0)
		}
	}
}

func TestByName(t *testing.T) {
	s, ok := ByName("Virtual Simulation Labs")
	require.True(t, ok)
	assert.Equal(t, "Virtual Simulation Labs", s.Name)

	s, ok = ByName("  virtual simulation labs ")
	require.True(t, ok)
	assert.Equal(t, "Virtual Simulation Labs", s.Name)

	_, ok = ByName("Telepathic Osmosis")
	assert.False(t, ok)
}

func TestNames_MatchesCatalogOrder(t *testing.T) {
	names := Names()
	all := All()

	require.Equal(t, len(all), len(names))
	require.Equal(t, Size(), len(names))
	for i := range all {
		assert.Equal(t, all[i].Name, names[i])
	}
}
