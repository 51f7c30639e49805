package main

import (
	"encoding/json"
	"os/exec"
	"testing"

	"github.com/marcus/course-designer/internal/catalog"
	"github.com/marcus/course-designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategiesCommand_ListsCatalog(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "strategies")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "strategies failed: %s", string(output))

	for _, name := range catalog.Names() {
		assert.Contains(t, string(output), name)
	}
}

func TestStrategiesCommand_JSONOutput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "strategies", "--json")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "strategies --json failed: %s", string(output))

	var all []types.StrategyDefinition
	require.NoError(t, json.Unmarshal(output, &all))
	assert.Equal(t, catalog.Size(), len(all))
}

func TestStrategiesCommand_SingleStrategy(t *testing.T) {
	binaryPath := getBinaryPath(t)

	name := catalog.Names()[0]
	cmd := exec.Command(binaryPath, "strategies", name)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "strategies %s failed: %s", name, string(output))

	var def types.StrategyDefinition
	require.NoError(t, json.Unmarshal(output, &def))
	assert.Equal(t, name, def.Name)
}

func TestStrategiesCommand_UnknownName(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "strategies", "Interpretive Dance")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown strategy")
}
