package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Files(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Name)
			assert.NotEmpty(t, s.Steps)
		})
	}
}

func TestLoadScenario_Parsed(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/start_and_tick.yaml")
	require.NoError(t, err)

	assert.Equal(t, "start_and_tick", s.Name)
	require.Len(t, s.Initial, 1)
	assert.Equal(t, "a", s.Initial[0].ID)
	assert.Equal(t, int64(1000), s.Initial[0].Elapsed)
	assert.True(t, s.Initial[0].Running)
	assert.Equal(t, []Step{{Intent: StepTick, Count: 3}}, s.Steps)
	require.Len(t, s.Assertions, 3)
	assert.Equal(t, AssertTimer, s.Assertions[0].Type)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: y\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: y\nsteps: [{intent: tick}]\nassertions: [{type: count}]\n",
			wantErr: "name is required",
		},
		{
			name:    "no steps",
			content: "name: x\ndescription: y\nsteps: []\nassertions: [{type: count}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "toggle without id",
			content: "name: x\ndescription: y\nsteps: [{intent: toggle}]\nassertions: [{type: count}]\n",
			wantErr: "steps[0]: id is required for toggle",
		},
		{
			name:    "unknown intent",
			content: "name: x\ndescription: y\nsteps: [{intent: pause}]\nassertions: [{type: count}]\n",
			wantErr: `unknown intent "pause"`,
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: y\nsteps: [{intent: tick}]\nassertions: [{type: trace_contains}]\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name:    "timer expect field",
			content: "name: x\ndescription: y\nsteps: [{intent: tick}]\nassertions: [{type: timer, id: a, expect: {colour: red}}]\n",
			wantErr: `unknown expect field "colour"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
