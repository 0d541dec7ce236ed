package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/llmcost-cli/internal/model"
)

func validModels() []model.ModelDescriptor {
	return []model.ModelDescriptor{
		{
			Name: "cheap", Provider: "vertex",
			InputPer1K: 0.0001, OutputPer1K: 0.0004,
			ContextWindowTokens: 100000,
			Capabilities:        []model.Capability{model.CapabilityFast},
		},
		{
			Name: "smart", Provider: "vertex",
			InputPer1K: 0.001, OutputPer1K: 0.004,
			ContextWindowTokens: 200000,
			Capabilities:        []model.Capability{model.CapabilityComplexReasoning},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func([]model.ModelDescriptor) []model.ModelDescriptor
		wantErr string
	}{
		{
			name:    "empty catalog",
			mutate:  func(_ []model.ModelDescriptor) []model.ModelDescriptor { return nil },
			wantErr: "no models",
		},
		{
			name: "duplicate name",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[1].Name = ms[0].Name
				return ms
			},
			wantErr: "duplicate model name",
		},
		{
			name: "empty name",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[0].Name = ""
				return ms
			},
			wantErr: "empty name",
		},
		{
			name: "zero pricing",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[0].InputPer1K = 0
				return ms
			},
			wantErr: "non-positive pricing",
		},
		{
			name: "zero context window",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[1].ContextWindowTokens = 0
				return ms
			},
			wantErr: "non-positive context window",
		},
		{
			name: "no capabilities",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[0].Capabilities = nil
				return ms
			},
			wantErr: "no capability tags",
		},
		{
			name: "unknown capability",
			mutate: func(ms []model.ModelDescriptor) []model.ModelDescriptor {
				ms[0].Capabilities = []model.Capability{"turbo"}
				return ms
			},
			wantErr: "unknown capability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mutate(validModels()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestModels_DefensiveCopy(t *testing.T) {
	t.Parallel()
	cat, err := New(validModels())
	require.NoError(t, err)

	got := cat.Models()
	got[0].Name = "mutated"
	got[0].Capabilities[0] = "mutated"

	again := cat.Models()
	assert.Equal(t, "cheap", again[0].Name)
	assert.Equal(t, model.CapabilityFast, again[0].Capabilities[0])
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cat := Default()
	require.NotZero(t, cat.Len())

	// Every default model must survive validation and keep catalog order.
	models := cat.Models()
	assert.Equal(t, "gemini-2.0-flash-lite", models[0].Name)
	for _, m := range models {
		assert.Positive(t, m.InputPer1K, m.Name)
		assert.Positive(t, m.OutputPer1K, m.Name)
		assert.Positive(t, m.ContextWindowTokens, m.Name)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yamlDoc := `models:
  - name: custom-model
    provider: vertex
    input_per_1k: 0.0002
    output_per_1k: 0.0008
    context_window_tokens: 32768
    capabilities: [fast, good_for_simple]
    max_output_tokens: 4096
    default_temperature: 0.7
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	m := cat.Models()[0]
	assert.Equal(t, "custom-model", m.Name)
	assert.InDelta(t, 0.0002, m.InputPer1K, 1e-12)
	assert.True(t, m.HasCapability(model.CapabilityGoodForSimple))
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  - name: broken\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive pricing")
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	t.Parallel()
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), cat.Len())
}
