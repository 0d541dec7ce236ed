// Package catalog holds the fixed list of routable model descriptors.
// The catalog is assembled once at process start and validated before any
// traffic is served; adding or repricing a model is a deployment-time change.
package catalog

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// Catalog is an immutable set of model descriptors. Safe for concurrent
// reads; there are no writes after construction.
type Catalog struct {
	models []model.ModelDescriptor
}

// New validates the descriptors and builds a catalog. An empty catalog,
// duplicate names, or malformed pricing is a configuration error and fails
// here rather than at selection time.
func New(models []model.ModelDescriptor) (*Catalog, error) {
	if len(models) == 0 {
		return nil, eris.New("catalog: no models configured")
	}

	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if m.Name == "" {
			return nil, eris.New("catalog: model with empty name")
		}
		if seen[m.Name] {
			return nil, eris.Errorf("catalog: duplicate model name %q", m.Name)
		}
		seen[m.Name] = true

		if m.InputPer1K <= 0 || m.OutputPer1K <= 0 {
			return nil, eris.Errorf("catalog: model %q has non-positive pricing", m.Name)
		}
		if m.ContextWindowTokens <= 0 {
			return nil, eris.Errorf("catalog: model %q has non-positive context window", m.Name)
		}
		if len(m.Capabilities) == 0 {
			return nil, eris.Errorf("catalog: model %q has no capability tags", m.Name)
		}
		for _, c := range m.Capabilities {
			if !model.ValidCapability(c) {
				return nil, eris.Errorf("catalog: model %q has unknown capability %q", m.Name, c)
			}
		}
	}

	// Copy so the caller's slice cannot mutate the catalog afterwards.
	own := make([]model.ModelDescriptor, len(models))
	copy(own, models)
	return &Catalog{models: own}, nil
}

// Default returns the built-in catalog. Pricing is USD per 1000 tokens.
func Default() *Catalog {
	cat, err := New(defaultModels())
	if err != nil {
		// The built-in table is covered by tests; reaching this is a bug.
		panic(err)
	}
	return cat
}

func defaultModels() []model.ModelDescriptor {
	return []model.ModelDescriptor{
		{
			Name:                "gemini-2.0-flash-lite",
			Provider:            "vertex",
			InputPer1K:          0.000075,
			OutputPer1K:         0.0003,
			ContextWindowTokens: 1_048_576,
			Capabilities: []model.Capability{
				model.CapabilityFast,
				model.CapabilityGoodForSimple,
			},
			MaxOutputTokens:    8192,
			DefaultTemperature: 0.7,
		},
		{
			Name:                "gemini-2.0-flash",
			Provider:            "vertex",
			InputPer1K:          0.0001,
			OutputPer1K:         0.0004,
			ContextWindowTokens: 1_048_576,
			Capabilities: []model.Capability{
				model.CapabilityFast,
				model.CapabilityBalanced,
				model.CapabilityGoodForSimple,
				model.CapabilityGoodForModerate,
			},
			MaxOutputTokens:    8192,
			DefaultTemperature: 0.7,
		},
		{
			Name:                "gemini-1.5-pro",
			Provider:            "vertex",
			InputPer1K:          0.00125,
			OutputPer1K:         0.005,
			ContextWindowTokens: 2_097_152,
			Capabilities: []model.Capability{
				model.CapabilityBalanced,
				model.CapabilityGoodForModerate,
				model.CapabilityComplexReasoning,
				model.CapabilityLargeContext,
			},
			MaxOutputTokens:    8192,
			DefaultTemperature: 0.5,
		},
		{
			Name:                "gemini-2.5-pro",
			Provider:            "vertex",
			InputPer1K:          0.00125,
			OutputPer1K:         0.01,
			ContextWindowTokens: 1_048_576,
			Capabilities: []model.Capability{
				model.CapabilityComplexReasoning,
				model.CapabilityLargeContext,
			},
			MaxOutputTokens:    65_536,
			DefaultTemperature: 1.0,
		},
	}
}

// Models returns a defensive copy of the descriptor list, in catalog order.
// Mutating the returned slice has no effect on the catalog.
func (c *Catalog) Models() []model.ModelDescriptor {
	out := make([]model.ModelDescriptor, len(c.models))
	copy(out, c.models)
	for i := range out {
		caps := make([]model.Capability, len(c.models[i].Capabilities))
		copy(caps, c.models[i].Capabilities)
		out[i].Capabilities = caps
	}
	return out
}

// Len returns the number of models in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}
