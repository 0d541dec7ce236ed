package model

// Capability tags a model with a routing-relevant trait. The set is closed:
// the selector matches on these tags, never on free-form strings.
type Capability string

const (
	CapabilityFast             Capability = "fast"
	CapabilityBalanced         Capability = "balanced"
	CapabilityComplexReasoning Capability = "complex_reasoning"
	CapabilityLargeContext     Capability = "large_context"
	CapabilityGoodForSimple    Capability = "good_for_simple"
	CapabilityGoodForModerate  Capability = "good_for_moderate"
)

// ValidCapability reports whether c is a known capability tag.
func ValidCapability(c Capability) bool {
	switch c {
	case CapabilityFast, CapabilityBalanced, CapabilityComplexReasoning,
		CapabilityLargeContext, CapabilityGoodForSimple, CapabilityGoodForModerate:
		return true
	}
	return false
}

// ModelDescriptor describes one callable AI backend: identity, per-1k-token
// pricing in USD, context window, capability tags, and the generation
// parameters passed through to the provider on invocation. Descriptors are
// loaded once at startup and never mutated.
type ModelDescriptor struct {
	Name                string       `json:"name" yaml:"name"`
	Provider            string       `json:"provider" yaml:"provider"`
	InputPer1K          float64      `json:"input_per_1k" yaml:"input_per_1k"`
	OutputPer1K         float64      `json:"output_per_1k" yaml:"output_per_1k"`
	ContextWindowTokens int          `json:"context_window_tokens" yaml:"context_window_tokens"`
	Capabilities        []Capability `json:"capabilities" yaml:"capabilities"`
	MaxOutputTokens     int          `json:"max_output_tokens" yaml:"max_output_tokens"`
	DefaultTemperature  float64      `json:"default_temperature" yaml:"default_temperature"`
}

// HasCapability reports whether the descriptor carries the given tag.
func (m ModelDescriptor) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
