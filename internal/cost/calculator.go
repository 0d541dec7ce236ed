package cost

import "github.com/sells-group/llmcost-cli/internal/model"

// Split is the assumed input/output share of a total token estimate, used
// when the caller only knows the projected total. Shares should sum to 1.
type Split struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// DefaultSplit returns the documented 60% input / 40% output assumption.
func DefaultSplit() Split {
	return Split{Input: 0.6, Output: 0.4}
}

// Calculator computes USD costs for model usage from per-1k-token pricing.
type Calculator struct {
	split Split
}

// NewCalculator creates a Calculator with the given split. A zero split
// falls back to the default.
func NewCalculator(split Split) *Calculator {
	if split.Input <= 0 && split.Output <= 0 {
		split = DefaultSplit()
	}
	return &Calculator{split: split}
}

// ForTokens estimates the cost of totalTokens against the descriptor's
// pricing, apportioning tokens by the configured split. Linear and
// non-decreasing in totalTokens.
func (c *Calculator) ForTokens(m model.ModelDescriptor, totalTokens int) float64 {
	if totalTokens <= 0 {
		return 0
	}
	in := float64(totalTokens) * c.split.Input
	out := float64(totalTokens) * c.split.Output
	return (in/1000)*m.InputPer1K + (out/1000)*m.OutputPer1K
}

// ForUsage computes the cost of an exact input/output token count. Used when
// the caller reports real usage instead of an estimate.
func (c *Calculator) ForUsage(m model.ModelDescriptor, inputTokens, outputTokens int) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	return (float64(inputTokens)/1000)*m.InputPer1K + (float64(outputTokens)/1000)*m.OutputPer1K
}

// BlendedPer1K collapses a descriptor's input/output pricing into a single
// per-1k-token rate under the given split. This is the rate the selector's
// tier floors and the cheapest-fallback comparison run on.
func BlendedPer1K(m model.ModelDescriptor, split Split) float64 {
	if split.Input <= 0 && split.Output <= 0 {
		split = DefaultSplit()
	}
	return split.Input*m.InputPer1K + split.Output*m.OutputPer1K
}
