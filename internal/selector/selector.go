// Package selector picks the most cost-effective model for an interaction.
// Selection is pure: given the immutable catalog and a criteria value it
// always returns a model, never an error, and keeps no state between calls.
package selector

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/llmcost-cli/internal/catalog"
	"github.com/sells-group/llmcost-cli/internal/cost"
	"github.com/sells-group/llmcost-cli/internal/model"
)

// FallbackReasoning is the reasoning text returned when no catalog model
// matched the criteria. Operators grep for it to detect over-strict filters.
const FallbackReasoning = "no candidates matched criteria, used cheapest fallback"

// minLogDenom guards the score denominator: ln(cost+1) approaches zero for
// near-free requests and would otherwise divide by zero.
const minLogDenom = 1e-9

// Config holds the selection tunables. Floors and ceiling are blended
// per-1k-token USD rates.
type Config struct {
	// EnterpriseFloorPer1K excludes models priced below it for enterprise
	// customers: their routing is quality-biased, not cost-biased.
	EnterpriseFloorPer1K float64 `yaml:"enterprise_floor_per_1k" mapstructure:"enterprise_floor_per_1k"`
	// PremiumFloorPer1K is the lower floor applied to premium customers.
	PremiumFloorPer1K float64 `yaml:"premium_floor_per_1k" mapstructure:"premium_floor_per_1k"`
	// StandardCeilingPer1K marks the price band standard-tier routing is
	// expected to stay in; models at or under it get an alignment bonus.
	StandardCeilingPer1K float64 `yaml:"standard_ceiling_per_1k" mapstructure:"standard_ceiling_per_1k"`
	// Split apportions an estimated total token count into input/output.
	Split cost.Split `yaml:"split" mapstructure:"split"`
}

// DefaultConfig returns the documented default tunables.
func DefaultConfig() Config {
	return Config{
		EnterpriseFloorPer1K: 0.001,
		PremiumFloorPer1K:    0.0002,
		StandardCeilingPer1K: 0.0005,
		Split:                cost.DefaultSplit(),
	}
}

// Selector scores catalog models against selection criteria.
type Selector struct {
	models []model.ModelDescriptor
	cfg    Config
	calc   *cost.Calculator
}

// New creates a Selector over the given catalog.
func New(cat *catalog.Catalog, cfg Config) *Selector {
	if cfg.Split.Input <= 0 && cfg.Split.Output <= 0 {
		cfg.Split = cost.DefaultSplit()
	}
	return &Selector{
		models: cat.Models(),
		cfg:    cfg,
		calc:   cost.NewCalculator(cfg.Split),
	}
}

// Select returns the best model for the criteria and the estimated cost of
// serving estimatedTotalTokens on it. When no model survives filtering it
// falls back to the globally cheapest model so a caller always gets an
// answer; the fallback is logged and flagged in the result.
func (s *Selector) Select(criteria model.SelectionCriteria, estimatedTotalTokens int) model.SelectionResult {
	criteria = criteria.Normalize()

	candidates := s.candidates(criteria)
	if len(candidates) == 0 {
		m := s.cheapest()
		zap.L().Warn("selector: falling back to cheapest model",
			zap.String("model", m.Name),
			zap.String("complexity", string(criteria.Complexity)),
			zap.String("channel", string(criteria.Channel)),
			zap.String("customer_tier", string(criteria.CustomerTier)),
			zap.Int("context_length_tokens", criteria.ContextLengthTokens),
		)
		return model.SelectionResult{
			Model:         m,
			EstimatedCost: s.calc.ForTokens(m, estimatedTotalTokens),
			Reasoning:     FallbackReasoning,
			Fallback:      true,
		}
	}

	var (
		best     model.ModelDescriptor
		bestSc   = math.Inf(-1)
		bestEff  float64
		bestCost float64
	)
	for _, m := range candidates {
		c := s.calc.ForTokens(m, estimatedTotalTokens)
		eff := s.effectiveness(m, criteria)
		sc := score(eff, c)
		// Strict greater-than keeps the first occurrence on ties, so the
		// choice is deterministic in catalog order.
		if sc > bestSc {
			best, bestSc, bestEff, bestCost = m, sc, eff, c
		}
	}

	return model.SelectionResult{
		Model:         best,
		EstimatedCost: bestCost,
		Reasoning: fmt.Sprintf(
			"selected %s: score=%.4f effectiveness=%.2f estimated_cost=$%.6f candidates=%d",
			best.Name, bestSc, bestEff, bestCost, len(candidates),
		),
	}
}

// candidates applies the four filters as a conjunction, preserving catalog
// order.
func (s *Selector) candidates(c model.SelectionCriteria) []model.ModelDescriptor {
	var out []model.ModelDescriptor
	for _, m := range s.models {
		if !matchesComplexity(m, c.Complexity) {
			continue
		}
		if m.ContextWindowTokens < c.ContextLengthTokens {
			continue
		}
		if !s.meetsTierFloor(m, c.CustomerTier) {
			continue
		}
		if c.Channel == model.ChannelVoice && c.Urgency == model.UrgencyHigh &&
			!m.HasCapability(model.CapabilityFast) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matchesComplexity maps each complexity tier to the capability tags that
// qualify a model for it.
func matchesComplexity(m model.ModelDescriptor, c model.Complexity) bool {
	switch c {
	case model.ComplexitySimple:
		return m.HasCapability(model.CapabilityGoodForSimple) || m.HasCapability(model.CapabilityFast)
	case model.ComplexityModerate:
		return m.HasCapability(model.CapabilityGoodForModerate) || m.HasCapability(model.CapabilityBalanced)
	case model.ComplexityComplex:
		return m.HasCapability(model.CapabilityComplexReasoning) || m.HasCapability(model.CapabilityLargeContext)
	default:
		// Unknown complexity behaves like moderate rather than failing.
		return m.HasCapability(model.CapabilityGoodForModerate) || m.HasCapability(model.CapabilityBalanced)
	}
}

func (s *Selector) meetsTierFloor(m model.ModelDescriptor, tier model.CustomerTier) bool {
	blended := cost.BlendedPer1K(m, s.cfg.Split)
	switch tier {
	case model.TierEnterprise:
		return blended >= s.cfg.EnterpriseFloorPer1K
	case model.TierPremium:
		return blended >= s.cfg.PremiumFloorPer1K
	default:
		return true
	}
}

// effectiveness scores how well a model fits the criteria, in [0,1].
func (s *Selector) effectiveness(m model.ModelDescriptor, c model.SelectionCriteria) float64 {
	eff := 0.5

	switch c.Complexity {
	case model.ComplexitySimple:
		if m.HasCapability(model.CapabilityGoodForSimple) || m.HasCapability(model.CapabilityFast) {
			eff += 0.3
		}
	case model.ComplexityModerate:
		if m.HasCapability(model.CapabilityGoodForModerate) || m.HasCapability(model.CapabilityBalanced) {
			eff += 0.3
		}
	case model.ComplexityComplex:
		if m.HasCapability(model.CapabilityComplexReasoning) || m.HasCapability(model.CapabilityLargeContext) {
			eff += 0.4
		}
	}

	if c.Urgency == model.UrgencyHigh && m.HasCapability(model.CapabilityFast) {
		eff += 0.2
	}
	if m.ContextWindowTokens >= 2*c.ContextLengthTokens {
		eff += 0.1
	}

	blended := cost.BlendedPer1K(m, s.cfg.Split)
	switch c.CustomerTier {
	case model.TierEnterprise:
		if blended >= s.cfg.EnterpriseFloorPer1K {
			eff += 0.1
		}
	case model.TierStandard:
		if blended <= s.cfg.StandardCeilingPer1K {
			eff += 0.1
		}
	}

	if c.RequiresReasoning && m.HasCapability(model.CapabilityComplexReasoning) {
		eff += 0.05
	}
	if c.RequiresCreativity && m.DefaultTemperature >= 0.7 {
		eff += 0.05
	}

	if eff > 1.0 {
		eff = 1.0
	}
	return eff
}

// score is the cost-effectiveness ratio: high effectiveness wins, cost
// penalizes logarithmically so price differences matter most at the cheap
// end of the catalog.
func score(effectiveness, c float64) float64 {
	denom := math.Log(c + 1)
	if denom < minLogDenom {
		denom = minLogDenom
	}
	return effectiveness / denom
}

// cheapest returns the catalog model with the lowest blended per-1k rate,
// first occurrence winning ties.
func (s *Selector) cheapest() model.ModelDescriptor {
	best := s.models[0]
	bestRate := cost.BlendedPer1K(best, s.cfg.Split)
	for _, m := range s.models[1:] {
		if rate := cost.BlendedPer1K(m, s.cfg.Split); rate < bestRate {
			best, bestRate = m, rate
		}
	}
	return best
}
