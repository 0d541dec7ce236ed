package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/llmcost-cli/internal/catalog"
	"github.com/sells-group/llmcost-cli/internal/cost"
	"github.com/sells-group/llmcost-cli/internal/model"
)

func newDefaultSelector(t *testing.T) *Selector {
	t.Helper()
	return New(catalog.Default(), DefaultConfig())
}

func TestSelect_SimpleCriteriaPicksCheapest(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyLow,
		ContextLengthTokens: 1,
		Channel:             model.ChannelSMS,
		CustomerTier:        model.TierStandard,
	}
	res := s.Select(criteria, 100)

	// Cheapest-for-simple bias: the minimum blended rate in the catalog
	// belongs to flash-lite.
	split := cost.DefaultSplit()
	minRate := cost.BlendedPer1K(catalog.Default().Models()[0], split)
	for _, m := range catalog.Default().Models() {
		if r := cost.BlendedPer1K(m, split); r < minRate {
			minRate = r
		}
	}
	assert.InDelta(t, minRate, cost.BlendedPer1K(res.Model, split), 1e-12)
	assert.False(t, res.Fallback)
}

func TestSelect_ScenarioA(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyLow,
		ContextLengthTokens: 2,
		Channel:             model.ChannelSMS,
		CustomerTier:        model.TierStandard,
	}
	res := s.Select(criteria, 100)

	ok := res.Model.HasCapability(model.CapabilityGoodForSimple) ||
		res.Model.HasCapability(model.CapabilityFast)
	assert.True(t, ok, "simple criteria must pick a good_for_simple or fast model")
	assert.Less(t, res.EstimatedCost, 0.01)
	assert.Equal(t, "gemini-2.0-flash-lite", res.Model.Name)
	assert.Contains(t, res.Reasoning, "score=")
}

func TestSelect_ScenarioB(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexityComplex,
		Urgency:             model.UrgencyHigh,
		ContextLengthTokens: 50,
		Channel:             model.ChannelEmail,
		CustomerTier:        model.TierEnterprise,
		RequiresReasoning:   true,
	}
	res := s.Select(criteria, 2000)

	ok := res.Model.HasCapability(model.CapabilityComplexReasoning) ||
		res.Model.HasCapability(model.CapabilityLargeContext)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, res.Model.ContextWindowTokens, 50)
	assert.False(t, res.Fallback)

	// Enterprise floor keeps cheap flash models out.
	blended := cost.BlendedPer1K(res.Model, cost.DefaultSplit())
	assert.GreaterOrEqual(t, blended, DefaultConfig().EnterpriseFloorPer1K)
}

func TestSelect_ScenarioC_FallbackOnEmptyCandidates(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	// Context longer than any catalog window leaves no candidates.
	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexityModerate,
		Urgency:             model.UrgencyNormal,
		ContextLengthTokens: 10_000_000,
		Channel:             model.ChannelChat,
	}
	res := s.Select(criteria, 500)

	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackReasoning, res.Reasoning)
	assert.Equal(t, "gemini-2.0-flash-lite", res.Model.Name, "fallback is the cheapest blended rate")
	assert.GreaterOrEqual(t, res.EstimatedCost, 0.0)
}

func TestSelect_ContextWindowRespected(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	// Only gemini-1.5-pro has a window this large.
	w := 1_500_000
	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexityComplex,
		Urgency:             model.UrgencyNormal,
		ContextLengthTokens: w,
		Channel:             model.ChannelEmail,
	}
	res := s.Select(criteria, 4000)

	assert.False(t, res.Fallback)
	assert.GreaterOrEqual(t, res.Model.ContextWindowTokens, w,
		"selected model must satisfy the context bound when any candidate does")
}

func TestSelect_VoiceHighUrgencyRequiresFast(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyHigh,
		ContextLengthTokens: 10,
		Channel:             model.ChannelVoice,
	}
	res := s.Select(criteria, 200)

	assert.False(t, res.Fallback)
	assert.True(t, res.Model.HasCapability(model.CapabilityFast),
		"voice + high urgency is latency-sensitive")
}

func TestSelect_PremiumFloorExcludesCheapestModel(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyLow,
		ContextLengthTokens: 10,
		Channel:             model.ChannelChat,
		CustomerTier:        model.TierPremium,
	}
	res := s.Select(criteria, 100)

	// flash-lite's blended rate sits under the premium floor, so premium
	// simple traffic lands on flash.
	assert.Equal(t, "gemini-2.0-flash", res.Model.Name)
	assert.GreaterOrEqual(t,
		cost.BlendedPer1K(res.Model, cost.DefaultSplit()),
		DefaultConfig().PremiumFloorPer1K,
	)
}

func TestSelect_TieBreaksByCatalogOrder(t *testing.T) {
	t.Parallel()

	// Two identical models: the first in catalog order must win.
	twin := model.ModelDescriptor{
		Provider:            "vertex",
		InputPer1K:          0.0001,
		OutputPer1K:         0.0004,
		ContextWindowTokens: 100_000,
		Capabilities:        []model.Capability{model.CapabilityFast, model.CapabilityGoodForSimple},
	}
	a, b := twin, twin
	a.Name, b.Name = "twin-a", "twin-b"

	cat, err := catalog.New([]model.ModelDescriptor{a, b})
	require.NoError(t, err)
	s := New(cat, DefaultConfig())

	res := s.Select(model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyLow,
		ContextLengthTokens: 10,
		Channel:             model.ChannelSMS,
	}, 100)
	assert.Equal(t, "twin-a", res.Model.Name)
}

func TestSelect_ZeroTokensDoesNotPanic(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	res := s.Select(model.SelectionCriteria{
		Complexity: model.ComplexitySimple,
		Channel:    model.ChannelSMS,
	}, 0)
	assert.Zero(t, res.EstimatedCost)
	assert.NotEmpty(t, res.Model.Name)
}

func TestSelect_DefaultsAppliedToOptionalFields(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	// Missing tier and urgency behave like standard/normal.
	res := s.Select(model.SelectionCriteria{
		Complexity:          model.ComplexityModerate,
		ContextLengthTokens: 100,
		Channel:             model.ChannelEmail,
	}, 1000)
	assert.False(t, res.Fallback)
	ok := res.Model.HasCapability(model.CapabilityGoodForModerate) ||
		res.Model.HasCapability(model.CapabilityBalanced)
	assert.True(t, ok)
}

func TestEffectiveness_CappedAtOne(t *testing.T) {
	t.Parallel()
	s := newDefaultSelector(t)

	criteria := model.SelectionCriteria{
		Complexity:          model.ComplexitySimple,
		Urgency:             model.UrgencyHigh,
		ContextLengthTokens: 1,
		Channel:             model.ChannelSMS,
		CustomerTier:        model.TierStandard,
		RequiresCreativity:  true,
	}.Normalize()

	for _, m := range s.models {
		eff := s.effectiveness(m, criteria)
		assert.LessOrEqual(t, eff, 1.0)
		assert.GreaterOrEqual(t, eff, 0.5)
	}
}

func TestScore_GuardsZeroCost(t *testing.T) {
	t.Parallel()
	assert.False(t, isInf(score(1.0, 0)), "zero cost must not divide by zero")
	assert.Greater(t, score(1.0, 0.0001), score(1.0, 0.001), "cheaper wins at equal effectiveness")
}

func isInf(f float64) bool {
	return f > 1e300 || f < -1e300
}
