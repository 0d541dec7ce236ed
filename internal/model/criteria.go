package model

// Complexity classifies how demanding an interaction is.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Urgency classifies how latency-sensitive an interaction is.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Channel identifies the customer contact channel.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelVoice Channel = "voice"
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
)

// CustomerTier identifies the service tier of the customer.
type CustomerTier string

const (
	TierStandard   CustomerTier = "standard"
	TierPremium    CustomerTier = "premium"
	TierEnterprise CustomerTier = "enterprise"
)

// SelectionCriteria carries the per-interaction classification signals the
// selector routes on. Constructed by the conversational pipeline from message
// length, keyword heuristics, and channel metadata; ephemeral except that it
// is denormalized into each UsageEvent at write time.
type SelectionCriteria struct {
	Complexity          Complexity   `json:"complexity"`
	Urgency             Urgency      `json:"urgency"`
	ContextLengthTokens int          `json:"context_length_tokens"`
	Channel             Channel      `json:"channel"`
	CustomerTier        CustomerTier `json:"customer_tier,omitempty"`
	RequiresReasoning   bool         `json:"requires_reasoning,omitempty"`
	RequiresCreativity  bool         `json:"requires_creativity,omitempty"`
}

// Normalize fills optional fields with their documented defaults.
func (c SelectionCriteria) Normalize() SelectionCriteria {
	if c.CustomerTier == "" {
		c.CustomerTier = TierStandard
	}
	if c.Urgency == "" {
		c.Urgency = UrgencyNormal
	}
	return c
}

// SelectionResult is the selector's output: the chosen model, the cost
// estimate for the projected token volume, and a human-readable explanation
// of the choice. Reasoning is for operators, not machines.
type SelectionResult struct {
	Model         ModelDescriptor `json:"model"`
	EstimatedCost float64         `json:"estimated_cost"`
	Reasoning     string          `json:"reasoning"`
	Fallback      bool            `json:"fallback,omitempty"`
}
