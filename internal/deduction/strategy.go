package deduction

import "github.com/rocketscienceinc/deduction-backend/internal/entity"

// StrategyKind selects how soft belief mass is reinforced after each
// suggestion. Picked once at ledger construction.
type StrategyKind string

const (
	// StrategyEnvelopeOnly runs the two probability models with no
	// extra heuristics.
	StrategyEnvelopeOnly StrategyKind = "envelope-only"
	// StrategyRuleAugmented additionally feeds refutation patterns
	// back into the hand model.
	StrategyRuleAugmented StrategyKind = "rule-augmented"
)

// beliefStrategy observes every recorded suggestion after the two
// probability models have been updated.
type beliefStrategy interface {
	OnSuggestion(suggestion entity.Suggestion)
}

type envelopeOnlyStrategy struct{}

func (envelopeOnlyStrategy) OnSuggestion(entity.Suggestion) {}

type ruleAugmentedStrategy struct {
	refutation *RefutationBeliefModel
}

func (that *ruleAugmentedStrategy) OnSuggestion(suggestion entity.Suggestion) {
	// Only an unrevealed refutation carries extra signal: the responder
	// holds at least one of the three cards but which one is open.
	if !suggestion.HasResponder() || suggestion.HasShownCard() {
		return
	}

	that.refutation.Observe(suggestion.Responder, suggestion.Cards())
}
