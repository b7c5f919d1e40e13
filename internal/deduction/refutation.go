package deduction

import "math"

// RefutationBeliefModel is a heuristic overlay on PlayerHandModel. It
// counts how often each player refutes suggestions containing each card
// without revealing which card was shown, and converts repeat
// refutations into accelerating belief mass.
type RefutationBeliefModel struct {
	hands        *PlayerHandModel
	baseIncrease float64
	growthFactor float64
	counts       map[string]map[string]int
}

func NewRefutationBeliefModel(hands *PlayerHandModel, baseIncrease, growthFactor float64) *RefutationBeliefModel {
	return &RefutationBeliefModel{
		hands:        hands,
		baseIncrease: baseIncrease,
		growthFactor: growthFactor,
		counts:       make(map[string]map[string]int),
	}
}

// Observe records one refutation whose shown card stayed hidden and
// applies the accumulated reinforcement to the hand model. Recording and
// applying are a single step so one event can never be applied twice.
func (that *RefutationBeliefModel) Observe(responder string, suggested [3]string) {
	if that.counts[responder] == nil {
		that.counts[responder] = make(map[string]int, len(suggested))
	}

	for _, card := range suggested {
		that.counts[responder][card]++
	}

	that.apply()
}

// apply pushes an increase for every counted (player, card) pair into
// the hand model. Iteration follows seat and canonical card order so the
// order-sensitive normalization inside the hand model stays
// deterministic.
func (that *RefutationBeliefModel) apply() {
	for _, player := range that.hands.players {
		cardCounts := that.counts[player]
		if len(cardCounts) == 0 {
			continue
		}

		for _, card := range that.hands.deck.Cards() {
			count, ok := cardCounts[card]
			if !ok {
				continue
			}

			that.hands.IncreaseProbability(player, card, that.increaseFor(count))
		}
	}
}

// increaseFor grows the reinforcement exponentially with the number of
// refutations: base, base*growth, base*growth^2, ...
func (that *RefutationBeliefModel) increaseFor(count int) float64 {
	return that.baseIncrease * math.Pow(that.growthFactor, float64(count-1))
}

// Count returns how many times the player refuted a suggestion
// containing the card without revealing it.
func (that *RefutationBeliefModel) Count(player, card string) int {
	return that.counts[player][card]
}
