package deduction

import "github.com/rocketscienceinc/deduction-backend/internal/entity"

// CategoryEnvelopeModel tracks, per category, the probability that each
// card is the category's card in the hidden solution. The three
// distributions are independent and each sums to 1.
type CategoryEnvelopeModel struct {
	deck           *entity.Deck
	probs          map[entity.Category]map[string]float64
	known          map[string]struct{}
	decreaseFactor float64
}

func NewCategoryEnvelopeModel(deck *entity.Deck, decreaseFactor float64) *CategoryEnvelopeModel {
	model := &CategoryEnvelopeModel{
		deck:           deck,
		probs:          make(map[entity.Category]map[string]float64, len(entity.Categories)),
		known:          make(map[string]struct{}),
		decreaseFactor: decreaseFactor,
	}

	for _, category := range entity.Categories {
		cards := deck.CategoryCards(category)
		dist := make(map[string]float64, len(cards))

		initial := 1.0 / float64(len(cards))
		for _, card := range cards {
			dist[card] = initial
		}

		model.probs[category] = dist
	}

	return model
}

// Update folds one suggestion outcome into the three distributions.
func (that *CategoryEnvelopeModel) Update(suggested [3]string, responder, shownCard string) {
	switch {
	case responder != "" && shownCard != "":
		// The shown card is in somebody's hand, so it cannot be the
		// solution card. The other two were available to show but were
		// not chosen, which makes them marginally less likely too.
		that.MarkKnownCard(shownCard)

		for _, card := range suggested {
			if card == shownCard {
				continue
			}

			if category, ok := that.deck.CategoryOf(card); ok {
				that.probs[category][card] *= that.decreaseFactor
			}
		}

	case responder == "":
		// Nobody could refute: every suggested card must be the
		// solution card of its category.
		for _, card := range suggested {
			category, ok := that.deck.CategoryOf(card)
			if !ok {
				continue
			}

			for _, sibling := range that.deck.CategoryCards(category) {
				if sibling == card {
					that.probs[category][sibling] = 1.0
				} else {
					that.probs[category][sibling] = 0.0
				}
			}
		}
	}

	for _, category := range entity.Categories {
		that.normalizeCategory(category)
	}
}

// MarkKnownCard removes a card whose holder is certain from the running
// uncertainty: its probability drops to 0 and the freed mass is spread
// uniformly over the category's remaining unknown cards.
func (that *CategoryEnvelopeModel) MarkKnownCard(card string) {
	category, ok := that.deck.CategoryOf(card)
	if !ok {
		return
	}

	that.known[card] = struct{}{}
	that.probs[category][card] = 0.0

	var unknown []string
	for _, sibling := range that.deck.CategoryCards(category) {
		if _, isKnown := that.known[sibling]; !isKnown {
			unknown = append(unknown, sibling)
		}
	}

	if len(unknown) == 0 {
		return
	}

	share := 1.0 / float64(len(unknown))
	for _, sibling := range unknown {
		that.probs[category][sibling] = share
	}
}

// normalizeCategory rescales one distribution to sum to 1. A zero sum is
// left untouched.
func (that *CategoryEnvelopeModel) normalizeCategory(category entity.Category) {
	var total float64
	for _, prob := range that.probs[category] {
		total += prob
	}

	if total == 0 {
		return
	}

	for card := range that.probs[category] {
		that.probs[category][card] /= total
	}
}

// Distribution returns a copy of one category's distribution.
func (that *CategoryEnvelopeModel) Distribution(category entity.Category) map[string]float64 {
	dist := make(map[string]float64, len(that.probs[category]))
	for card, prob := range that.probs[category] {
		dist[card] = prob
	}

	return dist
}

// Distributions returns a copy of all three distributions.
func (that *CategoryEnvelopeModel) Distributions() map[entity.Category]map[string]float64 {
	all := make(map[entity.Category]map[string]float64, len(entity.Categories))
	for _, category := range entity.Categories {
		all[category] = that.Distribution(category)
	}

	return all
}

// MostLikely returns the category's highest-probability card. Ties go to
// the card earliest in canonical deck order.
func (that *CategoryEnvelopeModel) MostLikely(category entity.Category) (string, float64) {
	var (
		bestCard string
		bestProb float64
	)

	for _, card := range that.deck.CategoryCards(category) {
		if bestCard == "" || that.probs[category][card] > bestProb {
			bestCard = card
			bestProb = that.probs[category][card]
		}
	}

	return bestCard, bestProb
}

// MostLikelySolution returns the argmax card of every category.
func (that *CategoryEnvelopeModel) MostLikelySolution() map[entity.Category]string {
	solution := make(map[entity.Category]string, len(entity.Categories))
	for _, category := range entity.Categories {
		card, _ := that.MostLikely(category)
		solution[category] = card
	}

	return solution
}

// IsConfident reports whether every category's maximum probability
// exceeds the threshold.
func (that *CategoryEnvelopeModel) IsConfident(threshold float64) bool {
	for _, category := range entity.Categories {
		if _, prob := that.MostLikely(category); prob <= threshold {
			return false
		}
	}

	return true
}
