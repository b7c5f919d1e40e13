package deduction

import (
	"sort"

	"github.com/rocketscienceinc/deduction-backend/internal/entity"
)

// CardProbability pairs a card with a probability for query results.
type CardProbability struct {
	Card        string
	Probability float64
}

// PlayerHandModel tracks P(player holds card) for every (player, card)
// pair. Two invariants hold after every mutation:
//   - per card, probabilities over players sum to at most 1; the
//     residual is the implicit probability the card is in the solution;
//   - per player, the mass over non-known cards never exceeds the
//     player's hand size.
type PlayerHandModel struct {
	deck           *entity.Deck
	players        []string
	handSizes      map[string]int
	probs          map[string]map[string]float64
	known          map[string]map[string]struct{}
	cannotHave     map[string]map[string]struct{}
	increaseFactor float64
}

func NewPlayerHandModel(deck *entity.Deck, players []string, handSizes map[string]int, increaseFactor float64) *PlayerHandModel {
	model := &PlayerHandModel{
		deck:           deck,
		players:        append([]string(nil), players...),
		handSizes:      make(map[string]int, len(players)),
		probs:          make(map[string]map[string]float64, len(players)),
		known:          make(map[string]map[string]struct{}, len(players)),
		cannotHave:     make(map[string]map[string]struct{}, len(players)),
		increaseFactor: increaseFactor,
	}

	initial := 1.0 / float64(len(players))
	for _, player := range players {
		model.handSizes[player] = handSizes[player]
		model.known[player] = make(map[string]struct{})
		model.cannotHave[player] = make(map[string]struct{})

		row := make(map[string]float64, deck.Size())
		for _, card := range deck.Cards() {
			row[card] = initial
		}
		model.probs[player] = row
	}

	// The uniform prior over the full deck exceeds hand capacity; bring
	// the rows within bounds right away so the invariants hold from
	// creation, not first update.
	model.normalize()

	return model
}

// UpdateFromSuggestion folds one suggestion outcome into the matrix.
// turnOrder is the players after the suggester in clockwise order,
// wrap-aware and excluding the suggester.
func (that *PlayerHandModel) UpdateFromSuggestion(suggested [3]string, responder, shownCard string, turnOrder []string) {
	switch {
	case responder != "" && shownCard != "":
		that.pinCard(responder, shownCard)

	case responder != "":
		for _, player := range that.playersWhoPassed(turnOrder, responder) {
			for _, card := range suggested {
				that.ruleOut(player, card)
			}
		}

		// The responder holds at least one of the three; reinforce each
		// still-unknown entry.
		for _, card := range suggested {
			if _, isKnown := that.known[responder][card]; isKnown {
				continue
			}
			that.probs[responder][card] *= that.increaseFactor
		}

	default:
		// Everyone passed, so no hand contains any of the three.
		for _, player := range that.players {
			for _, card := range suggested {
				if _, isKnown := that.known[player][card]; isKnown {
					continue
				}
				that.ruleOut(player, card)
			}
		}
	}

	that.normalize()
}

// playersWhoPassed returns the prefix of turnOrder strictly before the
// responder: the players who had a chance to refute and declined.
func (that *PlayerHandModel) playersWhoPassed(turnOrder []string, responder string) []string {
	for i, player := range turnOrder {
		if player == responder {
			return turnOrder[:i]
		}
	}

	return nil
}

// MarkKnownCard pins a card to its certain holder: 1.0 for the player,
// 0.0 for everyone else.
func (that *PlayerHandModel) MarkKnownCard(player, card string) {
	that.pinCard(player, card)
	that.normalize()
}

// MarkPublicCard records a face-up card held by nobody.
func (that *PlayerHandModel) MarkPublicCard(card string) {
	for _, player := range that.players {
		that.ruleOut(player, card)
	}

	that.normalize()
}

// IncreaseProbability adds soft belief mass, capped at 1.0. Hard
// certainties win over the heuristic: entries pinned by a known holder
// or excluded by a cannot-have fact are left alone.
func (that *PlayerHandModel) IncreaseProbability(player, card string, amount float64) {
	if that.isCardPinned(card) {
		return
	}

	if _, excluded := that.cannotHave[player][card]; excluded {
		return
	}

	prob := that.probs[player][card] + amount
	if prob > 1.0 {
		prob = 1.0
	}
	that.probs[player][card] = prob

	that.normalize()
}

func (that *PlayerHandModel) pinCard(holder, card string) {
	for _, player := range that.players {
		if player == holder {
			that.probs[player][card] = 1.0
			that.known[player][card] = struct{}{}
		} else {
			that.ruleOut(player, card)
		}
	}
}

func (that *PlayerHandModel) ruleOut(player, card string) {
	that.probs[player][card] = 0.0
	that.cannotHave[player][card] = struct{}{}
}

func (that *PlayerHandModel) isCardPinned(card string) bool {
	for _, player := range that.players {
		if _, isKnown := that.known[player][card]; isKnown {
			return true
		}
	}

	return false
}

// normalize restores the two invariants: per-card mass is scaled down to
// 1.0 when exceeded, then per-player non-known mass is scaled down to
// the hand size. Known entries are exempt from capacity scaling.
func (that *PlayerHandModel) normalize() {
	for _, card := range that.deck.Cards() {
		var total float64
		for _, player := range that.players {
			total += that.probs[player][card]
		}

		if total <= 1.0 {
			continue
		}

		for _, player := range that.players {
			that.probs[player][card] /= total
		}
	}

	for _, player := range that.players {
		var unknownTotal float64
		for _, card := range that.deck.Cards() {
			if _, isKnown := that.known[player][card]; !isKnown {
				unknownTotal += that.probs[player][card]
			}
		}

		capacity := float64(that.handSizes[player])
		if unknownTotal <= capacity {
			continue
		}

		scale := capacity / unknownTotal
		for _, card := range that.deck.Cards() {
			if _, isKnown := that.known[player][card]; !isKnown {
				that.probs[player][card] *= scale
			}
		}
	}
}

// EnvelopeProbability returns the residual solution probability for a
// card: whatever per-card mass the players do not account for.
func (that *PlayerHandModel) EnvelopeProbability(card string) float64 {
	var total float64
	for _, player := range that.players {
		total += that.probs[player][card]
	}

	residual := 1.0 - total
	if residual < 0 {
		return 0
	}

	return residual
}

// Probability returns P(player holds card).
func (that *PlayerHandModel) Probability(player, card string) float64 {
	return that.probs[player][card]
}

// MostLikelyCards returns the player's n highest-probability cards.
// Ties go to the card earliest in canonical deck order.
func (that *PlayerHandModel) MostLikelyCards(player string, n int) []CardProbability {
	ranked := make([]CardProbability, 0, that.deck.Size())
	for _, card := range that.deck.Cards() {
		ranked = append(ranked, CardProbability{Card: card, Probability: that.probs[player][card]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}

// CardsAboveThreshold returns the player's cards at or above the
// threshold, highest probability first.
func (that *PlayerHandModel) CardsAboveThreshold(player string, threshold float64) []CardProbability {
	var ranked []CardProbability
	for _, card := range that.deck.Cards() {
		if prob := that.probs[player][card]; prob >= threshold {
			ranked = append(ranked, CardProbability{Card: card, Probability: prob})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})

	return ranked
}

// KnownCards returns the cards certainly held by the player, in
// canonical deck order.
func (that *PlayerHandModel) KnownCards(player string) []string {
	return that.orderedSubset(that.known[player])
}

// CannotHaveCards returns the cards certainly not held by the player, in
// canonical deck order.
func (that *PlayerHandModel) CannotHaveCards(player string) []string {
	return that.orderedSubset(that.cannotHave[player])
}

func (that *PlayerHandModel) orderedSubset(set map[string]struct{}) []string {
	cards := make([]string, 0, len(set))
	for _, card := range that.deck.Cards() {
		if _, ok := set[card]; ok {
			cards = append(cards, card)
		}
	}

	return cards
}
