package deduction

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/deduction-backend/internal/apperror"
	"github.com/rocketscienceinc/deduction-backend/internal/entity"
)

var (
	ErrSelfRefutation       = errors.New("responder cannot be the suggester")
	ErrShownWithoutResponse = errors.New("shown card requires a responder")
	ErrShownNotSuggested    = errors.New("shown card is not one of the suggested cards")
	ErrCategoryMismatch     = errors.New("card does not belong to the expected category")
	ErrHandCardCount        = errors.New("own cards must match the hand size")
	ErrRemainderCardCount   = errors.New("remainder cards must match the remainder count")
	ErrUnknownStrategy      = errors.New("unknown belief strategy")
)

// GameLedger is the single entry point for state changes. It validates
// incoming events, derives the hard constraints that follow from turn
// order alone, and drives the probability models in a fixed order so
// every event is observed consistently.
type GameLedger struct {
	deck    *entity.Deck
	players []entity.Player

	envelope   *CategoryEnvelopeModel
	hands      *PlayerHandModel
	refutation *RefutationBeliefModel
	strategy   beliefStrategy

	suggestions []entity.Suggestion
	globalKnown map[string]struct{}

	confidenceThreshold float64
	now                 func() time.Time
}

// NewGameLedger starts a game. playerNames are seat order, 3 to 6
// entries, first entry the local viewer; every player is dealt handSize
// cards.
func NewGameLedger(deck *entity.Deck, playerNames []string, handSize int, tuning Tuning, kind StrategyKind) (*GameLedger, error) {
	if len(playerNames) < 3 || len(playerNames) > 6 {
		return nil, apperror.ErrPlayerCount
	}

	seen := make(map[string]struct{}, len(playerNames))
	players := make([]entity.Player, 0, len(playerNames))
	handSizes := make(map[string]int, len(playerNames))

	for seat, name := range playerNames {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", apperror.ErrDuplicatePlayer, name)
		}
		seen[name] = struct{}{}

		players = append(players, entity.Player{Name: name, Seat: seat, HandSize: handSize})
		handSizes[name] = handSize
	}

	hands := NewPlayerHandModel(deck, playerNames, handSizes, tuning.HandIncreaseFactor)

	ledger := &GameLedger{
		deck:                deck,
		players:             players,
		envelope:            NewCategoryEnvelopeModel(deck, tuning.EnvelopeDecreaseFactor),
		hands:               hands,
		globalKnown:         make(map[string]struct{}),
		confidenceThreshold: tuning.ConfidenceThreshold,
		now:                 time.Now,
	}

	switch kind {
	case StrategyEnvelopeOnly:
		ledger.strategy = envelopeOnlyStrategy{}
	case StrategyRuleAugmented:
		ledger.refutation = NewRefutationBeliefModel(hands, tuning.RefutationBaseIncrease, tuning.RefutationGrowthFactor)
		ledger.strategy = &ruleAugmentedStrategy{refutation: ledger.refutation}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}

	return ledger, nil
}

// RecordSuggestion validates and applies one suggestion event. The call
// either mutates the whole state atomically or rejects the event with no
// changes at all.
func (that *GameLedger) RecordSuggestion(suggester, suspect, weapon, room, responder, shownCard string) error {
	if err := that.validateSuggestion(suggester, suspect, weapon, room, responder, shownCard); err != nil {
		return err
	}

	suggestion := entity.Suggestion{
		Timestamp: that.now(),
		Suggester: suggester,
		Suspect:   suspect,
		Weapon:    weapon,
		Room:      room,
		Responder: responder,
		ShownCard: shownCard,
	}
	that.suggestions = append(that.suggestions, suggestion)

	// Hard fact first: a revealed card has a certain holder.
	if suggestion.HasShownCard() {
		that.globalKnown[shownCard] = struct{}{}
	}

	// The three models observe the same event in a fixed order; the
	// updates do not commute.
	that.envelope.Update(suggestion.Cards(), responder, shownCard)
	that.hands.UpdateFromSuggestion(suggestion.Cards(), responder, shownCard, that.turnOrderAfter(suggester))

	// No responder pins all three cards as the solution.
	if !suggestion.HasResponder() {
		for _, card := range suggestion.Cards() {
			that.globalKnown[card] = struct{}{}
		}
	}

	that.strategy.OnSuggestion(suggestion)

	return nil
}

func (that *GameLedger) validateSuggestion(suggester, suspect, weapon, room, responder, shownCard string) error {
	if !that.hasPlayer(suggester) {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownPlayer, suggester)
	}

	if err := that.validateCategory(suspect, entity.CategorySuspect); err != nil {
		return err
	}
	if err := that.validateCategory(weapon, entity.CategoryWeapon); err != nil {
		return err
	}
	if err := that.validateCategory(room, entity.CategoryRoom); err != nil {
		return err
	}

	if responder != "" {
		if !that.hasPlayer(responder) {
			return fmt.Errorf("%w: %s", apperror.ErrUnknownPlayer, responder)
		}
		if responder == suggester {
			return ErrSelfRefutation
		}
	}

	if shownCard != "" {
		if responder == "" {
			return ErrShownWithoutResponse
		}
		if shownCard != suspect && shownCard != weapon && shownCard != room {
			return fmt.Errorf("%w: %s", ErrShownNotSuggested, shownCard)
		}
	}

	return nil
}

func (that *GameLedger) validateCategory(card string, want entity.Category) error {
	category, ok := that.deck.CategoryOf(card)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownCard, card)
	}

	if category != want {
		return fmt.Errorf("%w: %s is not a %s", ErrCategoryMismatch, card, want)
	}

	return nil
}

// turnOrderAfter returns the players clockwise after the suggester,
// wrapping around the table and excluding the suggester.
func (that *GameLedger) turnOrderAfter(suggester string) []string {
	var start int
	for i, player := range that.players {
		if player.Name == suggester {
			start = i + 1
			break
		}
	}

	order := make([]string, 0, len(that.players)-1)
	for i := 0; i < len(that.players)-1; i++ {
		order = append(order, that.players[(start+i)%len(that.players)].Name)
	}

	return order
}

// SetOwnCards records the local viewer's dealt hand. Must be called once
// with exactly handSize distinct cards.
func (that *GameLedger) SetOwnCards(cards []string) error {
	viewer := that.players[0]
	if len(cards) != viewer.HandSize {
		return fmt.Errorf("%w: got %d, want %d", ErrHandCardCount, len(cards), viewer.HandSize)
	}

	if err := that.validateFreshCards(cards); err != nil {
		return err
	}

	for _, card := range cards {
		that.markKnownHolder(viewer.Name, card)
	}

	return nil
}

// SetRemainderCards records the face-up cards that are neither dealt nor
// part of the solution.
func (that *GameLedger) SetRemainderCards(cards []string) error {
	want := that.deck.RemainderCount(len(that.players), that.players[0].HandSize)
	if len(cards) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrRemainderCardCount, len(cards), want)
	}

	if err := that.validateFreshCards(cards); err != nil {
		return err
	}

	for _, card := range cards {
		that.globalKnown[card] = struct{}{}
		that.envelope.MarkKnownCard(card)
		that.hands.MarkPublicCard(card)
	}

	return nil
}

// validateFreshCards rejects unknown, duplicated, or already-resolved
// cards before any mutation happens.
func (that *GameLedger) validateFreshCards(cards []string) error {
	seen := make(map[string]struct{}, len(cards))
	for _, card := range cards {
		if !that.deck.Contains(card) {
			return fmt.Errorf("%w: %s", apperror.ErrUnknownCard, card)
		}
		if _, dup := seen[card]; dup {
			return fmt.Errorf("%w: %s", apperror.ErrDuplicateCard, card)
		}
		seen[card] = struct{}{}

		if _, known := that.globalKnown[card]; known {
			return fmt.Errorf("%w: %s", apperror.ErrCardKnown, card)
		}
	}

	return nil
}

func (that *GameLedger) markKnownHolder(player, card string) {
	that.globalKnown[card] = struct{}{}
	that.envelope.MarkKnownCard(card)
	that.hands.MarkKnownCard(player, card)
}

func (that *GameLedger) hasPlayer(name string) bool {
	for _, player := range that.players {
		if player.Name == name {
			return true
		}
	}

	return false
}

// Players returns the seats in order. The first player is the viewer.
func (that *GameLedger) Players() []entity.Player {
	return append([]entity.Player(nil), that.players...)
}

// LocalViewer returns the name of the player the engine observes for.
func (that *GameLedger) LocalViewer() string {
	return that.players[0].Name
}

// Suggestions returns the chronological suggestion log.
func (that *GameLedger) Suggestions() []entity.Suggestion {
	return append([]entity.Suggestion(nil), that.suggestions...)
}

// PlayerCards returns the player's certainly-held and certainly-not-held
// cards.
func (that *GameLedger) PlayerCards(player string) (known, cannotHave []string, err error) {
	if !that.hasPlayer(player) {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrUnknownPlayer, player)
	}

	return that.hands.KnownCards(player), that.hands.CannotHaveCards(player), nil
}

// GlobalKnownCards returns every card whose holder (player, table, or
// solution) is certain, in canonical deck order.
func (that *GameLedger) GlobalKnownCards() []string {
	cards := make([]string, 0, len(that.globalKnown))
	for _, card := range that.deck.Cards() {
		if _, ok := that.globalKnown[card]; ok {
			cards = append(cards, card)
		}
	}

	return cards
}

// SolutionProbabilities returns the per-category solution distributions.
func (that *GameLedger) SolutionProbabilities() map[entity.Category]map[string]float64 {
	return that.envelope.Distributions()
}

// MostLikelySolution returns the argmax card per category.
func (that *GameLedger) MostLikelySolution() map[entity.Category]string {
	return that.envelope.MostLikelySolution()
}

// IsSolutionConfident reports whether every category's maximum exceeds
// the threshold; pass a non-positive threshold for the configured
// default.
func (that *GameLedger) IsSolutionConfident(threshold float64) bool {
	if threshold <= 0 {
		threshold = that.confidenceThreshold
	}

	return that.envelope.IsConfident(threshold)
}

// EnvelopeProbability returns the hand-matrix residual for a card.
func (that *GameLedger) EnvelopeProbability(card string) float64 {
	return that.hands.EnvelopeProbability(card)
}

// PlayerCardProbability returns P(player holds card).
func (that *GameLedger) PlayerCardProbability(player, card string) float64 {
	return that.hands.Probability(player, card)
}

// MostLikelyCards returns the player's n most likely cards.
func (that *GameLedger) MostLikelyCards(player string, n int) []CardProbability {
	return that.hands.MostLikelyCards(player, n)
}

// CardsAboveThreshold returns the player's cards at or above threshold.
func (that *GameLedger) CardsAboveThreshold(player string, threshold float64) []CardProbability {
	return that.hands.CardsAboveThreshold(player, threshold)
}

// RefutationCount returns how often the player silently refuted
// suggestions containing the card. Always 0 for the envelope-only
// strategy.
func (that *GameLedger) RefutationCount(player, card string) int {
	if that.refutation == nil {
		return 0
	}

	return that.refutation.Count(player, card)
}
