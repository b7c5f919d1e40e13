package entity

// Category tags every card in the deck. The hidden solution contains
// exactly one card per category.
type Category string

const (
	CategorySuspect Category = "suspect"
	CategoryWeapon  Category = "weapon"
	CategoryRoom    Category = "room"
)

// Categories lists all categories in canonical order.
var Categories = []Category{CategorySuspect, CategoryWeapon, CategoryRoom}

// SolutionSize is the number of cards set aside as the hidden solution,
// one per category.
var SolutionSize = len(Categories)

var (
	StandardSuspects = []string{"Scarlett", "Mustard", "White", "Green", "Peacock", "Plum"}
	StandardWeapons  = []string{"Knife", "Candlestick", "Revolver", "Rope", "Lead Pipe", "Wrench"}
	StandardRooms    = []string{"Kitchen", "Ballroom", "Conservatory", "Dining Room", "Billiard Room", "Library", "Lounge", "Hall", "Study"}
)

// Deck is the fixed, finite set of category-tagged cards a game is
// played with. Category membership is immutable after construction; the
// card -> category index is precomputed so lookups never scan.
type Deck struct {
	cards          []string
	cardsByCat     map[Category][]string
	categoryByCard map[string]Category
}

// NewDeck builds a deck from one card list per category. Card names are
// expected to be distinct across all categories.
func NewDeck(suspects, weapons, rooms []string) *Deck {
	deck := &Deck{
		cardsByCat:     make(map[Category][]string, len(Categories)),
		categoryByCard: make(map[string]Category),
	}

	deck.addCategory(CategorySuspect, suspects)
	deck.addCategory(CategoryWeapon, weapons)
	deck.addCategory(CategoryRoom, rooms)

	return deck
}

// NewStandardDeck builds the classic 21-card deck.
func NewStandardDeck() *Deck {
	return NewDeck(StandardSuspects, StandardWeapons, StandardRooms)
}

func (that *Deck) addCategory(category Category, cards []string) {
	owned := make([]string, len(cards))
	copy(owned, cards)

	that.cardsByCat[category] = owned
	that.cards = append(that.cards, owned...)

	for _, card := range owned {
		that.categoryByCard[card] = category
	}
}

// Cards returns every card in canonical order: suspects, weapons, rooms.
func (that *Deck) Cards() []string {
	cards := make([]string, len(that.cards))
	copy(cards, that.cards)

	return cards
}

// CategoryCards returns the cards of one category in canonical order.
func (that *Deck) CategoryCards(category Category) []string {
	owned := that.cardsByCat[category]

	cards := make([]string, len(owned))
	copy(cards, owned)

	return cards
}

// CategoryOf reports the category a card belongs to.
func (that *Deck) CategoryOf(card string) (Category, bool) {
	category, ok := that.categoryByCard[card]
	return category, ok
}

// Contains reports whether the card is part of the deck.
func (that *Deck) Contains(card string) bool {
	_, ok := that.categoryByCard[card]
	return ok
}

// Size returns the total number of cards in the deck.
func (that *Deck) Size() int {
	return len(that.cards)
}

// RemainderCount returns how many cards stay face-up on the table after
// dealing handSize cards to each player and setting the solution aside.
// Never negative.
func (that *Deck) RemainderCount(playerCount, handSize int) int {
	remainder := that.Size() - SolutionSize - playerCount*handSize
	if remainder < 0 {
		return 0
	}

	return remainder
}
