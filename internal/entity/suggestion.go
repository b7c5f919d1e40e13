package entity

import "time"

// Suggestion is one recorded challenge: a suggester names one card per
// category, and at most one other player refutes it. Responder is empty
// when nobody could refute; ShownCard is empty when the refuting card
// was not revealed to the local viewer.
type Suggestion struct {
	Timestamp time.Time `json:"timestamp"`
	Suggester string    `json:"suggester"`
	Suspect   string    `json:"suspect"`
	Weapon    string    `json:"weapon"`
	Room      string    `json:"room"`
	Responder string    `json:"responder,omitempty"`
	ShownCard string    `json:"shown_card,omitempty"`
}

// Cards returns the three suggested cards in category order.
func (that Suggestion) Cards() [3]string {
	return [3]string{that.Suspect, that.Weapon, that.Room}
}

// HasResponder reports whether any player refuted the suggestion.
func (that Suggestion) HasResponder() bool {
	return that.Responder != ""
}

// HasShownCard reports whether the refuting card is known to the viewer.
func (that Suggestion) HasShownCard() bool {
	return that.ShownCard != ""
}
