package entity

// Player is a seat at the table. Seat positions fix the clockwise turn
// order; seat 0 is the local viewer.
type Player struct {
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
	HandSize int    `json:"hand_size"`
}
