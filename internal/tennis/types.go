package tennis

import "time"

// Collection names in the document store.
const (
	CollectionPlayers = "players"
	CollectionVenues  = "venues"
	CollectionMatches = "matches"
)

// Set is one game-count pair: S1 for the owner, S2 for the opponent.
type Set struct {
	S1       int  `json:"s1"`
	S2       int  `json:"s2"`
	TieBreak bool `json:"tieBreak"`
}

// Player is a shared, global player record. UID is a client-generated
// token that stays stable across stores; ID is assigned by the store.
type Player struct {
	ID                string    `json:"id"`
	UID               string    `json:"uid"`
	Nickname          string    `json:"nickname"`
	FirstName         *string   `json:"firstName,omitempty"`
	LastName          *string   `json:"lastName,omitempty"`
	Email             *string   `json:"email,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	IsDefaultOpponent bool      `json:"isDefaultOpponent"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero"`
}

// Venue is a shared court location with hourly rates.
type Venue struct {
	ID           string    `json:"id"`
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         *string   `json:"city,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Latitude     *float64  `json:"lat,omitempty"`
	Longitude    *float64  `json:"lng,omitempty"`
	Surface      string    `json:"surface"`
	PriceMember  float64   `json:"priceMember"`
	PriceGuest   float64   `json:"priceGuest"`
	PriceLight   float64   `json:"priceLight"`
	PriceHeating float64   `json:"priceHeating"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// Match is a recorded match owned by a single user. The *Name fields are a
// snapshot taken at write time and do not follow later renames.
type Match struct {
	ID            string    `json:"id"`
	Player1ID     string    `json:"player1Id"`
	Player1Name   string    `json:"player1Name"`
	Player2ID     string    `json:"player2Id"`
	Player2Name   string    `json:"player2Name"`
	VenueID       *string   `json:"venueId"`
	VenueName     *string   `json:"venueName"`
	Date          string    `json:"date"`
	Sets          []Set     `json:"sets"`
	Notes         string    `json:"notes"`
	UserWon       bool      `json:"userWon"`
	DurationHours float64   `json:"durationHours"`
	UseLights     bool      `json:"useLights"`
	UseHeating    bool      `json:"useHeating"`
	IsGuest       bool      `json:"isGuest"`
	TotalCost     float64   `json:"totalCost"`
	OwnerID       string    `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`
}

// SetInput is a set as typed into the form. Scores are free text.
type SetInput struct {
	S1       FormValue `json:"s1"`
	S2       FormValue `json:"s2"`
	TieBreak bool      `json:"tieBreak"`
}

// MatchInput carries the raw match form.
type MatchInput struct {
	Player1Name string     `json:"player1Name"`
	Player2Name string     `json:"player2Name"`
	Date        string     `json:"date"`
	Location    string     `json:"location"`
	Sets        []SetInput `json:"sets"`
	Notes       string     `json:"notes"`
	Duration    FormValue  `json:"duration"`
	UseLights   bool       `json:"useLights"`
	UseHeating  bool       `json:"useHeating"`
	IsGuest     bool       `json:"isGuest"`
	// TotalCost overrides the calculated cost when not blank.
	TotalCost FormValue `json:"totalCost"`
}
