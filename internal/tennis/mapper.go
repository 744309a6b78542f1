package tennis

import (
	"time"

	"github.com/google/uuid"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
)

// timestampLayout is fixed-width so stored timestamps sort as strings.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewUID returns a client-generated cross-reference token.
func NewUID() string {
	return uuid.NewString()
}

// NewPlayerDocument is the document written the first time a nickname is seen.
func NewPlayerDocument(nickname string, now time.Time) docstore.Document {
	return docstore.Document{
		"uid":               NewUID(),
		"nickname":          nickname,
		"firstName":         nil,
		"lastName":          nil,
		"email":             nil,
		"phone":             nil,
		"isDefaultOpponent": false,
		"createdAt":         FormatTimestamp(now),
	}
}

// NewVenueDocument is the document written the first time a venue name is
// seen. Rates start at zero until edited.
func NewVenueDocument(name string, now time.Time) docstore.Document {
	return docstore.Document{
		"uid":          NewUID(),
		"name":         name,
		"address":      "",
		"city":         nil,
		"phone":        nil,
		"lat":          nil,
		"lng":          nil,
		"surface":      "",
		"priceMember":  0.0,
		"priceGuest":   0.0,
		"priceLight":   0.0,
		"priceHeating": 0.0,
		"isDefault":    false,
		"createdAt":    FormatTimestamp(now),
	}
}

// PlayerFromDocument maps a stored player. Missing fields take zero values.
func PlayerFromDocument(doc docstore.Document) *Player {
	return &Player{
		ID:                str(doc[docstore.IDField]),
		UID:               str(doc["uid"]),
		Nickname:          str(doc["nickname"]),
		FirstName:         strPtr(doc["firstName"]),
		LastName:          strPtr(doc["lastName"]),
		Email:             strPtr(doc["email"]),
		Phone:             strPtr(doc["phone"]),
		IsDefaultOpponent: boolean(doc["isDefaultOpponent"]),
		CreatedAt:         timestamp(doc["createdAt"]),
		UpdatedAt:         timestamp(doc["updatedAt"]),
	}
}

// VenueFromDocument maps a stored venue.
func VenueFromDocument(doc docstore.Document) *Venue {
	return &Venue{
		ID:           str(doc[docstore.IDField]),
		UID:          str(doc["uid"]),
		Name:         str(doc["name"]),
		Address:      str(doc["address"]),
		City:         strPtr(doc["city"]),
		Phone:        strPtr(doc["phone"]),
		Latitude:     floatPtr(doc["lat"]),
		Longitude:    floatPtr(doc["lng"]),
		Surface:      str(doc["surface"]),
		PriceMember:  float(doc["priceMember"]),
		PriceGuest:   float(doc["priceGuest"]),
		PriceLight:   float(doc["priceLight"]),
		PriceHeating: float(doc["priceHeating"]),
		IsDefault:    boolean(doc["isDefault"]),
		CreatedAt:    timestamp(doc["createdAt"]),
		UpdatedAt:    timestamp(doc["updatedAt"]),
	}
}

// Document renders the match for storage. The id is not part of the body.
func (m *Match) Document() docstore.Document {
	sets := make([]any, len(m.Sets))
	for i, s := range m.Sets {
		sets[i] = map[string]any{"s1": s.S1, "s2": s.S2, "tieBreak": s.TieBreak}
	}
	doc := docstore.Document{
		"player1Id":     m.Player1ID,
		"player1Name":   m.Player1Name,
		"player2Id":     m.Player2ID,
		"player2Name":   m.Player2Name,
		"venueId":       nil,
		"venueName":     nil,
		"date":          m.Date,
		"sets":          sets,
		"notes":         m.Notes,
		"userWon":       m.UserWon,
		"durationHours": m.DurationHours,
		"useLights":     m.UseLights,
		"useHeating":    m.UseHeating,
		"isGuest":       m.IsGuest,
		"totalCost":     m.TotalCost,
		"ownerId":       m.OwnerID,
		"createdAt":     FormatTimestamp(m.CreatedAt),
	}
	if m.VenueID != nil {
		doc["venueId"] = *m.VenueID
	}
	if m.VenueName != nil {
		doc["venueName"] = *m.VenueName
	}
	if !m.UpdatedAt.IsZero() {
		doc["updatedAt"] = FormatTimestamp(m.UpdatedAt)
	}
	return doc
}

// MatchFromDocument maps a stored match. Scores that are missing or not
// numeric read as 0.
func MatchFromDocument(doc docstore.Document) *Match {
	m := &Match{
		ID:            str(doc[docstore.IDField]),
		Player1ID:     str(doc["player1Id"]),
		Player1Name:   str(doc["player1Name"]),
		Player2ID:     str(doc["player2Id"]),
		Player2Name:   str(doc["player2Name"]),
		VenueID:       strPtr(doc["venueId"]),
		VenueName:     strPtr(doc["venueName"]),
		Date:          str(doc["date"]),
		Notes:         str(doc["notes"]),
		UserWon:       boolean(doc["userWon"]),
		DurationHours: float(doc["durationHours"]),
		UseLights:     boolean(doc["useLights"]),
		UseHeating:    boolean(doc["useHeating"]),
		IsGuest:       boolean(doc["isGuest"]),
		TotalCost:     float(doc["totalCost"]),
		OwnerID:       str(doc["ownerId"]),
		CreatedAt:     timestamp(doc["createdAt"]),
		UpdatedAt:     timestamp(doc["updatedAt"]),
	}
	if raw, ok := doc["sets"].([]any); ok {
		m.Sets = make([]Set, 0, len(raw))
		for _, item := range raw {
			fields, _ := item.(map[string]any)
			m.Sets = append(m.Sets, Set{
				S1:       integer(fields["s1"]),
				S2:       integer(fields["s2"]),
				TieBreak: boolean(fields["tieBreak"]),
			})
		}
	}
	return m
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		return ParseFloat(FormValue(n))
	}
	return 0
}

func floatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f := float(v)
	return &f
}

func integer(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := ParseScore(FormValue(n))
		return i
	}
	return 0
}

func timestamp(v any) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
