package engine

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four French suits.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Rank is the ordered card value, Ace (0) through King (12).
type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Color is derived from the suit.
type Color int

const (
	Red Color = iota
	Black
)

const (
	// Layout constants
	TableauPiles   = 7
	SuitCount      = 4
	RanksPerSuit   = 13
	DeckSize       = SuitCount * RanksPerSuit
	TableauCards   = TableauPiles * (TableauPiles + 1) / 2
	StockAfterDeal = DeckSize - TableauCards
)

// Suits lists every suit in foundation order.
var Suits = [SuitCount]Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = [SuitCount]string{"hearts", "diamonds", "clubs", "spades"}

var rankNames = [RanksPerSuit]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Hearts && s <= Spades
}

func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitNames[s]
}

// Letter returns the single upper-case letter used in compact card labels.
func (s Suit) Letter() string {
	if !s.Valid() {
		return "?"
	}
	return strings.ToUpper(suitNames[s][:1])
}

// Color returns red for hearts and diamonds, black for clubs and spades.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit accepts a suit name ("hearts") or its letter ("H"), case-insensitive.
func ParseSuit(v string) (Suit, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range suitNames {
		if v == name || v == name[:1] {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", v)
}

// Valid reports whether r is between Ace and King.
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankNames[r]
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank accepts "A", "2".."10", "J", "Q", "K", case-insensitive.
func ParseRank(v string) (Rank, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for i, name := range rankNames {
		if v == name {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", v)
}

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Card is an immutable playing card. Two cards are the same card when suit and
// rank match; FaceUp is orientation only.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"face_up"`
}

// Same reports whether c and o are the same (suit, rank) card.
func (c Card) Same(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}

// Color returns the card's suit color.
func (c Card) Color() Color {
	return c.Suit.Color()
}

// Flipped returns a copy of c with the given orientation.
func (c Card) Flipped(faceUp bool) Card {
	c.FaceUp = faceUp
	return c
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Pile is an ordered sequence of cards, bottom first. The last element is the top.
type Pile []Card

// Top returns the topmost card, if any.
func (p Pile) Top() (Card, bool) {
	if len(p) == 0 {
		return Card{}, false
	}
	return p[len(p)-1], true
}

// TopPtr returns a pointer to a copy of the top card, or nil for an empty pile.
func (p Pile) TopPtr() *Card {
	top, ok := p.Top()
	if !ok {
		return nil
	}
	return &top
}

// Clone returns a copy that shares no memory with p. A nil pile clones to an
// empty, non-nil pile so JSON renders [] rather than null.
func (p Pile) Clone() Pile {
	out := make(Pile, len(p))
	copy(out, p)
	return out
}
