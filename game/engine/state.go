package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidDeck is returned when a deck or state is not exactly one standard deck.
var ErrInvalidDeck = errors.New("invalid deck")

// Foundations holds one pile per suit, indexed by Suit.
type Foundations [SuitCount]Pile

// GameState is the complete board. Values returned by this package never share
// slices with one another, so a GameState can be kept as a snapshot as-is.
type GameState struct {
	Tableau     [TableauPiles]Pile `json:"tableau"`
	Stock       Pile               `json:"stock"`
	Waste       Pile               `json:"waste"`
	Foundations Foundations        `json:"foundations"`
}

// Clone returns a deep copy of the state.
func (gs GameState) Clone() GameState {
	out := GameState{
		Stock: gs.Stock.Clone(),
		Waste: gs.Waste.Clone(),
	}
	for i := range gs.Tableau {
		out.Tableau[i] = gs.Tableau[i].Clone()
	}
	for i := range gs.Foundations {
		out.Foundations[i] = gs.Foundations[i].Clone()
	}
	return out
}

// Foundation returns the foundation pile for suit.
func (gs GameState) Foundation(s Suit) Pile {
	if !s.Valid() {
		return nil
	}
	return gs.Foundations[s]
}

// CardCount returns the number of cards across every zone.
func (gs GameState) CardCount() int {
	n := len(gs.Stock) + len(gs.Waste)
	for _, p := range gs.Tableau {
		n += len(p)
	}
	for _, p := range gs.Foundations {
		n += len(p)
	}
	return n
}

// CheckIntegrity verifies the global invariant: the zones together hold exactly
// one standard deck, foundations are ascending single-suit runs from the Ace,
// every tableau pile ends in a single face-up run, stock cards are face-down and
// waste cards face-up.
func (gs GameState) CheckIntegrity() error {
	var seen [SuitCount][RanksPerSuit]bool
	count := 0
	mark := func(zone string, c Card) error {
		if !c.Suit.Valid() || !c.Rank.Valid() {
			return fmt.Errorf("%w: %s holds malformed card %+v", ErrInvalidDeck, zone, c)
		}
		if seen[c.Suit][c.Rank] {
			return fmt.Errorf("%w: duplicate %s in %s", ErrInvalidDeck, c, zone)
		}
		seen[c.Suit][c.Rank] = true
		count++
		return nil
	}

	for i, p := range gs.Tableau {
		faceUp := false
		for _, c := range p {
			if err := mark(fmt.Sprintf("tableau %d", i), c); err != nil {
				return err
			}
			if faceUp && !c.FaceUp {
				return fmt.Errorf("%w: tableau %d has face-down %s above a face-up card", ErrInvalidDeck, i, c)
			}
			faceUp = faceUp || c.FaceUp
		}
		if len(p) > 0 && !faceUp {
			return fmt.Errorf("%w: tableau %d has no face-up top card", ErrInvalidDeck, i)
		}
	}
	for _, c := range gs.Stock {
		if err := mark("stock", c); err != nil {
			return err
		}
		if c.FaceUp {
			return fmt.Errorf("%w: stock card %s is face-up", ErrInvalidDeck, c)
		}
	}
	for _, c := range gs.Waste {
		if err := mark("waste", c); err != nil {
			return err
		}
		if !c.FaceUp {
			return fmt.Errorf("%w: waste card %s is face-down", ErrInvalidDeck, c)
		}
	}
	for _, s := range Suits {
		for i, c := range gs.Foundations[s] {
			if err := mark("foundation "+s.String(), c); err != nil {
				return err
			}
			if c.Suit != s || c.Rank != Rank(i) {
				return fmt.Errorf("%w: foundation %s position %d holds %s", ErrInvalidDeck, s, i, c)
			}
		}
	}

	if count != DeckSize {
		return fmt.Errorf("%w: %d cards in play, want %d", ErrInvalidDeck, count, DeckSize)
	}
	return nil
}

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	Tableau     [TableauPiles]Pile `json:"tableau"`
	Stock       Pile               `json:"stock"`
	Waste       Pile               `json:"waste"`
	Foundations map[string]Pile    `json:"foundations"`
	HasWon      bool               `json:"has_won"`
	CanUndo     bool               `json:"can_undo"`
}

func newSnapshot(gs GameState, canUndo bool) Snapshot {
	c := gs.Clone()
	snap := Snapshot{
		Tableau:     c.Tableau,
		Stock:       c.Stock,
		Waste:       c.Waste,
		Foundations: make(map[string]Pile, SuitCount),
		HasWon:      IsWon(c.Foundations),
		CanUndo:     canUndo,
	}
	for _, s := range Suits {
		snap.Foundations[s.String()] = c.Foundations[s]
	}
	return snap
}
