package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is returned by the Move constructors for malformed operands.
var ErrInvalidMove = errors.New("invalid move")

// MoveKind tags the variant held by a Move.
type MoveKind string

const (
	MoveDraw                MoveKind = "draw"
	MoveTableauToTableau    MoveKind = "tableau_to_tableau"
	MoveWasteToTableau      MoveKind = "waste_to_tableau"
	MoveToFoundation        MoveKind = "to_foundation"
	MoveFoundationToTableau MoveKind = "foundation_to_tableau"
	MoveUndo                MoveKind = "undo"
)

// Source names where a foundation move takes its card from.
type Source string

const (
	FromWaste   Source = "waste"
	FromTableau Source = "tableau"
)

// Move is a validated move request. The zero value is not a valid move; build
// moves with the constructors below.
type Move struct {
	kind      MoveKind
	source    Source
	fromPile  int
	cardIndex int
	toPile    int
	suit      Suit
}

// Draw turns the top stock card onto the waste, or recycles the waste when the
// stock is empty.
func Draw() Move {
	return Move{kind: MoveDraw}
}

// Undo restores the single retained snapshot.
func Undo() Move {
	return Move{kind: MoveUndo}
}

// TableauToTableau moves the run starting at cardIndex of pile from onto pile to.
func TableauToTableau(from, cardIndex, to int) (Move, error) {
	if err := checkPile("source", from); err != nil {
		return Move{}, err
	}
	if err := checkPile("target", to); err != nil {
		return Move{}, err
	}
	if cardIndex < 0 {
		return Move{}, fmt.Errorf("%w: card index %d", ErrInvalidMove, cardIndex)
	}
	return Move{kind: MoveTableauToTableau, source: FromTableau, fromPile: from, cardIndex: cardIndex, toPile: to}, nil
}

// WasteToTableau moves the top waste card onto pile to.
func WasteToTableau(to int) (Move, error) {
	if err := checkPile("target", to); err != nil {
		return Move{}, err
	}
	return Move{kind: MoveWasteToTableau, source: FromWaste, toPile: to}, nil
}

// WasteToFoundation moves the top waste card onto the foundation for suit.
func WasteToFoundation(suit Suit) (Move, error) {
	if !suit.Valid() {
		return Move{}, fmt.Errorf("%w: suit %d", ErrInvalidMove, int(suit))
	}
	return Move{kind: MoveToFoundation, source: FromWaste, suit: suit}, nil
}

// TableauToFoundation moves card cardIndex of pile onto the foundation for suit.
// Only the top card of a pile is accepted by the executor.
func TableauToFoundation(pile, cardIndex int, suit Suit) (Move, error) {
	if err := checkPile("source", pile); err != nil {
		return Move{}, err
	}
	if cardIndex < 0 {
		return Move{}, fmt.Errorf("%w: card index %d", ErrInvalidMove, cardIndex)
	}
	if !suit.Valid() {
		return Move{}, fmt.Errorf("%w: suit %d", ErrInvalidMove, int(suit))
	}
	return Move{kind: MoveToFoundation, source: FromTableau, fromPile: pile, cardIndex: cardIndex, suit: suit}, nil
}

// FoundationToTableau moves the top card of suit's foundation onto pile to.
func FoundationToTableau(suit Suit, to int) (Move, error) {
	if !suit.Valid() {
		return Move{}, fmt.Errorf("%w: suit %d", ErrInvalidMove, int(suit))
	}
	if err := checkPile("target", to); err != nil {
		return Move{}, err
	}
	return Move{kind: MoveFoundationToTableau, suit: suit, toPile: to}, nil
}

func checkPile(role string, idx int) error {
	if idx < 0 || idx >= TableauPiles {
		return fmt.Errorf("%w: %s pile %d out of range 0-%d", ErrInvalidMove, role, idx, TableauPiles-1)
	}
	return nil
}

func (m Move) Kind() MoveKind { return m.kind }
func (m Move) Source() Source { return m.source }
func (m Move) FromPile() int { return m.fromPile }
func (m Move) CardIndex() int { return m.cardIndex }
func (m Move) ToPile() int { return m.toPile }
func (m Move) Suit() Suit { return m.suit }
func (m Move) IsZero() bool { return m.kind == "" }

func (m Move) String() string {
	switch m.kind {
	case MoveDraw:
		return "draw"
	case MoveUndo:
		return "undo"
	case MoveTableauToTableau:
		return fmt.Sprintf("t%d[%d]->t%d", m.fromPile, m.cardIndex, m.toPile)
	case MoveWasteToTableau:
		return fmt.Sprintf("waste->t%d", m.toPile)
	case MoveToFoundation:
		if m.source == FromWaste {
			return "waste->" + m.suit.String()
		}
		return fmt.Sprintf("t%d[%d]->%s", m.fromPile, m.cardIndex, m.suit)
	case MoveFoundationToTableau:
		return fmt.Sprintf("%s->t%d", m.suit, m.toPile)
	default:
		return "invalid"
	}
}
