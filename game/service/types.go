package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// Move request types accepted on the wire
const (
	MoveTypeDraw                = "draw"
	MoveTypeUndo                = "undo"
	MoveTypeTableauToTableau    = "tableau_to_tableau"
	MoveTypeWasteToTableau      = "waste_to_tableau"
	MoveTypeWasteToFoundation   = "waste_to_foundation"
	MoveTypeTableauToFoundation = "tableau_to_foundation"
	MoveTypeFoundationToTableau = "foundation_to_tableau"
)

// MoveRequest is the client-facing form of a move. Piles are 0-based.
// CardIndex may be omitted for tableau sources, in which case the top card
// is used.
type MoveRequest struct {
	Type      string `json:"type"`
	From      *int   `json:"from,omitempty"`
	CardIndex *int   `json:"card_index,omitempty"`
	To        *int   `json:"to,omitempty"`
	Suit      string `json:"suit,omitempty"`
}

// ToMove converts req into an engine move, reading gs only to resolve an
// omitted card index.
func (req MoveRequest) ToMove(gs engine.GameState) (engine.Move, error) {
	var (
		m   engine.Move
		err error
	)
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case MoveTypeDraw:
		return engine.Draw(), nil
	case MoveTypeUndo:
		return engine.Undo(), nil
	case MoveTypeTableauToTableau:
		from, to, ferr := req.pair()
		if ferr != nil {
			return engine.Move{}, ferr
		}
		m, err = engine.TableauToTableau(from, req.cardIndex(gs, from), to)
	case MoveTypeWasteToTableau:
		if req.To == nil {
			return engine.Move{}, fmt.Errorf("%w: %s needs to", ErrInvalidRequest, req.Type)
		}
		m, err = engine.WasteToTableau(*req.To)
	case MoveTypeWasteToFoundation:
		suit, serr := req.suit()
		if serr != nil {
			return engine.Move{}, serr
		}
		m, err = engine.WasteToFoundation(suit)
	case MoveTypeTableauToFoundation:
		if req.From == nil {
			return engine.Move{}, fmt.Errorf("%w: %s needs from", ErrInvalidRequest, req.Type)
		}
		suit, serr := req.suit()
		if serr != nil {
			return engine.Move{}, serr
		}
		m, err = engine.TableauToFoundation(*req.From, req.cardIndex(gs, *req.From), suit)
	case MoveTypeFoundationToTableau:
		if req.To == nil {
			return engine.Move{}, fmt.Errorf("%w: %s needs to", ErrInvalidRequest, req.Type)
		}
		suit, serr := req.suit()
		if serr != nil {
			return engine.Move{}, serr
		}
		m, err = engine.FoundationToTableau(suit, *req.To)
	default:
		return engine.Move{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, req.Type)
	}
	if err != nil {
		return engine.Move{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return m, nil
}

func (req MoveRequest) pair() (int, int, error) {
	if req.From == nil || req.To == nil {
		return 0, 0, fmt.Errorf("%w: %s needs from and to", ErrInvalidRequest, req.Type)
	}
	return *req.From, *req.To, nil
}

func (req MoveRequest) suit() (engine.Suit, error) {
	if req.Suit == "" {
		return 0, fmt.Errorf("%w: %s needs suit", ErrInvalidRequest, req.Type)
	}
	s, err := engine.ParseSuit(req.Suit)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s, nil
}

// cardIndex resolves an omitted index to the top of pile. Out-of-range piles
// fall through to the engine constructors, which reject them.
func (req MoveRequest) cardIndex(gs engine.GameState, pile int) int {
	if req.CardIndex != nil {
		return *req.CardIndex
	}
	if pile < 0 || pile >= engine.TableauPiles || len(gs.Tableau[pile]) == 0 {
		return 0
	}
	return len(gs.Tableau[pile]) - 1
}

// RequestFromMove is the inverse of ToMove, used to hand hints back to
// clients in a form they can submit unchanged.
func RequestFromMove(m engine.Move) MoveRequest {
	ip := func(v int) *int { return &v }
	switch m.Kind() {
	case engine.MoveDraw:
		return MoveRequest{Type: MoveTypeDraw}
	case engine.MoveUndo:
		return MoveRequest{Type: MoveTypeUndo}
	case engine.MoveTableauToTableau:
		return MoveRequest{Type: MoveTypeTableauToTableau, From: ip(m.FromPile()), CardIndex: ip(m.CardIndex()), To: ip(m.ToPile())}
	case engine.MoveWasteToTableau:
		return MoveRequest{Type: MoveTypeWasteToTableau, To: ip(m.ToPile())}
	case engine.MoveToFoundation:
		if m.Source() == engine.FromWaste {
			return MoveRequest{Type: MoveTypeWasteToFoundation, Suit: m.Suit().String()}
		}
		return MoveRequest{Type: MoveTypeTableauToFoundation, From: ip(m.FromPile()), CardIndex: ip(m.CardIndex()), Suit: m.Suit().String()}
	case engine.MoveFoundationToTableau:
		return MoveRequest{Type: MoveTypeFoundationToTableau, Suit: m.Suit().String(), To: ip(m.ToPile())}
	default:
		return MoveRequest{}
	}
}

// CardView is a card as shown to clients. Face-down cards carry no suit or rank.
type CardView struct {
	Suit   string `json:"suit,omitempty"`
	Rank   string `json:"rank,omitempty"`
	Color  string `json:"color,omitempty"`
	FaceUp bool   `json:"face_up"`
	Label  string `json:"label"`
}

// BoardView is the client rendering of a game. Seed is set only when the
// client supplied it or the game is won.
type BoardView struct {
	GameID      string                `json:"game_id"`
	Seed        *int64                `json:"seed,omitempty"`
	Tableau     [][]CardView          `json:"tableau"`
	StockCount  int                   `json:"stock_count"`
	Waste       []CardView            `json:"waste"`
	Foundations map[string][]CardView `json:"foundations"`
	HasWon      bool                  `json:"has_won"`
	CanUndo     bool                  `json:"can_undo"`
	MoveCount   int                   `json:"move_count"`
}

// MoveResult contains the result of a move operation. A refused move is a
// successful call with Accepted false and a Reason.
type MoveResult struct {
	Accepted bool        `json:"accepted"`
	Reason   string      `json:"reason,omitempty"`
	Message  string      `json:"message"`
	Move     string      `json:"move"`
	Board    *BoardView  `json:"board"`
	Events   []GameEvent `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "draw", "recycle", "reveal", "foundation", "undo", "victory", "redeal"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Card      string    `json:"card,omitempty"`
	Pile      *int      `json:"pile,omitempty"`
}

// MoveRecord is one entry of a session's move log.
type MoveRecord struct {
	Index     int       `json:"index"`
	Move      string    `json:"move"`
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []MoveRecord `json:"moves"`
	TotalMoves  int          `json:"total_moves"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// Hint is a currently legal move.
type Hint struct {
	Request     MoveRequest `json:"request"`
	Description string      `json:"description"`
}

// HintsResponse lists the legal moves for a session.
type HintsResponse struct {
	Hints []Hint `json:"hints"`
	Count int    `json:"count"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string     `json:"id"`
	GameID         string     `json:"game_id"`
	Seed           *int64     `json:"seed,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	Board          *BoardView `json:"board"`
}
