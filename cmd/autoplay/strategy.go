package main

import (
	"math/rand"

	"github.com/wricardo/klondike/game/service"
)

// Priorities of the hint kinds, highest first. Zero means never play.
const (
	priorityFoundation = 100
	priorityReveal     = 80
	priorityWaste      = 50
	priorityDraw       = 5
)

// Strategy picks the next move from the server's hints. It plays greedily:
// foundations first, then moves that turn up a face-down card, then waste
// plays, and draws when nothing else helps. Tableau shuffles that reveal
// nothing are never played so the game cannot loop between two piles.
type Strategy struct {
	rng *rand.Rand

	// drawsSinceProgress counts consecutive draws with no other move played.
	drawsSinceProgress int
}

// NewStrategy creates a strategy whose ties are broken by seed.
func NewStrategy(seed int64) *Strategy {
	return &Strategy{rng: rand.New(rand.NewSource(seed))}
}

// Reset clears the per-game progress tracking.
func (s *Strategy) Reset() {
	s.drawsSinceProgress = 0
}

// NextMove returns the request to play, or false when the game is stuck.
func (s *Strategy) NextMove(board *service.BoardView, hints []service.Hint) (service.MoveRequest, bool) {
	best := 0
	var candidates []service.MoveRequest
	for _, h := range hints {
		p := priority(board, h.Request)
		switch {
		case p == 0 || p < best:
			continue
		case p > best:
			best = p
			candidates = candidates[:0]
		}
		candidates = append(candidates, h.Request)
	}
	if len(candidates) == 0 {
		return service.MoveRequest{}, false
	}

	next := candidates[s.rng.Intn(len(candidates))]
	if next.Type == service.MoveTypeDraw {
		// A full pass through stock and waste without another move is a dead end.
		if s.drawsSinceProgress > board.StockCount+len(board.Waste) {
			return service.MoveRequest{}, false
		}
		s.drawsSinceProgress++
	} else {
		s.drawsSinceProgress = 0
	}
	return next, true
}

func priority(board *service.BoardView, req service.MoveRequest) int {
	switch req.Type {
	case service.MoveTypeWasteToFoundation, service.MoveTypeTableauToFoundation:
		return priorityFoundation
	case service.MoveTypeTableauToTableau:
		if revealsCard(board, req) {
			return priorityReveal
		}
		return 0
	case service.MoveTypeWasteToTableau:
		return priorityWaste
	case service.MoveTypeDraw:
		return priorityDraw
	default:
		return 0
	}
}

// revealsCard reports whether moving the run leaves a face-down card on top.
func revealsCard(board *service.BoardView, req service.MoveRequest) bool {
	if req.From == nil || req.CardIndex == nil {
		return false
	}
	from, idx := *req.From, *req.CardIndex
	if from < 0 || from >= len(board.Tableau) || idx < 1 || idx > len(board.Tableau[from]) {
		return false
	}
	return !board.Tableau[from][idx-1].FaceUp
}
