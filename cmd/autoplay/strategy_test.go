package main

import (
	"testing"

	"github.com/wricardo/klondike/game/service"
)

func ip(v int) *int { return &v }

func up(label string) service.CardView { return service.CardView{Label: label, FaceUp: true} }

func down() service.CardView { return service.CardView{Label: "??"} }

func hint(req service.MoveRequest) service.Hint { return service.Hint{Request: req} }

// testBoard has a face-down card under pile 0's top and a single card on pile 1.
func testBoard() *service.BoardView {
	return &service.BoardView{
		Tableau: [][]service.CardView{
			{down(), up("6S")},
			{up("7H")},
			{},
		},
		StockCount: 3,
		Waste:      []service.CardView{up("2C")},
	}
}

var (
	drawHint      = hint(service.MoveRequest{Type: service.MoveTypeDraw})
	revealHint    = hint(service.MoveRequest{Type: service.MoveTypeTableauToTableau, From: ip(0), CardIndex: ip(1), To: ip(1)})
	shuffleHint   = hint(service.MoveRequest{Type: service.MoveTypeTableauToTableau, From: ip(1), CardIndex: ip(0), To: ip(2)})
	wasteHint     = hint(service.MoveRequest{Type: service.MoveTypeWasteToTableau, To: ip(2)})
	foundHint     = hint(service.MoveRequest{Type: service.MoveTypeWasteToFoundation, Suit: "clubs"})
	fromFoundHint = hint(service.MoveRequest{Type: service.MoveTypeFoundationToTableau, Suit: "hearts", To: ip(2)})
)

func TestStrategyPriorities(t *testing.T) {
	tests := []struct {
		name  string
		hints []service.Hint
		want  string
	}{
		{"foundation beats everything", []service.Hint{drawHint, revealHint, wasteHint, foundHint}, service.MoveTypeWasteToFoundation},
		{"reveal beats waste", []service.Hint{drawHint, wasteHint, revealHint}, service.MoveTypeTableauToTableau},
		{"waste beats draw", []service.Hint{drawHint, wasteHint, shuffleHint}, service.MoveTypeWasteToTableau},
		{"draw over idle shuffles", []service.Hint{shuffleHint, fromFoundHint, drawHint}, service.MoveTypeDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStrategy(1)
			req, ok := s.NextMove(testBoard(), tt.hints)
			if !ok {
				t.Fatal("Expected a move")
			}
			if req.Type != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, req.Type)
			}
		})
	}
}

func TestStrategyNeverPlaysIdleMoves(t *testing.T) {
	s := NewStrategy(1)
	if _, ok := s.NextMove(testBoard(), []service.Hint{shuffleHint, fromFoundHint}); ok {
		t.Error("Expected no move when only idle moves are available")
	}
	if _, ok := s.NextMove(testBoard(), nil); ok {
		t.Error("Expected no move without hints")
	}
}

func TestRevealsCard(t *testing.T) {
	board := testBoard()
	if !revealsCard(board, revealHint.Request) {
		t.Error("Expected moving 6S to reveal a card")
	}
	if revealsCard(board, shuffleHint.Request) {
		t.Error("Expected moving a whole pile to reveal nothing")
	}
	if revealsCard(board, service.MoveRequest{From: ip(9), CardIndex: ip(1)}) {
		t.Error("Expected out-of-range pile to reveal nothing")
	}
}

func TestStrategyStuckAfterFullPass(t *testing.T) {
	board := testBoard()
	s := NewStrategy(1)

	// Stock plus waste is 4 cards, so 5 draws cover a full pass and a recycle.
	for i := 0; i < 5; i++ {
		if _, ok := s.NextMove(board, []service.Hint{drawHint}); !ok {
			t.Fatalf("Expected draw %d to be played", i+1)
		}
	}
	if _, ok := s.NextMove(board, []service.Hint{drawHint}); ok {
		t.Error("Expected the strategy to give up after a full pass")
	}

	s.Reset()
	if _, ok := s.NextMove(board, []service.Hint{drawHint}); !ok {
		t.Error("Expected Reset to clear the draw counter")
	}
}

func TestStrategyProgressResetsDraws(t *testing.T) {
	board := testBoard()
	s := NewStrategy(1)
	for i := 0; i < 5; i++ {
		s.NextMove(board, []service.Hint{drawHint})
	}
	if _, ok := s.NextMove(board, []service.Hint{drawHint, wasteHint}); !ok {
		t.Fatal("Expected waste move")
	}
	if _, ok := s.NextMove(board, []service.Hint{drawHint}); !ok {
		t.Error("Expected draws to be allowed again after progress")
	}
}
