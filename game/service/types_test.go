package service

import (
	"errors"
	"testing"

	"github.com/wricardo/klondike/game/engine"
)

func ptr(v int) *int { return &v }

func TestMoveRequestToMove(t *testing.T) {
	gs := engine.NewGame(1)

	tests := []struct {
		name    string
		req     MoveRequest
		want    string
		wantErr bool
	}{
		{"draw", MoveRequest{Type: "draw"}, "draw", false},
		{"draw upper case", MoveRequest{Type: " DRAW "}, "draw", false},
		{"undo", MoveRequest{Type: "undo"}, "undo", false},
		{"tableau run", MoveRequest{Type: "tableau_to_tableau", From: ptr(4), CardIndex: ptr(2), To: ptr(1)}, "t4[2]->t1", false},
		{"tableau default index is top", MoveRequest{Type: "tableau_to_tableau", From: ptr(4), To: ptr(1)}, "t4[4]->t1", false},
		{"waste to tableau", MoveRequest{Type: "waste_to_tableau", To: ptr(3)}, "waste->t3", false},
		{"waste to foundation", MoveRequest{Type: "waste_to_foundation", Suit: "S"}, "waste->spades", false},
		{"tableau to foundation", MoveRequest{Type: "tableau_to_foundation", From: ptr(2), Suit: "clubs"}, "t2[2]->clubs", false},
		{"foundation to tableau", MoveRequest{Type: "foundation_to_tableau", Suit: "hearts", To: ptr(0)}, "hearts->t0", false},
		{"missing to", MoveRequest{Type: "waste_to_tableau"}, "", true},
		{"missing from", MoveRequest{Type: "tableau_to_tableau", To: ptr(1)}, "", true},
		{"missing suit", MoveRequest{Type: "waste_to_foundation"}, "", true},
		{"bad suit", MoveRequest{Type: "foundation_to_tableau", Suit: "stars", To: ptr(0)}, "", true},
		{"pile out of range", MoveRequest{Type: "tableau_to_tableau", From: ptr(7), To: ptr(1)}, "", true},
		{"negative index", MoveRequest{Type: "tableau_to_tableau", From: ptr(1), CardIndex: ptr(-1), To: ptr(2)}, "", true},
		{"unknown type", MoveRequest{Type: "shuffle"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.req.ToMove(gs)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("Expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMove() error = %v", err)
			}
			if m.String() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, m)
			}
		})
	}
}

func TestRequestFromMoveRoundTrip(t *testing.T) {
	gs := engine.NewGame(8)
	for _, m := range engine.LegalMoves(gs) {
		req := RequestFromMove(m)
		back, err := req.ToMove(gs)
		if err != nil {
			t.Errorf("%s: ToMove() error = %v", m, err)
			continue
		}
		if back != m {
			t.Errorf("Expected %s, got %s", m, back)
		}
	}
}

func TestCardViewConceals(t *testing.T) {
	down := newCardView(engine.Card{Suit: engine.Spades, Rank: engine.Ace})
	if down != (CardView{Label: hiddenLabel}) {
		t.Errorf("Expected concealed card, got %+v", down)
	}

	up := newCardView(engine.Card{Suit: engine.Hearts, Rank: engine.Queen, FaceUp: true})
	want := CardView{Suit: "hearts", Rank: "Q", Color: "red", FaceUp: true, Label: "QH"}
	if up != want {
		t.Errorf("Expected %+v, got %+v", want, up)
	}
}
