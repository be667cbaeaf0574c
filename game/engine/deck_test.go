package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if c.FaceUp {
			t.Errorf("expected %s face-down", c)
		}
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := GenerateDeck(42)
	b := GenerateDeck(42)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected the same seed to produce the same deck")
	}

	c := GenerateDeck(43)
	if reflect.DeepEqual(a, c) {
		t.Error("expected different seeds to produce different decks")
	}
}

func TestShuffleKeepsInput(t *testing.T) {
	deck := NewDeck()
	orig := append([]Card(nil), deck...)
	shuffled := Shuffle(deck, 7)

	if !reflect.DeepEqual(deck, orig) {
		t.Error("Shuffle modified its input")
	}
	if len(shuffled) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(shuffled))
	}
	seen := make(map[Card]bool)
	for _, c := range shuffled {
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Errorf("expected %d distinct cards after shuffle, got %d", DeckSize, len(seen))
	}
}

func TestShuffleSpreadsTopCard(t *testing.T) {
	// Over many seeds the first dealt card should take many values.
	firsts := make(map[Card]bool)
	for seed := int64(0); seed < 500; seed++ {
		firsts[GenerateDeck(seed)[0]] = true
	}
	if len(firsts) < 40 {
		t.Errorf("expected the first card to vary across seeds, saw %d distinct", len(firsts))
	}
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if a == b {
		t.Error("expected two random seeds to differ")
	}
}

func TestDealLayout(t *testing.T) {
	gs := NewGame(1)

	for i, p := range gs.Tableau {
		if len(p) != i+1 {
			t.Errorf("pile %d: expected %d cards, got %d", i, i+1, len(p))
		}
		for j, c := range p {
			wantUp := j == len(p)-1
			if c.FaceUp != wantUp {
				t.Errorf("pile %d card %d: expected face-up=%v", i, j, wantUp)
			}
		}
	}
	if len(gs.Stock) != StockAfterDeal {
		t.Errorf("expected %d stock cards, got %d", StockAfterDeal, len(gs.Stock))
	}
	if len(gs.Waste) != 0 {
		t.Errorf("expected empty waste, got %d", len(gs.Waste))
	}
	for _, s := range Suits {
		if len(gs.Foundations[s]) != 0 {
			t.Errorf("expected empty %s foundation", s)
		}
	}
	if err := gs.CheckIntegrity(); err != nil {
		t.Errorf("fresh deal failed integrity: %v", err)
	}
}

func TestDealUsesDeckOrder(t *testing.T) {
	deck := GenerateDeck(99)
	gs, err := Deal(deck)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if !gs.Tableau[0][0].Same(deck[0]) {
		t.Errorf("expected pile 0 to start with %s, got %s", deck[0], gs.Tableau[0][0])
	}
	if !gs.Tableau[1][0].Same(deck[1]) || !gs.Tableau[1][1].Same(deck[2]) {
		t.Error("expected pile 1 to hold deck cards 1 and 2")
	}
	if !gs.Stock[0].Same(deck[TableauCards]) {
		t.Errorf("expected stock to start with deck card %d", TableauCards)
	}
}

func TestDealRejectsShortDeck(t *testing.T) {
	_, err := Deal(NewDeck()[:51])
	if !errors.Is(err, ErrInvalidDeck) {
		t.Errorf("expected ErrInvalidDeck, got %v", err)
	}
}

func TestDealRejectsDuplicates(t *testing.T) {
	deck := NewDeck()
	deck[51] = deck[0]
	_, err := Deal(deck)
	if !errors.Is(err, ErrInvalidDeck) {
		t.Errorf("expected ErrInvalidDeck, got %v", err)
	}
}

// wonState returns a board with every card on its foundation.
func wonState() GameState {
	var gs GameState
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			gs.Foundations[s] = append(gs.Foundations[s], up(s, r))
		}
	}
	return gs
}

func TestCheckIntegrityWonBoard(t *testing.T) {
	if err := wonState().CheckIntegrity(); err != nil {
		t.Errorf("expected won board to pass, got %v", err)
	}
}

func TestCheckIntegrity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(gs *GameState)
	}{
		{"missing card", func(gs *GameState) { gs.Stock = gs.Stock[1:] }},
		{"face-up stock", func(gs *GameState) { gs.Stock[0].FaceUp = true }},
		{"face-down waste", func(gs *GameState) {
			c := gs.Stock[len(gs.Stock)-1]
			gs.Stock = gs.Stock[:len(gs.Stock)-1]
			gs.Waste = append(gs.Waste, c)
		}},
		{"face-down tableau top", func(gs *GameState) { gs.Tableau[3][3].FaceUp = false }},
		{"face-down above face-up", func(gs *GameState) {
			gs.Tableau[2][0].FaceUp = true
			gs.Tableau[2][1].FaceUp = false
			gs.Tableau[2][2].FaceUp = true
		}},
		{"foundation out of order", func(gs *GameState) {
			*gs = wonState()
			f := gs.Foundations[Hearts]
			f[0], f[1] = f[1], f[0]
		}},
		{"card on wrong foundation", func(gs *GameState) {
			*gs = wonState()
			gs.Foundations[Hearts][5], gs.Foundations[Spades][5] = gs.Foundations[Spades][5], gs.Foundations[Hearts][5]
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGame(5)
			tt.mutate(&gs)
			if err := gs.CheckIntegrity(); !errors.Is(err, ErrInvalidDeck) {
				t.Errorf("expected ErrInvalidDeck, got %v", err)
			}
		})
	}
}
