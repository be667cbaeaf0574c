package engine

import "fmt"

// Deal lays out a Klondike game from deck. Pile i receives the next i+1 cards
// from the front of the deck with only its last card face-up; the remaining
// cards form the face-down stock. deck itself is left untouched.
func Deal(deck []Card) (GameState, error) {
	if len(deck) != DeckSize {
		return GameState{}, fmt.Errorf("%w: deal needs %d cards, got %d", ErrInvalidDeck, DeckSize, len(deck))
	}

	var gs GameState
	idx := 0
	for i := 0; i < TableauPiles; i++ {
		pile := make(Pile, 0, i+1)
		for j := 0; j <= i; j++ {
			pile = append(pile, deck[idx].Flipped(false))
			idx++
		}
		pile[len(pile)-1].FaceUp = true
		gs.Tableau[i] = pile
	}

	gs.Stock = make(Pile, 0, len(deck)-idx)
	for _, c := range deck[idx:] {
		gs.Stock = append(gs.Stock, c.Flipped(false))
	}
	gs.Waste = Pile{}
	for i := range gs.Foundations {
		gs.Foundations[i] = Pile{}
	}

	if err := gs.CheckIntegrity(); err != nil {
		return GameState{}, err
	}
	return gs, nil
}

// NewGame deals a game from the deck generated for seed.
func NewGame(seed int64) GameState {
	gs, err := Deal(GenerateDeck(seed))
	if err != nil {
		// GenerateDeck always yields a full deck.
		panic(fmt.Sprintf("deal generated deck: %v", err))
	}
	return gs
}
