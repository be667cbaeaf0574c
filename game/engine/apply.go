package engine

// Effects describes what an accepted move did beyond relocating cards.
type Effects struct {
	// Moved lists the relocated cards, bottom first, in their new orientation.
	Moved []Card `json:"moved,omitempty"`

	Recycled     bool `json:"recycled,omitempty"`
	Revealed     bool `json:"revealed,omitempty"`
	RevealedPile int  `json:"revealed_pile,omitempty"`
	RevealedCard Card `json:"revealed_card,omitempty"`

	// ToFoundation is set when the move completed on a foundation pile.
	ToFoundation bool `json:"to_foundation,omitempty"`
}

// Apply evaluates m against gs. Legality is fully checked before anything is
// copied, so a rejected move returns gs unchanged together with a
// *RejectedError. An accepted move returns a new state sharing no memory with
// gs. Undo cannot be applied to a bare state; see GameEngine.Submit.
func Apply(gs GameState, m Move) (GameState, Effects, error) {
	switch m.kind {
	case MoveDraw:
		return applyDraw(gs, m)
	case MoveTableauToTableau:
		return applyTableauToTableau(gs, m)
	case MoveWasteToTableau:
		return applyWasteToTableau(gs, m)
	case MoveToFoundation:
		if m.source == FromWaste {
			return applyWasteToFoundation(gs, m)
		}
		return applyTableauToFoundation(gs, m)
	case MoveFoundationToTableau:
		return applyFoundationToTableau(gs, m)
	default:
		return gs, Effects{}, reject(m, ReasonNotApplicable, "%s is not a board move", m.kind)
	}
}

func applyDraw(gs GameState, m Move) (GameState, Effects, error) {
	if len(gs.Stock) == 0 && len(gs.Waste) == 0 {
		return gs, Effects{}, reject(m, ReasonEmptySource, "stock and waste are both empty")
	}

	next := gs.Clone()
	if len(next.Stock) == 0 {
		stock := make(Pile, 0, len(next.Waste))
		for i := len(next.Waste) - 1; i >= 0; i-- {
			stock = append(stock, next.Waste[i].Flipped(false))
		}
		next.Stock = stock
		next.Waste = Pile{}
		return next, Effects{Recycled: true}, nil
	}

	card := next.Stock[len(next.Stock)-1].Flipped(true)
	next.Stock = next.Stock[:len(next.Stock)-1]
	next.Waste = append(next.Waste, card)
	return next, Effects{Moved: []Card{card}}, nil
}

func applyTableauToTableau(gs GameState, m Move) (GameState, Effects, error) {
	if m.fromPile == m.toPile {
		return gs, Effects{}, reject(m, ReasonSamePile, "source and target are pile %d", m.fromPile)
	}
	src := gs.Tableau[m.fromPile]
	if len(src) == 0 {
		return gs, Effects{}, reject(m, ReasonEmptySource, "pile %d is empty", m.fromPile)
	}
	if m.cardIndex >= len(src) {
		return gs, Effects{}, reject(m, ReasonInvalidIndex, "pile %d has %d cards", m.fromPile, len(src))
	}
	lead := src[m.cardIndex]
	if !lead.FaceUp {
		return gs, Effects{}, reject(m, ReasonFaceDown, "card %d of pile %d is face-down", m.cardIndex, m.fromPile)
	}
	target := gs.Tableau[m.toPile].TopPtr()
	if !CanPlaceOnTableau(lead, target) {
		return gs, Effects{}, reject(m, ReasonIllegalRank, "%s cannot go on %s", lead, describeTarget(target))
	}

	next := gs.Clone()
	moving := next.Tableau[m.fromPile][m.cardIndex:].Clone()
	next.Tableau[m.fromPile] = next.Tableau[m.fromPile][:m.cardIndex]
	next.Tableau[m.toPile] = append(next.Tableau[m.toPile], moving...)

	eff := Effects{Moved: moving}
	reveal(&next, m.fromPile, &eff)
	return next, eff, nil
}

func applyWasteToTableau(gs GameState, m Move) (GameState, Effects, error) {
	card, ok := gs.Waste.Top()
	if !ok {
		return gs, Effects{}, reject(m, ReasonEmptySource, "waste is empty")
	}
	target := gs.Tableau[m.toPile].TopPtr()
	if !CanPlaceOnTableau(card, target) {
		return gs, Effects{}, reject(m, ReasonIllegalRank, "%s cannot go on %s", card, describeTarget(target))
	}

	next := gs.Clone()
	next.Waste = next.Waste[:len(next.Waste)-1]
	next.Tableau[m.toPile] = append(next.Tableau[m.toPile], card)
	return next, Effects{Moved: []Card{card}}, nil
}

func applyWasteToFoundation(gs GameState, m Move) (GameState, Effects, error) {
	card, ok := gs.Waste.Top()
	if !ok {
		return gs, Effects{}, reject(m, ReasonEmptySource, "waste is empty")
	}
	if err := checkFoundation(gs, m, card); err != nil {
		return gs, Effects{}, err
	}

	next := gs.Clone()
	next.Waste = next.Waste[:len(next.Waste)-1]
	next.Foundations[m.suit] = append(next.Foundations[m.suit], card)
	return next, Effects{Moved: []Card{card}, ToFoundation: true}, nil
}

func applyTableauToFoundation(gs GameState, m Move) (GameState, Effects, error) {
	src := gs.Tableau[m.fromPile]
	if len(src) == 0 {
		return gs, Effects{}, reject(m, ReasonEmptySource, "pile %d is empty", m.fromPile)
	}
	if m.cardIndex >= len(src) {
		return gs, Effects{}, reject(m, ReasonInvalidIndex, "pile %d has %d cards", m.fromPile, len(src))
	}
	if m.cardIndex != len(src)-1 {
		return gs, Effects{}, reject(m, ReasonNotTopOfPile, "card %d is buried in pile %d", m.cardIndex, m.fromPile)
	}
	card := src[m.cardIndex]
	if !card.FaceUp {
		return gs, Effects{}, reject(m, ReasonFaceDown, "top of pile %d is face-down", m.fromPile)
	}
	if err := checkFoundation(gs, m, card); err != nil {
		return gs, Effects{}, err
	}

	next := gs.Clone()
	next.Tableau[m.fromPile] = next.Tableau[m.fromPile][:m.cardIndex]
	next.Foundations[m.suit] = append(next.Foundations[m.suit], card)

	eff := Effects{Moved: []Card{card}, ToFoundation: true}
	reveal(&next, m.fromPile, &eff)
	return next, eff, nil
}

func applyFoundationToTableau(gs GameState, m Move) (GameState, Effects, error) {
	card, ok := gs.Foundations[m.suit].Top()
	if !ok {
		return gs, Effects{}, reject(m, ReasonEmptySource, "%s foundation is empty", m.suit)
	}
	target := gs.Tableau[m.toPile].TopPtr()
	if !CanPlaceOnTableau(card, target) {
		return gs, Effects{}, reject(m, ReasonIllegalRank, "%s cannot go on %s", card, describeTarget(target))
	}

	card = card.Flipped(true)
	next := gs.Clone()
	f := next.Foundations[m.suit]
	next.Foundations[m.suit] = f[:len(f)-1]
	next.Tableau[m.toPile] = append(next.Tableau[m.toPile], card)
	return next, Effects{Moved: []Card{card}}, nil
}

func checkFoundation(gs GameState, m Move, card Card) error {
	if card.Suit != m.suit {
		return reject(m, ReasonWrongSuit, "%s does not belong on %s", card, m.suit)
	}
	if !IsNextFoundationCard(card, gs.Foundations[m.suit]) {
		return reject(m, ReasonIllegalRank, "%s foundation needs rank %s next, got %s",
			m.suit, nextRankLabel(gs.Foundations[m.suit]), card)
	}
	return nil
}

// reveal flips a face-down card newly exposed on top of pile.
func reveal(gs *GameState, pile int, eff *Effects) {
	p := gs.Tableau[pile]
	if len(p) == 0 || p[len(p)-1].FaceUp {
		return
	}
	p[len(p)-1].FaceUp = true
	eff.Revealed = true
	eff.RevealedPile = pile
	eff.RevealedCard = p[len(p)-1]
}

func describeTarget(target *Card) string {
	if target == nil {
		return "an empty pile"
	}
	return target.String()
}

func nextRankLabel(foundation Pile) string {
	if len(foundation) >= RanksPerSuit {
		return "none"
	}
	return Rank(len(foundation)).String()
}
