package service

import "github.com/wricardo/klondike/game/engine"

const hiddenLabel = "??"

func newCardView(c engine.Card) CardView {
	if !c.FaceUp {
		return CardView{Label: hiddenLabel}
	}
	return CardView{
		Suit:   c.Suit.String(),
		Rank:   c.Rank.String(),
		Color:  c.Color().String(),
		FaceUp: true,
		Label:  c.String(),
	}
}

func newPileView(p engine.Pile) []CardView {
	out := make([]CardView, len(p))
	for i, c := range p {
		out[i] = newCardView(c)
	}
	return out
}

// visibleSeed returns the deal seed when the client may see it: the client
// picked it or the game is over.
func visibleSeed(sess *Session, won bool) *int64 {
	if !sess.SeedShared && !won {
		return nil
	}
	seed := sess.Engine.Seed()
	return &seed
}

// newBoardView renders the session's current game. Stock cards are reported
// only as a count.
func newBoardView(sess *Session) *BoardView {
	snap := sess.Engine.Snapshot()
	view := &BoardView{
		GameID:      sess.GameID,
		Seed:        visibleSeed(sess, snap.HasWon),
		Tableau:     make([][]CardView, len(snap.Tableau)),
		StockCount:  len(snap.Stock),
		Waste:       newPileView(snap.Waste),
		Foundations: make(map[string][]CardView, len(snap.Foundations)),
		HasWon:      snap.HasWon,
		CanUndo:     snap.CanUndo,
		MoveCount:   sess.Engine.MoveCount(),
	}
	for i, p := range snap.Tableau {
		view.Tableau[i] = newPileView(p)
	}
	for suit, p := range snap.Foundations {
		view.Foundations[suit] = newPileView(p)
	}
	return view
}

func newSessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		GameID:         sess.GameID,
		Seed:           visibleSeed(sess, sess.Engine.HasWon()),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Board:          newBoardView(sess),
	}
}
