package engine

// LegalMoves lists every move Apply would accept on gs, in a stable order:
// foundation plays first, then tableau plays, then draw. Undo is never listed.
func LegalMoves(gs GameState) []Move {
	var out []Move
	accept := func(m Move, err error) {
		if err != nil {
			return
		}
		if _, _, err := Apply(gs, m); err == nil {
			out = append(out, m)
		}
	}

	if top, ok := gs.Waste.Top(); ok {
		accept(WasteToFoundation(top.Suit))
	}
	for i, p := range gs.Tableau {
		if top, ok := p.Top(); ok {
			accept(TableauToFoundation(i, len(p)-1, top.Suit))
		}
	}

	for from, p := range gs.Tableau {
		for idx, c := range p {
			if !c.FaceUp {
				continue
			}
			for to := 0; to < TableauPiles; to++ {
				if to == from {
					continue
				}
				accept(TableauToTableau(from, idx, to))
			}
		}
	}
	if len(gs.Waste) > 0 {
		for to := 0; to < TableauPiles; to++ {
			accept(WasteToTableau(to))
		}
	}
	for _, s := range Suits {
		if len(gs.Foundations[s]) == 0 {
			continue
		}
		for to := 0; to < TableauPiles; to++ {
			accept(FoundationToTableau(s, to))
		}
	}

	if len(gs.Stock) > 0 || len(gs.Waste) > 0 {
		out = append(out, Draw())
	}
	return out
}
