package engine

// IsNextFoundationCard reports whether card is the next rank for foundation.
// The caller checks that the foundation belongs to card's suit.
func IsNextFoundationCard(card Card, foundation Pile) bool {
	return int(card.Rank) == len(foundation)
}

// CanPlaceOnTableau reports whether card may be placed on a tableau pile whose
// top card is target. A nil target means the pile is empty and only a King fits.
func CanPlaceOnTableau(card Card, target *Card) bool {
	if target == nil {
		return card.Rank == King
	}
	return card.Color() != target.Color() && card.Rank == target.Rank-1
}

// IsWon reports whether every foundation holds a full suit.
func IsWon(foundations Foundations) bool {
	for _, p := range foundations {
		if len(p) != RanksPerSuit {
			return false
		}
	}
	return true
}
