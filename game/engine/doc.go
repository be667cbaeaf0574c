// Package engine provides the rules engine and state machine for Klondike
// solitaire.
//
// The engine package implements:
//   - The card and deck model, with a seeded unbiased shuffle
//   - The Klondike deal: seven tableau piles of sizes 1 through 7 plus a stock
//   - Pure rule predicates for tableau and foundation placement and the win check
//   - A move executor that turns a state and a move into a new state or a rejection
//   - Single-level undo
//
// Core Types:
//
// GameState holds the tableau, stock, waste and foundations. Move is a closed
// tagged union built through validated constructors such as Draw and
// TableauToTableau. Apply is the pure transition function; GameEngine wraps it
// with the current state, the undo slot and a move counter.
//
// Usage:
//
//	eng := engine.NewEngine(42)
//
//	m, err := engine.TableauToTableau(6, 6, 2)
//	if err != nil {
//		log.Fatal(err) // malformed operands
//	}
//	if _, err := eng.Submit(m); err != nil {
//		reason, _ := engine.RejectionReason(err)
//		log.Printf("rejected: %s", reason)
//	}
//	snap := eng.Snapshot()
//
// Rules:
//
// Tableau builds down in alternating colors and only a King may fill an empty
// pile. Foundations build up by suit from the Ace. Drawing moves one card from
// stock to waste; drawing from an empty stock recycles the waste, reversed and
// face-down. The top card of a foundation may be played back onto the tableau.
// After a card leaves a tableau pile, a face-down card left on top is turned
// face-up. The game is won when all four foundations hold thirteen cards. No
// deadlock detection is performed.
package engine
