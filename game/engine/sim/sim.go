// Package sim plays seeded random Klondike games against the engine and checks
// the board invariants after every move.
package sim

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/wricardo/klondike/game/engine"
)

// Stats summarizes one self-play game.
type Stats struct {
	Seed            int64
	Steps           int
	Won             bool
	FoundationCards int
	Recycles        int
	Reveals         int
	Undos           int
	Rejected        int
}

type record struct {
	Step int
	Move engine.Move
}

// RunRandomGame deals seed and plays up to maxSteps moves, always taking a
// foundation move when one exists and otherwise picking uniformly among the
// legal moves, with an occasional undo. Random and usually illegal attempts
// are mixed in; a rejected attempt must leave the board and the undo slot
// exactly as they were. The board invariants are checked after every step.
func RunRandomGame(seed int64, maxSteps int) (Stats, error) {
	eng := engine.NewEngine(seed)
	rng := rand.New(rand.NewSource(seed))
	stats := Stats{Seed: seed}
	var records []record

	if err := eng.State().CheckIntegrity(); err != nil {
		return stats, failure(seed, 0, records, err.Error())
	}

	for step := 0; step < maxSteps; step++ {
		if eng.HasWon() {
			break
		}
		legal := eng.LegalMoves()
		if len(legal) == 0 {
			break
		}

		if rng.Intn(4) == 0 {
			rejected, err := attempt(eng, rng)
			if err != nil {
				return stats, failure(seed, step, records, err.Error())
			}
			if rejected {
				stats.Rejected++
			}
		}

		m := choose(rng, legal)
		if eng.CanUndo() && rng.Intn(20) == 0 {
			m = engine.Undo()
		}

		res, err := eng.Submit(m)
		if err != nil {
			return stats, failure(seed, step, records, fmt.Sprintf("legal move %s rejected: %v", m, err))
		}
		records = append(records, record{Step: step, Move: m})
		stats.Steps++

		switch {
		case res.Undone:
			stats.Undos++
		case res.Effects.Recycled:
			stats.Recycles++
		}
		if res.Effects.Revealed {
			stats.Reveals++
		}

		after := eng.State()
		if err := after.CheckIntegrity(); err != nil {
			return stats, failure(seed, step, records, err.Error())
		}
		if !res.Undone && !eng.CanUndo() {
			return stats, failure(seed, step, records, "accepted move left no undo snapshot")
		}
		if res.Undone {
			if _, err := eng.Submit(engine.Undo()); err == nil {
				return stats, failure(seed, step, records, "second undo was accepted")
			} else if reason, _ := engine.RejectionReason(err); reason != engine.ReasonNothingToUndo {
				return stats, failure(seed, step, records, fmt.Sprintf("second undo: %v", err))
			}
			if !reflect.DeepEqual(eng.State(), after) {
				return stats, failure(seed, step, records, "rejected undo changed the board")
			}
		}
	}

	final := eng.State()
	for _, p := range final.Foundations {
		stats.FoundationCards += len(p)
	}
	stats.Won = eng.HasWon()
	return stats, nil
}

func choose(rng *rand.Rand, legal []engine.Move) engine.Move {
	for _, m := range legal {
		if m.Kind() == engine.MoveToFoundation {
			return m
		}
	}
	return legal[rng.Intn(len(legal))]
}

// attempt submits a random move that is not in the legal list and verifies
// that it was rejected without side effects. It reports false when the drawn
// move happened to be legal and was skipped.
func attempt(eng *engine.GameEngine, rng *rand.Rand) (bool, error) {
	m, err := randomMove(rng)
	if err != nil {
		return false, fmt.Errorf("build random move: %w", err)
	}
	for _, lm := range eng.LegalMoves() {
		if lm == m {
			return false, nil
		}
	}
	if m.Kind() == engine.MoveUndo && eng.CanUndo() {
		return false, nil
	}

	before := eng.State()
	canUndo := eng.CanUndo()
	moves := eng.MoveCount()
	if _, err := eng.Submit(m); err == nil {
		return false, fmt.Errorf("unlisted move %s was accepted", m)
	} else if _, ok := engine.RejectionReason(err); !ok {
		return false, fmt.Errorf("move %s failed without a rejection: %v", m, err)
	}
	if !reflect.DeepEqual(eng.State(), before) || eng.CanUndo() != canUndo || eng.MoveCount() != moves {
		return false, fmt.Errorf("rejected move %s changed the engine", m)
	}
	return true, nil
}

func randomMove(rng *rand.Rand) (engine.Move, error) {
	pile := func() int { return rng.Intn(engine.TableauPiles) }
	suit := func() engine.Suit { return engine.Suits[rng.Intn(engine.SuitCount)] }
	switch rng.Intn(6) {
	case 0:
		return engine.TableauToTableau(pile(), rng.Intn(20), pile())
	case 1:
		return engine.WasteToTableau(pile())
	case 2:
		return engine.WasteToFoundation(suit())
	case 3:
		return engine.TableauToFoundation(pile(), rng.Intn(20), suit())
	case 4:
		return engine.FoundationToTableau(suit(), pile())
	default:
		return engine.Undo(), nil
	}
}

func failure(seed int64, step int, records []record, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[s%d] %s\n", r.Step, r.Move)
	}
	return fmt.Errorf("seed=%d step=%d reason=%s\nlast moves:\n%s", seed, step, reason, log)
}
