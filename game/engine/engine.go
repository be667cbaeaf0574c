package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	State() GameState
	Snapshot() Snapshot
	HasWon() bool
	CanUndo() bool
	Seed() int64
	MoveCount() int

	// Moves
	Submit(m Move) (Result, error)
	LegalMoves() []Move

	// Lifecycle
	Redeal(seed int64)
}

// Result is the outcome of a submitted move.
type Result struct {
	Move     Move
	Accepted bool
	Undone   bool
	Effects  Effects
	Won      bool
}

// GameEngine implements Engine. It owns the current state and the undo slot
// and is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	state   GameState
	history History
	seed    int64
	moves   int
}

// NewEngine deals a new game for seed.
func NewEngine(seed int64) *GameEngine {
	return &GameEngine{
		state: NewGame(seed),
		seed:  seed,
	}
}

// NewEngineFromState starts an engine on an arbitrary board, which must pass
// the integrity check.
func NewEngineFromState(gs GameState) (*GameEngine, error) {
	if err := gs.CheckIntegrity(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return &GameEngine{state: gs.Clone()}, nil
}

// State returns a deep copy of the current state
func (e *GameEngine) State() GameState {
	return e.state.Clone()
}

// Snapshot returns the read-only view of the current board
func (e *GameEngine) Snapshot() Snapshot {
	return newSnapshot(e.state, e.history.HasUndo())
}

// HasWon reports whether every foundation is complete
func (e *GameEngine) HasWon() bool {
	return IsWon(e.state.Foundations)
}

// CanUndo reports whether Undo would restore a snapshot
func (e *GameEngine) CanUndo() bool {
	return e.history.HasUndo()
}

// Seed returns the seed the current game was dealt from
func (e *GameEngine) Seed() int64 {
	return e.seed
}

// MoveCount returns the number of accepted moves, undos included
func (e *GameEngine) MoveCount() int {
	return e.moves
}

// Submit applies m. Rejected moves leave the state and the undo slot as they
// were and return a *RejectedError. Accepted moves save the prior state into
// the undo slot before it is replaced.
func (e *GameEngine) Submit(m Move) (Result, error) {
	if m.IsZero() {
		return Result{Move: m}, reject(m, ReasonNotApplicable, "zero move")
	}

	if m.kind == MoveUndo {
		prev, ok := e.history.Undo()
		if !ok {
			return Result{Move: m}, reject(m, ReasonNothingToUndo, "no snapshot retained")
		}
		e.state = prev
		e.moves++
		return Result{Move: m, Accepted: true, Undone: true, Won: e.HasWon()}, nil
	}

	next, eff, err := Apply(e.state, m)
	if err != nil {
		return Result{Move: m}, err
	}
	e.history.Save(e.state)
	e.state = next
	e.moves++
	return Result{Move: m, Accepted: true, Effects: eff, Won: e.HasWon()}, nil
}

// LegalMoves lists the moves the current state accepts
func (e *GameEngine) LegalMoves() []Move {
	return LegalMoves(e.state)
}

// Redeal replaces the game with a fresh deal and drops the undo slot
func (e *GameEngine) Redeal(seed int64) {
	e.state = NewGame(seed)
	e.seed = seed
	e.moves = 0
	e.history.Clear()
}
