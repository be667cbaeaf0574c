package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, seed int64) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session := &service.Session{
		ID:             id,
		Engine:         engine.NewEngine(seed),
		GameID:         "game-" + id,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func intp(v int) *int { return &v }

func newTestService(t *testing.T) (service.GameService, *service.SessionInfo) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), service.FixedSeed(42))
	info, err := svc.CreateSession(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), service.FixedSeed(42))

	t.Run("configured seed", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, nil)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if info.Seed != nil || info.Board.Seed != nil {
			t.Errorf("Expected server-chosen seed to be withheld, got %v/%v", info.Seed, info.Board.Seed)
		}
		if info.GameID == "" || info.Board.GameID != info.GameID {
			t.Errorf("Expected matching game IDs, got %q and %q", info.GameID, info.Board.GameID)
		}
	})

	t.Run("explicit seed", func(t *testing.T) {
		seed := int64(7)
		info, err := svc.CreateSession(ctx, &seed)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if info.Seed == nil || *info.Seed != 7 || info.Board.Seed == nil || *info.Board.Seed != 7 {
			t.Errorf("Expected explicit seed 7 echoed back, got %v/%v", info.Seed, info.Board.Seed)
		}
	})

	t.Run("seed source failure", func(t *testing.T) {
		broken := service.NewGameService(NewMockSessionManager(), func() (int64, error) {
			return 0, errors.New("no entropy")
		})
		if _, err := broken.CreateSession(ctx, nil); err == nil {
			t.Error("Expected error when the seed source fails")
		}
	})

	t.Run("random seed by default", func(t *testing.T) {
		random := service.NewGameService(NewMockSessionManager(), nil)
		if _, err := random.CreateSession(ctx, nil); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
	})
}

func TestGameService_BoardConcealsFaceDown(t *testing.T) {
	svc, info := newTestService(t)

	board, err := svc.GetBoard(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if len(board.Tableau) != engine.TableauPiles {
		t.Fatalf("Expected %d piles, got %d", engine.TableauPiles, len(board.Tableau))
	}
	for i, pile := range board.Tableau {
		if len(pile) != i+1 {
			t.Errorf("Pile %d: expected %d cards, got %d", i, i+1, len(pile))
		}
		for j, c := range pile {
			top := j == len(pile)-1
			if c.FaceUp != top {
				t.Errorf("Pile %d card %d: face_up=%v", i, j, c.FaceUp)
			}
			if !c.FaceUp && (c.Suit != "" || c.Rank != "" || c.Label != "??") {
				t.Errorf("Face-down card leaked: %+v", c)
			}
			if c.FaceUp && c.Suit == "" {
				t.Errorf("Face-up card missing suit: %+v", c)
			}
		}
	}
	if board.StockCount != engine.StockAfterDeal {
		t.Errorf("Expected %d stock cards, got %d", engine.StockAfterDeal, board.StockCount)
	}
	if len(board.Foundations) != engine.SuitCount {
		t.Errorf("Expected 4 foundations, got %d", len(board.Foundations))
	}
}

func TestGameService_ServerSeedWithheld(t *testing.T) {
	ctx := context.Background()
	mgr := NewMockSessionManager()
	svc := service.NewGameService(mgr, service.FixedSeed(42))

	info, err := svc.CreateSession(ctx, nil)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	board, err := svc.GetBoard(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if board.Seed != nil {
		t.Errorf("Expected no seed on an unfinished board, got %d", *board.Seed)
	}
	res, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if res.Board.Seed != nil {
		t.Errorf("Expected no seed after a move, got %d", *res.Board.Seed)
	}
	listed, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	for _, s := range listed {
		if s.Seed != nil || s.Board.Seed != nil {
			t.Errorf("Session %s lists its seed", s.ID)
		}
	}

	explicit := int64(5)
	if _, err := svc.Redeal(ctx, info.ID, &explicit); err != nil {
		t.Fatalf("Redeal() error = %v", err)
	}
	res, err = svc.Redeal(ctx, info.ID, nil)
	if err != nil {
		t.Fatalf("Redeal() error = %v", err)
	}
	if res.Board.Seed != nil {
		t.Errorf("Expected server redeal to withhold the seed, got %d", *res.Board.Seed)
	}

	// One card short of a win: the seed is revealed once the game is over.
	var gs engine.GameState
	for _, suit := range engine.Suits {
		for r := engine.Ace; r <= engine.King; r++ {
			c := engine.Card{Suit: suit, Rank: r, FaceUp: true}
			if suit == engine.Spades && r == engine.King {
				gs.Tableau[0] = engine.Pile{c}
				continue
			}
			gs.Foundations[suit] = append(gs.Foundations[suit], c)
		}
	}
	e, err := engine.NewEngineFromState(gs)
	if err != nil {
		t.Fatalf("NewEngineFromState() error = %v", err)
	}
	mgr.sessions[info.ID].Engine = e

	res, err = svc.Move(ctx, info.ID, service.MoveRequest{Type: "tableau_to_foundation", From: intp(0), Suit: "spades"})
	if err != nil {
		t.Fatalf("final move: %v", err)
	}
	if !res.Accepted || !res.Board.HasWon {
		t.Fatalf("Expected winning move, got %s: %s", res.Reason, res.Message)
	}
	if res.Board.Seed == nil {
		t.Error("Expected the seed on a won board")
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	tests := []struct {
		name         string
		sessionID    string
		req          service.MoveRequest
		wantErr      error
		wantAccepted bool
		wantReason   string
	}{
		{
			name:         "draw",
			sessionID:    info.ID,
			req:          service.MoveRequest{Type: "draw"},
			wantAccepted: true,
		},
		{
			name:       "same pile",
			sessionID:  info.ID,
			req:        service.MoveRequest{Type: "tableau_to_tableau", From: intp(3), To: intp(3)},
			wantReason: "same_pile_noop",
		},
		{
			name:       "buried card to foundation",
			sessionID:  info.ID,
			req:        service.MoveRequest{Type: "tableau_to_foundation", From: intp(6), CardIndex: intp(0), Suit: "hearts"},
			wantReason: "not_top_of_pile",
		},
		{
			name:      "unknown session",
			sessionID: "nonexistent",
			req:       service.MoveRequest{Type: "draw"},
			wantErr:   service.ErrSessionNotFound,
		},
		{
			name:      "unknown type",
			sessionID: info.ID,
			req:       service.MoveRequest{Type: "teleport"},
			wantErr:   service.ErrInvalidRequest,
		},
		{
			name:      "pile out of range",
			sessionID: info.ID,
			req:       service.MoveRequest{Type: "waste_to_tableau", To: intp(9)},
			wantErr:   service.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Move(ctx, tt.sessionID, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Move() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Move() unexpected error = %v", err)
			}
			if result.Accepted != tt.wantAccepted {
				t.Errorf("Accepted = %v, want %v (%s)", result.Accepted, tt.wantAccepted, result.Message)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Board == nil {
				t.Error("Expected a board in every result")
			}
		})
	}
}

func TestGameService_DrawEvents(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	var last *service.MoveResult
	for i := 0; i < engine.StockAfterDeal; i++ {
		res, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"})
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if len(res.Events) == 0 || res.Events[0].Type != "draw" {
			t.Fatalf("draw %d: expected draw event, got %+v", i, res.Events)
		}
		last = res
	}
	if last.Board.StockCount != 0 || len(last.Board.Waste) != engine.StockAfterDeal {
		t.Fatalf("Expected empty stock and full waste, got %d/%d", last.Board.StockCount, len(last.Board.Waste))
	}

	res, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"})
	if err != nil {
		t.Fatalf("recycle: %v", err)
	}
	if len(res.Events) != 1 || res.Events[0].Type != "recycle" {
		t.Errorf("Expected recycle event, got %+v", res.Events)
	}
	if res.Board.StockCount != engine.StockAfterDeal || len(res.Board.Waste) != 0 {
		t.Errorf("Expected waste back in stock, got %d/%d", res.Board.StockCount, len(res.Board.Waste))
	}
}

func TestGameService_Undo(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	res, err := svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if res.Accepted || res.Reason != "nothing_to_undo" {
		t.Errorf("Expected nothing_to_undo, got %+v", res)
	}

	if _, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	res, err = svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !res.Accepted || len(res.Events) == 0 || res.Events[0].Type != "undo" {
		t.Errorf("Expected accepted undo with event, got %+v", res)
	}
	if res.Board.StockCount != engine.StockAfterDeal || res.Board.CanUndo {
		t.Errorf("Expected the deal restored without undo, got stock=%d can_undo=%v", res.Board.StockCount, res.Board.CanUndo)
	}

	// Undo through Move is the same operation.
	res, err = svc.Move(ctx, info.ID, service.MoveRequest{Type: "undo"})
	if err != nil {
		t.Fatalf("Move(undo) error = %v", err)
	}
	if res.Accepted {
		t.Error("Expected second undo to be refused")
	}
}

func TestGameService_HintsAreAccepted(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	hints, err := svc.Hints(ctx, info.ID)
	if err != nil {
		t.Fatalf("Hints() error = %v", err)
	}
	if hints.Count == 0 || hints.Count != len(hints.Hints) {
		t.Fatalf("Expected hints, got %+v", hints)
	}
	for _, h := range hints.Hints {
		if h.Description == "" {
			t.Errorf("Hint %+v has no description", h.Request)
		}
	}

	first := hints.Hints[0]
	res, err := svc.Move(ctx, info.ID, first.Request)
	if err != nil {
		t.Fatalf("Move(%+v) error = %v", first.Request, err)
	}
	if !res.Accepted {
		t.Errorf("Expected hinted move to be accepted, got %s: %s", res.Reason, res.Message)
	}
}

func TestGameService_Redeal(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	if _, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"}); err != nil {
		t.Fatalf("draw: %v", err)
	}

	seed := int64(99)
	res, err := svc.Redeal(ctx, info.ID, &seed)
	if err != nil {
		t.Fatalf("Redeal() error = %v", err)
	}
	if res.Board.Seed == nil || *res.Board.Seed != 99 || res.Board.MoveCount != 0 || res.Board.CanUndo {
		t.Errorf("Expected fresh board, got seed=%v moves=%d undo=%v", res.Board.Seed, res.Board.MoveCount, res.Board.CanUndo)
	}
	if strings.Contains(res.Message, "99") {
		t.Errorf("Redeal message should not carry the seed: %q", res.Message)
	}
	if res.Board.GameID == info.GameID {
		t.Error("Expected a new game ID after redeal")
	}
	if len(res.Events) != 1 || res.Events[0].Type != "redeal" {
		t.Errorf("Expected redeal event, got %+v", res.Events)
	}

	history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
	if err != nil {
		t.Fatalf("GetMoveHistory() error = %v", err)
	}
	if history.TotalMoves != 0 {
		t.Errorf("Expected history cleared by redeal, got %d", history.TotalMoves)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"}); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}
	if _, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "tableau_to_tableau", From: intp(0), To: intp(0)}); err != nil {
		t.Fatalf("rejected move: %v", err)
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		wantNext  bool
		wantPages int
	}{
		{"defaults are newest first", service.HistoryOptions{}, 6, 6, false, 1},
		{"ascending", service.HistoryOptions{Order: "asc"}, 6, 1, false, 1},
		{"first page of two", service.HistoryOptions{Limit: 4, Order: "asc"}, 4, 1, true, 2},
		{"second page of two", service.HistoryOptions{Page: 2, Limit: 4, Order: "asc"}, 2, 5, false, 2},
		{"second page descending", service.HistoryOptions{Page: 2, Limit: 4}, 2, 2, false, 2},
		{"past the end", service.HistoryOptions{Page: 5, Limit: 4}, 0, 0, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory() error = %v", err)
			}
			if h.TotalMoves != 6 {
				t.Errorf("Expected 6 total moves, got %d", h.TotalMoves)
			}
			if len(h.Moves) != tt.wantLen {
				t.Fatalf("Expected %d moves, got %d", tt.wantLen, len(h.Moves))
			}
			if tt.wantLen > 0 && h.Moves[0].Index != tt.wantFirst {
				t.Errorf("Expected first index %d, got %d", tt.wantFirst, h.Moves[0].Index)
			}
			if h.HasNext != tt.wantNext || h.TotalPages != tt.wantPages {
				t.Errorf("Expected has_next=%v pages=%d, got %v/%d", tt.wantNext, tt.wantPages, h.HasNext, h.TotalPages)
			}
		})
	}

	h, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
	if h.Moves[0].Accepted || h.Moves[0].Reason != "same_pile_noop" {
		t.Errorf("Expected the rejected attempt logged, got %+v", h.Moves[0])
	}
}

func TestGameService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)
	if _, err := svc.CreateSession(ctx, nil); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := svc.DeleteSession(ctx, info.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()
	svc, info := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Move(ctx, info.ID, service.MoveRequest{Type: "draw"}); err != nil {
				t.Errorf("draw: %v", err)
			}
			if _, err := svc.GetBoard(ctx, info.ID); err != nil {
				t.Errorf("board: %v", err)
			}
		}()
	}
	wg.Wait()

	board, err := svc.GetBoard(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if board.MoveCount != 20 {
		t.Errorf("Expected 20 serialized moves, got %d", board.MoveCount)
	}
	if board.StockCount+len(board.Waste) != engine.StockAfterDeal {
		t.Errorf("Expected stock and waste to hold %d cards, got %d", engine.StockAfterDeal, board.StockCount+len(board.Waste))
	}
}
