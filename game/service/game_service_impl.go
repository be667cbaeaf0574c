package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/klondike/game/engine"
)

var tracer = otel.Tracer("github.com/wricardo/klondike/game/service")

// gameServiceImpl implements the GameService interface. mu serializes every
// engine access, so moves on a session are applied one at a time in arrival
// order.
type gameServiceImpl struct {
	sessions SessionManager
	seeds    SeedSource
	mu       sync.Mutex
}

// NewGameService creates a new game service instance. A nil seeds source
// draws a random seed for every new game.
func NewGameService(sessions SessionManager, seeds SeedSource) GameService {
	if seeds == nil {
		seeds = engine.NewSeed
	}
	return &gameServiceImpl{
		sessions: sessions,
		seeds:    seeds,
	}
}

func startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "service."+name, trace.WithAttributes(attribute.String("session.id", sessionID)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *gameServiceImpl) seed(explicit *int64) (int64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	seed, err := s.seeds()
	if err != nil {
		return 0, fmt.Errorf("pick seed: %w", err)
	}
	return seed, nil
}

// session looks up id and refreshes its access time. Caller holds s.mu.
func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	if err := s.sessions.UpdateLastAccessed(id); err != nil {
		log.Printf("update last accessed for %s: %v", id, err)
	}
	return sess, nil
}

// CreateSession deals a new game in a new session
func (s *gameServiceImpl) CreateSession(ctx context.Context, seed *int64) (*SessionInfo, error) {
	_, span := startSpan(ctx, "CreateSession", "")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.seed(seed)
	if err != nil {
		return nil, fail(span, err)
	}
	sess, err := s.sessions.Create("", n)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to create session: %w", err))
	}
	sess.SeedShared = seed != nil
	span.SetAttributes(attribute.String("session.id", sess.ID), attribute.Int64("game.seed", n))
	log.Printf("[SESSION] created %s seed=%d game=%s", sess.ID, n, sess.GameID)

	return newSessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	_, span := startSpan(ctx, "GetSession", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	return newSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	_, span := startSpan(ctx, "ListSessions", "")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	span.SetAttributes(attribute.Int("session.count", len(result)))
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	_, span := startSpan(ctx, "DeleteSession", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fail(span, fmt.Errorf("session %s: %w", sessionID, err))
	}
	log.Printf("[SESSION] deleted %s", sessionID)
	return nil
}

// GetBoard returns the client view of the current game
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	_, span := startSpan(ctx, "GetBoard", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	return newBoardView(sess), nil
}

// Move converts req and submits it to the session's engine
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error) {
	_, span := startSpan(ctx, "Move", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	m, err := req.ToMove(sess.Engine.State())
	if err != nil {
		return nil, fail(span, err)
	}
	return s.submit(span, sess, m), nil
}

// Undo restores the session's previous board, if one is retained
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	_, span := startSpan(ctx, "Undo", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	return s.submit(span, sess, engine.Undo()), nil
}

// submit runs m on the session engine and records it. Caller holds s.mu.
func (s *gameServiceImpl) submit(span trace.Span, sess *Session, m engine.Move) *MoveResult {
	wasWon := sess.Engine.HasWon()
	res, err := sess.Engine.Submit(m)
	span.SetAttributes(attribute.String("move", m.String()))

	record := MoveRecord{
		Index:     len(sess.Log) + 1,
		Move:      m.String(),
		Accepted:  err == nil,
		Timestamp: time.Now(),
	}

	if err != nil {
		reason, _ := engine.RejectionReason(err)
		record.Reason = string(reason)
		sess.Log = append(sess.Log, record)
		span.SetAttributes(attribute.String("move.reason", string(reason)))
		log.Printf("[MOVE] session=%s %s REJECTED reason=%s", sess.ID, m, reason)

		message := err.Error()
		var rejected *engine.RejectedError
		if errors.As(err, &rejected) && rejected.Detail != "" {
			message = rejected.Detail
		}
		return &MoveResult{
			Accepted: false,
			Reason:   string(reason),
			Message:  message,
			Move:     m.String(),
			Board:    newBoardView(sess),
		}
	}

	sess.Log = append(sess.Log, record)
	events := moveEvents(res, wasWon)
	log.Printf("[MOVE] session=%s %s OK moves=%d won=%v", sess.ID, m, sess.Engine.MoveCount(), res.Won)

	return &MoveResult{
		Accepted: true,
		Message:  describe(res),
		Move:     m.String(),
		Board:    newBoardView(sess),
		Events:   events,
	}
}

// Redeal starts a new game in the same session
func (s *gameServiceImpl) Redeal(ctx context.Context, sessionID string, seed *int64) (*MoveResult, error) {
	_, span := startSpan(ctx, "Redeal", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	n, err := s.seed(seed)
	if err != nil {
		return nil, fail(span, err)
	}

	sess.Engine.Redeal(n)
	sess.GameID = uuid.NewString()
	sess.SeedShared = seed != nil
	sess.Log = nil
	span.SetAttributes(attribute.Int64("game.seed", n))
	log.Printf("[SESSION] redeal %s seed=%d game=%s", sess.ID, n, sess.GameID)

	return &MoveResult{
		Accepted: true,
		Message:  "New game dealt",
		Move:     "redeal",
		Board:    newBoardView(sess),
		Events: []GameEvent{{
			Type:      "redeal",
			Message:   fmt.Sprintf("Dealt game %s", sess.GameID),
			Timestamp: time.Now(),
		}},
	}, nil
}

// Hints lists the moves the current board accepts
func (s *gameServiceImpl) Hints(ctx context.Context, sessionID string) (*HintsResponse, error) {
	_, span := startSpan(ctx, "Hints", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	gs := sess.Engine.State()
	moves := sess.Engine.LegalMoves()
	hints := make([]Hint, 0, len(moves))
	for _, m := range moves {
		hints = append(hints, Hint{Request: RequestFromMove(m), Description: describeMove(gs, m)})
	}
	return &HintsResponse{Hints: hints, Count: len(hints)}, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	_, span := startSpan(ctx, "GetMoveHistory", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	history := sess.Log
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []MoveRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func moveEvents(res engine.Result, wasWon bool) []GameEvent {
	now := time.Now()
	var events []GameEvent

	switch {
	case res.Undone:
		events = append(events, GameEvent{Type: "undo", Message: "Previous move undone", Timestamp: now})
	case res.Effects.Recycled:
		events = append(events, GameEvent{Type: "recycle", Message: "Waste turned over into the stock", Timestamp: now})
	case res.Move.Kind() == engine.MoveDraw && len(res.Effects.Moved) == 1:
		c := res.Effects.Moved[0]
		events = append(events, GameEvent{Type: "draw", Message: fmt.Sprintf("Drew %s", c), Timestamp: now, Card: c.String()})
	}

	if res.Effects.ToFoundation && len(res.Effects.Moved) == 1 {
		c := res.Effects.Moved[0]
		events = append(events, GameEvent{
			Type:      "foundation",
			Message:   fmt.Sprintf("%s played to the %s foundation", c, c.Suit),
			Timestamp: now,
			Card:      c.String(),
		})
	}
	if res.Effects.Revealed {
		pile := res.Effects.RevealedPile
		events = append(events, GameEvent{
			Type:      "reveal",
			Message:   fmt.Sprintf("Turned up %s on pile %d", res.Effects.RevealedCard, pile),
			Timestamp: now,
			Card:      res.Effects.RevealedCard.String(),
			Pile:      &pile,
		})
	}
	if res.Won && !wasWon {
		events = append(events, GameEvent{Type: "victory", Message: "All four foundations complete", Timestamp: now})
	}
	return events
}

func describe(res engine.Result) string {
	switch {
	case res.Won:
		return "You won!"
	case res.Undone:
		return "Undone"
	case res.Effects.Recycled:
		return "Recycled the waste into the stock"
	case len(res.Effects.Moved) == 1:
		return fmt.Sprintf("Moved %s", res.Effects.Moved[0])
	case len(res.Effects.Moved) > 1:
		return fmt.Sprintf("Moved %d cards from %s", len(res.Effects.Moved), res.Effects.Moved[0])
	default:
		return res.Move.String()
	}
}

// describeMove names the card a legal move would carry.
func describeMove(gs engine.GameState, m engine.Move) string {
	switch m.Kind() {
	case engine.MoveDraw:
		if len(gs.Stock) == 0 {
			return "Turn the waste over into the stock"
		}
		return "Draw from the stock"
	case engine.MoveTableauToTableau:
		c := gs.Tableau[m.FromPile()][m.CardIndex()]
		return fmt.Sprintf("Move %s from pile %d to pile %d", c, m.FromPile(), m.ToPile())
	case engine.MoveWasteToTableau:
		c, _ := gs.Waste.Top()
		return fmt.Sprintf("Move %s from the waste to pile %d", c, m.ToPile())
	case engine.MoveToFoundation:
		if m.Source() == engine.FromWaste {
			c, _ := gs.Waste.Top()
			return fmt.Sprintf("Play %s from the waste to the %s foundation", c, m.Suit())
		}
		c := gs.Tableau[m.FromPile()][m.CardIndex()]
		return fmt.Sprintf("Play %s from pile %d to the %s foundation", c, m.FromPile(), m.Suit())
	case engine.MoveFoundationToTableau:
		c, _ := gs.Foundation(m.Suit()).Top()
		return fmt.Sprintf("Move %s from the %s foundation to pile %d", c, m.Suit(), m.ToPile())
	default:
		return m.String()
	}
}
