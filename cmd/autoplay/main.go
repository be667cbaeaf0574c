// Command autoplay plays Klondike against a running server through the REST
// API. Each attempt deals a game, then repeatedly asks the server for hints
// and plays the best one until the game is won, stuck, or out of moves.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/klondike/game/service"
)

// Client talks to one session of the game server.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) session(parts string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + parts
}

func seedBody(seed *int64) map[string]any {
	return map[string]any{"seed": seed}
}

func (c *Client) CreateSession(ctx context.Context, seed *int64) (*service.BoardView, error) {
	var info service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", seedBody(seed), &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return info.Board, nil
}

func (c *Client) Redeal(ctx context.Context, seed *int64) (*service.BoardView, error) {
	var result service.MoveResult
	if err := c.do(ctx, "POST", c.session("/redeal"), seedBody(seed), &result); err != nil {
		return nil, err
	}
	return result.Board, nil
}

func (c *Client) GetBoard(ctx context.Context) (*service.BoardView, error) {
	var board service.BoardView
	if err := c.do(ctx, "GET", c.session("/state"), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) Hints(ctx context.Context) ([]service.Hint, error) {
	var hints service.HintsResponse
	if err := c.do(ctx, "GET", c.session("/hints"), nil, &hints); err != nil {
		return nil, err
	}
	return hints.Hints, nil
}

func (c *Client) Move(ctx context.Context, req service.MoveRequest) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.do(ctx, "POST", c.session("/moves"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Options controls a run of attempts.
type Options struct {
	Seed        *int64
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
	Verbose     bool
}

// Outcome summarizes a run.
type Outcome struct {
	SessionID string
	Attempts  int
	Won       bool
	Moves     int
}

// Play deals up to MaxAttempts games and stops at the first win.
func Play(ctx context.Context, client *Client, opts Options) (Outcome, error) {
	var board *service.BoardView
	var err error
	if client.sessionID == "" {
		board, err = client.CreateSession(ctx, opts.Seed)
		if err != nil {
			return Outcome{}, fmt.Errorf("create session: %w", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)
	} else {
		board, err = client.GetBoard(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("continue session %s: %w", client.sessionID, err)
		}
		log.Printf("♻️  Continuing session: %s", client.sessionID)
	}

	out := Outcome{SessionID: client.sessionID}
	strategy := NewStrategy(time.Now().UnixNano())

	for out.Attempts < opts.MaxAttempts {
		out.Attempts++
		if out.Attempts > 1 {
			// A fixed seed replays the same deal with different tie breaks.
			board, err = client.Redeal(ctx, opts.Seed)
			if err != nil {
				return out, fmt.Errorf("redeal: %w", err)
			}
		}
		strategy.Reset()

		log.Printf("=== 🎮 Attempt %d/%d (game %s) ===", out.Attempts, opts.MaxAttempts, board.GameID)

		moves := 0
		for !board.HasWon && moves < opts.MaxMoves {
			hints, err := client.Hints(ctx)
			if err != nil {
				return out, err
			}
			req, ok := strategy.NextMove(board, hints)
			if !ok {
				if opts.Verbose {
					log.Printf("⚠️  No useful moves left")
				}
				break
			}

			result, err := client.Move(ctx, req)
			if err != nil {
				return out, err
			}
			if !result.Accepted {
				// Hints only list legal moves, so this means the board changed under us.
				log.Printf("Move %s rejected: %s", result.Move, result.Reason)
				break
			}
			board = result.Board
			moves++

			if opts.Verbose {
				log.Printf("%d. %s", moves, result.Message)
			}
			if opts.Delay > 0 {
				select {
				case <-ctx.Done():
					return out, ctx.Err()
				case <-time.After(opts.Delay):
				}
			}
		}

		log.Printf("Attempt %d: Moves=%d, Foundations=%d/52", out.Attempts, moves, foundationCards(board))
		out.Moves = moves
		if board.HasWon {
			out.Won = true
			log.Printf("🎉 VICTORY! Game won in attempt %d with %d moves!", out.Attempts, moves)
			return out, nil
		}
	}

	log.Printf("❌ Failed to win after %d attempts", out.Attempts)
	return out, nil
}

func foundationCards(board *service.BoardView) int {
	n := 0
	for _, pile := range board.Foundations {
		n += len(pile)
	}
	return n
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play Klondike against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.Int64Flag{Name: "seed", Usage: "Deal seed (default: random per attempt)"},
			&cli.StringFlag{Name: "continue", Usage: "Play in an existing session by ID"},
			&cli.IntFlag{Name: "max-moves", Value: 1000, Usage: "Maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 20, Usage: "Maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Connecting to game server at %s", cmd.String("url"))
			client := NewClient(cmd.String("url"))
			client.sessionID = cmd.String("continue")

			opts := Options{
				MaxMoves:    cmd.Int("max-moves"),
				MaxAttempts: cmd.Int("max-attempts"),
				Delay:       cmd.Duration("delay"),
				Verbose:     cmd.Bool("v"),
			}
			if cmd.IsSet("seed") {
				seed := cmd.Int64("seed")
				opts.Seed = &seed
			}

			out, err := Play(ctx, client, opts)
			if err != nil {
				return err
			}
			log.Printf("Session: %s", out.SessionID)
			if !out.Won {
				return fmt.Errorf("no win after %d attempts", out.Attempts)
			}
			return nil
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
