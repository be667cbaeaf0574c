package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Klondike Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klondike Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build all four foundations from Ace to King, one per suit.

AVAILABLE TOOLS:
- create_session: Deal a new game (optional seed)
- list_sessions: List active sessions
- game_state: Show the board
- draw: Draw one card from the stock, or turn the waste over when the stock is empty
- move: Move cards between tableau, waste and foundations - requires intent explanation
- undo: Undo the last accepted move (one level only)
- redeal: Deal a new game in the same session
- hints: List every currently legal move
- move_history: View past moves
- game_instructions: Full rules and board notation

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID"),
	)
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Deal a new game in a new session"),
		mcp.WithNumber("seed", mcp.Description("Deal seed; the same seed always deals the same game (optional)")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Show the current board"),
		sessionParam(),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("draw",
		mcp.WithDescription("Draw the top stock card onto the waste. With an empty stock, turns the waste over into a new stock"),
		sessionParam(),
	), c.handleDraw)

	c.mcpServer.AddTool(mcp.NewTool("move",
		mcp.WithDescription("Move cards. Piles are numbered 0-6 from the left; card_index counts from the bottom of the pile and defaults to the top card"),
		sessionParam(),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Enum(
				service.MoveTypeTableauToTableau,
				service.MoveTypeWasteToTableau,
				service.MoveTypeWasteToFoundation,
				service.MoveTypeTableauToFoundation,
				service.MoveTypeFoundationToTableau,
			),
			mcp.Description("Kind of move"),
		),
		mcp.WithNumber("from", mcp.Description("Source tableau pile (0-6)")),
		mcp.WithNumber("card_index", mcp.Description("Index of the first card of the run to move")),
		mcp.WithNumber("to", mcp.Description("Destination tableau pile (0-6)")),
		mcp.WithString("suit",
			mcp.Enum("hearts", "diamonds", "clubs", "spades"),
			mcp.Description("Foundation suit"),
		),
		mcp.WithString("intent", mcp.Description("Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)")),
	), c.handleMove)

	c.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last accepted move. Only one level is kept"),
		sessionParam(),
	), c.handleUndo)

	c.mcpServer.AddTool(mcp.NewTool("redeal",
		mcp.WithDescription("Abandon the current game and deal a new one in the same session"),
		sessionParam(),
		mcp.WithNumber("seed", mcp.Description("Deal seed (optional)")),
	), c.handleRedeal)

	c.mcpServer.AddTool(mcp.NewTool("hints",
		mcp.WithDescription("List every move the current board accepts"),
		sessionParam(),
	), c.handleHints)

	c.mcpServer.AddTool(mcp.NewTool("move_history",
		mcp.WithDescription("Get paginated move history, rejected attempts included"),
		sessionParam(),
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Moves per page (default 20, max 100)")),
		mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Sort order (default desc)")),
	), c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get the rules of Klondike and the board notation used by these tools"),
	), c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(id string, parts ...string) string {
	return "/api/sessions/" + url.PathEscape(id) + strings.Join(parts, "")
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type seedArgs struct {
	SessionID string `json:"session_id"`
	Seed      *int64 `json:"seed,omitempty"`
}

type moveArgs struct {
	SessionID string `json:"session_id"`
	service.MoveRequest
	Intent string `json:"intent,omitempty"`
}

type historyArgs struct {
	SessionID string `json:"session_id"`
	Page      int    `json:"page,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Order     string `json:"order,omitempty"`
}

// bindSession decodes the arguments and requires a session ID.
func bindSession[T any](request mcp.CallToolRequest, args *T, id func(*T) string) *mcp.CallToolResult {
	if err := request.BindArguments(args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err)
	}
	if id != nil && id(args) == "" {
		return mcp.NewToolResultError("session_id is required")
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args seedArgs
	if res := bindSession(request, &args, nil); res != nil {
		return res, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", map[string]any{"seed": args.Seed}, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.Board != nil && s.Board.HasWon {
			status = "won"
		}
		moves := 0
		if s.Board != nil {
			moves = s.Board.MoveCount
		}
		fmt.Fprintf(&b, "- %s (Seed: %s, Moves: %d, %s, Created: %s)\n",
			s.ID, seedText(s.Seed), moves, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if res := bindSession(request, &args, func(a *sessionArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(args.SessionID, "/state"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(FormatBoard(&board)), nil
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMove(ctx, request, "/draw")
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMove(ctx, request, "/undo")
}

func (c *Client) postMove(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if res := bindSession(request, &args, func(a *sessionArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args.SessionID, suffix), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args moveArgs
	if res := bindSession(request, &args, func(a *moveArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}
	// Intent is for the caller's benefit only.
	_ = args.Intent

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args.SessionID, "/moves"), args.MoveRequest, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRedeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args seedArgs
	if res := bindSession(request, &args, func(a *seedArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args.SessionID, "/redeal"), map[string]any{"seed": args.Seed}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if res := bindSession(request, &args, func(a *sessionArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}

	var hints service.HintsResponse
	if err := c.apiCall(ctx, "GET", sessionPath(args.SessionID, "/hints"), nil, &hints); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHints(&hints)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args historyArgs
	if res := bindSession(request, &args, func(a *historyArgs) string { return a.SessionID }); res != nil {
		return res, nil
	}

	params := url.Values{}
	if args.Page > 0 {
		params.Set("page", fmt.Sprint(args.Page))
	}
	if args.Limit > 0 {
		params.Set("limit", fmt.Sprint(args.Limit))
	}
	if args.Order != "" {
		params.Set("order", args.Order)
	}
	path := sessionPath(args.SessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

const instructions = `Klondike Solitaire - Complete Instructions

GAME OBJECTIVE:
Move all 52 cards onto the four foundations, one per suit, each built up from Ace to King.

LAYOUT:
- Tableau: seven piles numbered 0-6. Pile n starts with n+1 cards, only the top one face up.
- Stock: the 24 undealt cards, face down.
- Waste: cards drawn from the stock, face up. Only the top card is playable.
- Foundations: hearts, diamonds, clubs, spades. Empty at the start.

RULES:
- Tableau piles build down in alternating colors: a black 9 goes on a red 10.
- Only a King may be placed on an empty tableau pile.
- Any face-up run that is itself in descending alternating order can move as a unit.
- Foundations take the next rank of their own suit: Ace first, then 2, and so on.
- When a move uncovers a face-down tableau card, that card turns face up.
- draw turns over one stock card. With an empty stock it turns the whole waste over
  into a new stock. Recycling is unlimited.
- A foundation's top card may be moved back onto the tableau.
- undo reverts the last accepted move. Only one level is kept.
- The game is won when every foundation holds 13 cards.

BOARD NOTATION:
- Cards are written rank then suit letter: AS is the Ace of spades, 10D the ten of diamonds.
- ?? is a face-down card.
- Tableau piles are listed bottom to top; the rightmost card is the top.
- [QH] marks the playable top of the waste.

MOVE TOOL:
  tableau_to_tableau    from, to, card_index (optional, first card of the run)
  waste_to_tableau      to
  waste_to_foundation   suit
  tableau_to_foundation from, suit
  foundation_to_tableau suit, to

A move the rules refuse leaves the board unchanged and reports a reason such as
illegal_rank, wrong_suit, face_down or empty_source.

STRATEGY TIPS:
- Turning up face-down cards matters more than anything else.
- Play Aces and Twos to the foundations as soon as they appear.
- Keep a King ready before you empty a tableau pile.
- Use hints when stuck; undo is only one level deep.`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nSeed: %s\nCreated: %s\n\n%s",
		session.ID, seedText(session.Seed),
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		FormatBoard(session.Board))
}

// seedText renders a seed the server may have withheld.
func seedText(seed *int64) string {
	if seed == nil {
		return "hidden"
	}
	return strconv.FormatInt(*seed, 10)
}

func labels(cards []service.CardView) string {
	if len(cards) == 0 {
		return "--"
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Label
	}
	return strings.Join(out, " ")
}

// FormatBoard renders a board as plain text.
func FormatBoard(board *service.BoardView) string {
	if board == nil {
		return "No board available"
	}

	var b strings.Builder
	undo := "no"
	if board.CanUndo {
		undo = "yes"
	}
	fmt.Fprintf(&b, "Seed: %s | Moves: %d | Undo available: %s\n\n", seedText(board.Seed), board.MoveCount, undo)

	fmt.Fprintf(&b, "Stock: %d card(s)\n", board.StockCount)
	b.WriteString("Waste: ")
	if n := len(board.Waste); n == 0 {
		b.WriteString("--")
	} else {
		if n > 1 {
			fmt.Fprintf(&b, "(%d more) ", n-1)
		}
		fmt.Fprintf(&b, "[%s]", board.Waste[n-1].Label)
	}
	b.WriteString("\n\nFoundations:\n")
	for _, suit := range engine.Suits {
		pile := board.Foundations[suit.String()]
		top := "--"
		if n := len(pile); n > 0 {
			top = pile[n-1].Label
		}
		fmt.Fprintf(&b, "  %-8s %-3s (%d/13)\n", suit.String(), top, len(pile))
	}

	b.WriteString("\nTableau:\n")
	for i, pile := range board.Tableau {
		fmt.Fprintf(&b, "  %d: %s\n", i, labels(pile))
	}

	if board.HasWon {
		b.WriteString("\n🎉 VICTORY! All foundations complete.")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s: %s\n", result.Move, result.Message)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected (%s): %s\n", result.Move, result.Reason, result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + FormatBoard(result.Board))
	return b.String()
}

func formatHints(hints *service.HintsResponse) string {
	if hints.Count == 0 {
		return "No legal moves."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal moves (%d):\n", hints.Count)
	for i, h := range hints.Hints {
		fmt.Fprintf(&b, "%d. %s  [type=%s%s]\n", i+1, h.Description, h.Request.Type, requestOperands(h.Request))
	}
	return b.String()
}

func requestOperands(req service.MoveRequest) string {
	var parts []string
	if req.From != nil {
		parts = append(parts, fmt.Sprintf("from=%d", *req.From))
	}
	if req.CardIndex != nil {
		parts = append(parts, fmt.Sprintf("card_index=%d", *req.CardIndex))
	}
	if req.To != nil {
		parts = append(parts, fmt.Sprintf("to=%d", *req.To))
	}
	if req.Suit != "" {
		parts = append(parts, "suit="+req.Suit)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Accepted {
			status = "✗ " + move.Reason
		}
		fmt.Fprintf(&b, "%d. %s %s\n", move.Index, move.Move, status)
	}
	return b.String()
}
