package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
	"github.com/wricardo/mcp-training/tacticsgame/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Tactics Board",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tactics Board - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Units stand on a grid. Select a unit to see where it can move, preview a
path by hovering a reachable cell, then accept to walk it there.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage boards
- board_state: current board with units, selection and overlays
- select_unit: select the unit on a cell
- hover_cell: preview the path of the selected unit to a cell
- accept_move: move the selected unit to a reachable cell
- press_cell: select when idle, accept when a unit is selected
- cancel_selection: drop the selection
- move_cursor: step the board cursor up/down/left/right
- reachable_cells: list where a unit can move without selecting it
- describe_cell: occupant, center point and reachability of one cell
- move_history: accepted moves, newest first
- reset_board: put every unit back on its starting cell
- list_configs: available boards
- game_instructions: full rules`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

// cellTool describes a tool addressed by session and cell
func cellTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID"),
				"x":          intProp("Column of the cell (0-based)"),
				"y":          intProp("Row of the cell (0-based)"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}
}

func sessionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID"),
			},
			Required: []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": stringProp("Config to use, see list_configs (optional)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active board sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionTool("get_session", "Get details of a specific session"), c.handleGetSession)
	c.mcpServer.AddTool(sessionTool("board_state", "Get the current board"), c.handleBoardState)

	// Selection
	c.mcpServer.AddTool(cellTool("select_unit", "Select the unit standing on a cell and show its reachable cells"), c.cellHandler("select"))
	c.mcpServer.AddTool(cellTool("hover_cell", "Preview the selected unit's path to a cell"), c.cellHandler("hover"))
	c.mcpServer.AddTool(cellTool("accept_move", "Move the selected unit to a reachable cell"), c.cellHandler("accept"))
	c.mcpServer.AddTool(cellTool("press_cell", "Select the unit on a cell when idle, or accept a move to it when a unit is selected"), c.cellHandler("press"))
	c.mcpServer.AddTool(sessionTool("cancel_selection", "Drop the current selection"), c.handleCancel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_cursor",
		Description: "Step the board cursor one cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID"),
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to move the cursor",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMoveCursor)

	// Queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reachable_cells",
		Description: "List the cells a unit can move to, without selecting it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID"),
				"unit":       stringProp("Unit ID (optional, defaults to the selected unit)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReachable)

	c.mcpServer.AddTool(cellTool("describe_cell", "Describe one cell: occupant, pixel center, reachability from the selected unit"), c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get paginated history of accepted moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID"),
				"page":       intProp("Page number (default 1)"),
				"limit":      intProp("Moves per page (default 20, max 100)"),
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Sort order",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(sessionTool("reset_board", "Put every unit back on its starting cell"), c.handleReset)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the tactics board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.BoardState != nil {
		result += "\n" + formatBoardState(session.BoardState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

// cellHandler proxies select, hover, accept and press
func (c *Client) cellHandler(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)
		sessionID, _ := args["session_id"].(string)
		x, okX := intArg(args, "x")
		y, okY := intArg(args, "y")
		if !okX || !okY {
			return mcp.NewToolResultError("x and y are required integers"), nil
		}

		var result service.ActionResult
		body := map[string]int{"x": x, "y": y}
		if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/"+action), body, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/cancel"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleMoveCursor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	var result service.ActionResult
	body := map[string]interface{}{"direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/cursor"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleReachable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	unit, _ := args["unit"].(string)

	path := sessionPath(sessionID, "/reachable")
	if unit != "" {
		path += "?unit=" + url.QueryEscape(unit)
	}

	var result service.ReachableResult
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReachable(&result)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var info service.CellInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", x, y)), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, cfg := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Units: %d, Reach: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Width, cfg.Height, cfg.Units, cfg.ReachMode)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Tactics Board - Complete Instructions

BOARD:
The board is a grid of cells addressed by (x,y), x growing right and y
growing down. Every unit occupies exactly one cell and no two units share a
cell. board_state draws the grid as text rows:
  letter  a unit (first letter of its name, upper case when selected)
  *       a cell the selected unit can reach
  #       the previewed path
  .       an empty cell

SELECTION FLOW:
1. select_unit on a unit's cell. The board shows every cell within the
   unit's move range.
2. hover_cell on a reachable cell to preview the shortest path.
3. accept_move on a reachable empty cell. The unit walks the path and the
   move is recorded.
cancel_selection drops the selection at any time. press_cell does step 1
or step 3 depending on whether a unit is selected.

RULES:
- Selecting an empty cell does nothing.
- Selecting while a unit is already selected does nothing; cancel first.
- A unit can never end its move on an occupied cell, including its own.
- Moves outside the highlighted cells are ignored and keep the selection.
- Reach is measured in grid steps. On boards with reach_mode "manhattan"
  the highlighted area is the full diamond around the unit; paths still
  route around other units. On "walk" boards other units block movement and
  only cells with a real path within range are highlighted.

CURSOR:
move_cursor steps a cursor that stays inside the board. Moves arriving
faster than the board's cursor cooldown are dropped.

TIPS:
- reachable_cells previews any unit's range without changing the selection.
- describe_cell reports the occupant of a cell and its distance from the
  selected unit.
- move_history lists accepted moves with their full paths.`

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.BoardState != nil {
		result += "\n" + formatBoardState(session.BoardState)
	}
	return result
}

func formatBoardState(state *engine.BoardState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Board: %s (%dx%d, reach: %s)\n", state.ConfigName, state.Width, state.Height, state.ReachMode)
	fmt.Fprintf(&b, "State: %s", state.State)
	if state.SelectedUnit != "" {
		fmt.Fprintf(&b, " (unit: %s)", state.SelectedUnit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Cursor: %s\n", state.Cursor)
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\nUnits:\n")
	for _, u := range state.Units {
		marker := ""
		if u.Selected {
			marker = " [selected]"
		}
		fmt.Fprintf(&b, "- %s (%s) at %s, range %d%s\n", u.ID, u.Name, u.Cell, u.MoveRange, marker)
	}

	if len(state.Reachable) > 0 {
		fmt.Fprintf(&b, "\nReachable (%d): %s\n", len(state.Reachable), formatCells(state.Reachable))
	}
	if len(state.PreviewPath) > 0 {
		fmt.Fprintf(&b, "Path: %s\n", formatCells(state.PreviewPath))
	}

	if len(state.RenderedBoard) > 0 {
		b.WriteString("\nGrid:\n")
		for _, row := range state.RenderedBoard {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nMoves: %d total, %d since reset\n", state.TotalMoves, state.CurrentCount)
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	status := "✓"
	if !result.Accepted {
		status = "✗ (no change)"
	}
	fmt.Fprintf(&b, "%s %s", result.Action, status)
	if result.Cell != nil {
		fmt.Fprintf(&b, " at %s", *result.Cell)
	}
	b.WriteString("\n")

	if result.Move != nil {
		m := result.Move
		fmt.Fprintf(&b, "Moved %s %s -> %s in %d steps via %s\n", m.Unit, m.From, m.To, m.Steps, formatCells(m.Path))
	}

	if len(result.Events) > 0 {
		names := make([]string, 0, len(result.Events))
		for _, e := range result.Events {
			names = append(names, string(e.Type))
		}
		fmt.Fprintf(&b, "Events: %s\n", strings.Join(names, ", "))
	}

	if result.BoardState != nil {
		b.WriteString("\n")
		b.WriteString(formatBoardState(result.BoardState))
	} else if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	return b.String()
}

func formatReachable(result *service.ReachableResult) string {
	return fmt.Sprintf("Unit %s at %s (range %d, %s) reaches %d cells:\n%s\n",
		result.Unit, result.Origin, result.MoveRange, result.ReachMode, result.Count, formatCells(result.Cells))
}

func formatCellInfo(info *service.CellInfo) string {
	if !info.InBounds {
		return fmt.Sprintf("Cell %s is out of bounds\n", info.Cell)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s (index %d)\nCenter: (%d,%d)\n", info.Cell, info.Index, info.Center.X, info.Center.Y)
	if info.Occupant != nil {
		fmt.Fprintf(&b, "Occupant: %s (%s), range %d\n", info.Occupant.ID, info.Occupant.Name, info.Occupant.MoveRange)
	} else {
		b.WriteString("Occupant: none\n")
	}
	if info.Selected != "" {
		reach := "no"
		if info.Reachable {
			reach = "yes"
		}
		fmt.Fprintf(&b, "Selected unit: %s, distance %d, reachable: %s\n", info.Selected, info.Distance, reach)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), total moves: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves)\n")
		return b.String()
	}
	for _, move := range history.Moves {
		fmt.Fprintf(&b, "%d. %s %s -> %s (%d steps)\n",
			move.MoveNumber, move.Unit, move.From, move.To, move.Steps)
	}
	return b.String()
}

func formatCells(cells []engine.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
