// Package mcpserver exposes the companion engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

// Handlers implements the tool handlers.
type Handlers struct {
	engine *emotion.Engine
}

// New returns an MCP server with the companion tools registered.
func New(engine *emotion.Engine, version string) *server.MCPServer {
	h := &Handlers{engine: engine}
	s := server.NewMCPServer("wight", version)

	s.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Sends a message to the companion and returns its reply."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The message text")),
	), h.SendMessage)

	s.AddTool(mcp.NewTool("get_emotions",
		mcp.WithDescription("Returns the current emotion levels, dominant emotion and counters as JSON."),
	), h.GetEmotions)

	s.AddTool(mcp.NewTool("list_memories",
		mcp.WithDescription("Lists the most recent memories, newest first."),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)")),
		mcp.WithString("type", mcp.Description("Filter by type: conversation, experience, learning, emotional_response")),
	), h.ListMemories)

	s.AddTool(mcp.NewTool("search_memories",
		mcp.WithDescription("Finds memories containing the query text, newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for (case-insensitive)")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)")),
	), h.SearchMemories)

	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (h *Handlers) SendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	msg, _ := args["message"].(string)
	if strings.TrimSpace(msg) == "" {
		return mcp.NewToolResultError("Message cannot be empty"), nil
	}
	return mcp.NewToolResultText(h.engine.ProcessMessage(context.WithoutCancel(ctx), msg)), nil
}

func (h *Handlers) GetEmotions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.engine.Status())
}

func (h *Handlers) ListMemories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	typ, _ := args["type"].(string)
	if typ != "" && !model.ValidMemoryTypes[model.MemoryType(typ)] {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid memory type %q", typ)), nil
	}
	return jsonResult(h.engine.SearchMemories(emotion.SearchParams{
		Type:  model.MemoryType(typ),
		Limit: intArg(args, "limit"),
	}))
}

func (h *Handlers) SearchMemories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("Query cannot be empty"), nil
	}
	results := h.engine.SearchMemories(emotion.SearchParams{
		Query: query,
		Limit: intArg(args, "limit"),
	})
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching memories."), nil
	}
	return jsonResult(results)
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
