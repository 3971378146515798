package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
	"github.com/rcliao/wight/internal/store"
)

func newTestHandlers(t *testing.T) (*Handlers, *emotion.Engine) {
	t.Helper()
	e := emotion.New(context.Background(), store.NewMemory(), emotion.Options{})
	t.Cleanup(func() { e.Close() })
	return &Handlers{engine: e}, e
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestSendMessage(t *testing.T) {
	h, e := newTestHandlers(t)
	ctx := context.Background()

	res, err := h.SendMessage(ctx, call(map[string]any{"message": "hello"}))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if !strings.HasPrefix(resultText(t, res), "Hello there!") {
		t.Errorf("unexpected reply %q", resultText(t, res))
	}
	if e.ConversationCount() != 1 {
		t.Errorf("expected count 1, got %d", e.ConversationCount())
	}

	res, _ = h.SendMessage(ctx, call(map[string]any{}))
	if !res.IsError {
		t.Error("expected error for missing message")
	}
}

func TestGetEmotions(t *testing.T) {
	h, _ := newTestHandlers(t)
	res, err := h.GetEmotions(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("get emotions: %v", err)
	}
	var st emotion.Status
	if err := json.Unmarshal([]byte(resultText(t, res)), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Emotions != model.DefaultEmotions() || st.Dominant.Name != model.Focus {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestListAndSearchMemories(t *testing.T) {
	h, e := newTestHandlers(t)
	ctx := context.Background()
	e.ProcessMessage(ctx, "tell me about zanzibar")
	e.ProcessMessage(ctx, "coffee please")

	res, _ := h.ListMemories(ctx, call(map[string]any{"limit": float64(3)}))
	var mems []model.MemoryRecord
	if err := json.Unmarshal([]byte(resultText(t, res)), &mems); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mems) != 3 {
		t.Errorf("expected 3 memories, got %d", len(mems))
	}

	res, _ = h.ListMemories(ctx, call(map[string]any{"type": "dream"}))
	if !res.IsError {
		t.Error("expected error for invalid type")
	}

	res, _ = h.SearchMemories(ctx, call(map[string]any{"query": "ZANZIBAR"}))
	mems = nil
	if err := json.Unmarshal([]byte(resultText(t, res)), &mems); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mems) != 1 || mems[0].Content != "User: tell me about zanzibar" {
		t.Errorf("unexpected search result %+v", mems)
	}

	res, _ = h.SearchMemories(ctx, call(map[string]any{"query": "nonexistent"}))
	if resultText(t, res) != "No matching memories." {
		t.Errorf("unexpected empty search text %q", resultText(t, res))
	}
}

func TestNewRegistersTools(t *testing.T) {
	_, e := newTestHandlers(t)
	if s := New(e, "test"); s == nil {
		t.Fatal("expected server")
	}
}
