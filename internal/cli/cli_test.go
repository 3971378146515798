package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("WIGHT_LOG_LEVEL", "error")

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("wight %v: %v", args, err)
	}
	return out.String()
}

func TestChatAndStatus(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wight.db")

	reply := execute(t, "", "-b", "sqlite", "-d", db, "-f", "text", "chat", "hello", "there")
	if !strings.HasPrefix(reply, "Hello there!") {
		t.Errorf("reply = %q", reply)
	}

	var st emotion.Status
	out := execute(t, "", "-b", "sqlite", "-d", db, "-f", "json", "status")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode status: %v\n%s", err, out)
	}
	if st.ConversationCount != 1 {
		t.Errorf("conversation_count = %d, want 1", st.ConversationCount)
	}
	if st.MemoryCount != 2 {
		t.Errorf("memory_count = %d, want 2", st.MemoryCount)
	}
}

func TestChatFromStdin(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wight.db")

	out := execute(t, "I am so happy today\n", "-b", "sqlite", "-d", db, "-f", "json", "chat")
	var res chatResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Response == "" {
		t.Error("empty response")
	}
	if res.Emotions.Joy <= model.DefaultEmotions().Joy {
		t.Errorf("joy = %v, want above default", res.Emotions.Joy)
	}
}

func TestMemoriesLimit(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wight.db")
	execute(t, "", "-b", "sqlite", "-d", db, "-f", "text", "chat", "first")
	execute(t, "", "-b", "sqlite", "-d", db, "-f", "text", "chat", "second")

	out := execute(t, "", "-b", "sqlite", "-d", db, "-f", "json", "memories", "--type=", "--query=", "--limit", "1")
	var recs []model.MemoryRecord
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d memories, want 1", len(recs))
	}
	if !strings.HasPrefix(recs[0].Content, model.WightPrefix) {
		t.Errorf("newest memory = %q, want the last reply", recs[0].Content)
	}

	out = execute(t, "", "-b", "sqlite", "-d", db, "-f", "json", "memories", "--type=", "--query", "SECOND", "--limit", "20")
	recs = nil
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(recs) != 1 || recs[0].Content != model.UserPrefix+"second" {
		t.Errorf("query results = %+v", recs)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")

	execute(t, "", "-b", "sqlite", "-d", src, "-f", "text", "chat", "tell me a story")
	dump := execute(t, "", "-b", "sqlite", "-d", src, "export", "--output=")

	out := execute(t, dump, "-b", "sqlite", "-d", dst, "import")
	if !strings.Contains(out, "Imported 2 memories, 1 conversations") {
		t.Errorf("import output = %q", out)
	}

	again := execute(t, "", "-b", "sqlite", "-d", dst, "export", "--output=")
	if again != dump {
		t.Errorf("round trip differs:\n%s\nvs\n%s", dump, again)
	}
}

func TestReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wight.db")
	execute(t, "", "-b", "sqlite", "-d", db, "-f", "text", "chat", "hello")
	execute(t, "", "-b", "sqlite", "-d", db, "reset", "--yes")

	var st emotion.Status
	out := execute(t, "", "-b", "sqlite", "-d", db, "-f", "json", "status")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.ConversationCount != 0 || st.MemoryCount != 0 {
		t.Errorf("after reset: %+v", st)
	}
	if st.Emotions != model.DefaultEmotions() {
		t.Errorf("emotions = %+v, want defaults", st.Emotions)
	}
}

func TestStatsNonSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wight.json")
	execute(t, "", "-b", "file", "-d", path, "-f", "text", "chat", "hi")

	out := execute(t, "", "-b", "file", "-d", path, "-f", "text", "stats")
	for _, want := range []string{"backend: file", "keys:    3", emotion.KeyMemories} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestRepl(t *testing.T) {
	db := filepath.Join(t.TempDir(), "wight.db")
	out := execute(t, "hello\n/status\n/quit\n", "-b", "sqlite", "-d", db, "-f", "text", "repl")

	if !strings.Contains(out, "wight: Hello there!") {
		t.Errorf("missing reply:\n%s", out)
	}
	if !strings.Contains(out, "1 conversations, 2 memories") {
		t.Errorf("missing status:\n%s", out)
	}
}
