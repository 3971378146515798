package emotion

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/wight/internal/model"
	"github.com/rcliao/wight/internal/store"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123, time.UTC)
	snap := Snapshot{
		Emotions: model.EmotionState{
			Joy: 61.5, Curiosity: 99, Contentment: 10, Focus: 85, Excitement: 45.25,
			Calmness: 75, Wonder: 60, Satisfaction: 65, Anticipation: 55, Serenity: 70,
		},
		Memories: []model.MemoryRecord{
			{ID: "01A", Content: "User: hi", Type: model.MemoryConversation, CreatedAt: ts, Emotions: model.DefaultEmotions(), Importance: 1},
			{ID: "01B", Content: "learned a thing", Type: model.MemoryLearning, CreatedAt: ts.Add(time.Second), Emotions: model.DefaultEmotions(), Importance: 0.25},
		},
		ConversationCount: 42,
	}

	entries, err := snap.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	em, err := DecodeEmotions(entries[KeyEmotions])
	if err != nil || em != snap.Emotions {
		t.Errorf("emotions round trip: got %+v err %v", em, err)
	}
	mems, err := DecodeMemories(entries[KeyMemories])
	if err != nil || len(mems) != 2 {
		t.Fatalf("memories round trip: got %d err %v", len(mems), err)
	}
	for i := range mems {
		want := snap.Memories[i]
		got := mems[i]
		if got.ID != want.ID || got.Content != want.Content || got.Type != want.Type ||
			!got.CreatedAt.Equal(want.CreatedAt) || got.Emotions != want.Emotions || got.Importance != want.Importance {
			t.Errorf("memory %d: expected %+v, got %+v", i, want, got)
		}
	}
	n, err := DecodeConversationCount(entries[KeyConversationCount])
	if err != nil || n != 42 {
		t.Errorf("count round trip: got %d err %v", n, err)
	}
}

func TestEncodeEmptyMemories(t *testing.T) {
	entries, err := Snapshot{Emotions: model.DefaultEmotions()}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if entries[KeyMemories] != "[]" {
		t.Errorf("expected empty JSON array, got %q", entries[KeyMemories])
	}
}

func TestDecodeEmotionsPartial(t *testing.T) {
	em, err := DecodeEmotions(`{"joy": 90, "focus": 500}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if em.Joy != 90 {
		t.Errorf("expected joy 90, got %.1f", em.Joy)
	}
	if em.Focus != 100 {
		t.Errorf("expected focus clamped to 100, got %.1f", em.Focus)
	}
	if em.Curiosity != 80 {
		t.Errorf("expected missing curiosity to default to 80, got %.1f", em.Curiosity)
	}
}

func TestLoadFallsBackOnCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.SetMany(ctx, map[string]string{
		KeyEmotions:          "{not json",
		KeyMemories:          `{"oops": true}`,
		KeyConversationCount: "seven",
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	e := New(ctx, kv, Options{Logger: logger})
	defer e.Close()

	if e.Emotions() != model.DefaultEmotions() {
		t.Errorf("expected default emotions, got %+v", e.Emotions())
	}
	if len(e.Memories()) != 0 {
		t.Errorf("expected no memories, got %d", len(e.Memories()))
	}
	if e.ConversationCount() != 0 {
		t.Errorf("expected count 0, got %d", e.ConversationCount())
	}
	for _, want := range []string{"failed to load emotions", "failed to load memories", "failed to load conversation count"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("expected log %q, got:\n%s", want, logs.String())
		}
	}

	// The engine stays usable and overwrites the bad state.
	e.ProcessMessage(ctx, "hello")
	raw, _, _ := kv.Get(ctx, KeyConversationCount)
	if raw != "1" {
		t.Errorf("expected persisted count 1, got %q", raw)
	}
}

func TestLoadKeysIndependently(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.SetMany(ctx, map[string]string{
		KeyEmotions:          `{"joy": 33}`,
		KeyMemories:          "garbage",
		KeyConversationCount: "12",
	})

	e := New(ctx, kv, Options{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	defer e.Close()

	if e.Emotions().Joy != 33 {
		t.Errorf("expected joy 33, got %.1f", e.Emotions().Joy)
	}
	if e.ConversationCount() != 12 {
		t.Errorf("expected count 12, got %d", e.ConversationCount())
	}
	if len(e.Memories()) != 0 {
		t.Errorf("expected memories reset, got %d", len(e.Memories()))
	}
}

func TestLoadTrimsOversizedLog(t *testing.T) {
	ctx := context.Background()
	var mems []model.MemoryRecord
	for i := 0; i < 10; i++ {
		mems = append(mems, model.MemoryRecord{ID: string(rune('a' + i)), Type: model.MemoryExperience})
	}
	entries, _ := Snapshot{Emotions: model.DefaultEmotions(), Memories: mems}.Encode()
	kv := store.NewMemory()
	kv.SetMany(ctx, entries)

	e := New(ctx, kv, Options{MaxMemories: 4})
	defer e.Close()

	got := e.Memories()
	if len(got) != 4 || got[0].ID != "g" || got[3].ID != "j" {
		t.Errorf("expected newest 4 records g..j, got %+v", got)
	}
}

type failingKV struct{ store.Memory }

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, context.DeadlineExceeded
}

func (f *failingKV) SetMany(ctx context.Context, entries map[string]string) error {
	return context.DeadlineExceeded
}

func TestStoreFailuresDoNotPropagate(t *testing.T) {
	ctx := context.Background()
	e := New(ctx, &failingKV{}, Options{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	defer e.Close()

	if e.Emotions() != model.DefaultEmotions() {
		t.Error("expected defaults when the store cannot be read")
	}
	if reply := e.ProcessMessage(ctx, "hello"); reply == "" {
		t.Error("expected a reply even when persisting fails")
	}
	if e.ConversationCount() != 1 {
		t.Errorf("expected in-memory count 1, got %d", e.ConversationCount())
	}
}
