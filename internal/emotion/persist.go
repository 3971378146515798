package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rcliao/wight/internal/model"
)

// Store keys for persisted state.
const (
	KeyEmotions          = "emotions"
	KeyMemories          = "memories"
	KeyConversationCount = "conversation_count"
)

// Snapshot is the complete persisted engine state.
type Snapshot struct {
	Emotions          model.EmotionState   `json:"emotions"`
	Memories          []model.MemoryRecord `json:"memories"`
	ConversationCount int                  `json:"conversation_count"`
}

// Encode serializes s into store entries.
func (s Snapshot) Encode() (map[string]string, error) {
	emotions, err := json.Marshal(s.Emotions)
	if err != nil {
		return nil, fmt.Errorf("encode emotions: %w", err)
	}
	memories := s.Memories
	if memories == nil {
		memories = []model.MemoryRecord{}
	}
	mems, err := json.Marshal(memories)
	if err != nil {
		return nil, fmt.Errorf("encode memories: %w", err)
	}
	return map[string]string{
		KeyEmotions:          string(emotions),
		KeyMemories:          string(mems),
		KeyConversationCount: strconv.Itoa(s.ConversationCount),
	}, nil
}

// DecodeEmotions parses a stored emotion state. Fields absent from raw keep
// their defaults, and every value is clamped.
func DecodeEmotions(raw string) (model.EmotionState, error) {
	state := model.DefaultEmotions()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return model.DefaultEmotions(), fmt.Errorf("decode emotions: %w", err)
	}
	return state.Clamped(), nil
}

// DecodeMemories parses a stored memory list.
func DecodeMemories(raw string) ([]model.MemoryRecord, error) {
	var memories []model.MemoryRecord
	if err := json.Unmarshal([]byte(raw), &memories); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	return memories, nil
}

// DecodeConversationCount parses a stored conversation counter.
func DecodeConversationCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode conversation count: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("decode conversation count: negative value %d", n)
	}
	return n, nil
}

// load restores state from the store. Each key falls back to its default
// independently; failures are logged and never returned.
func (e *Engine) load(ctx context.Context) {
	e.emotions = model.DefaultEmotions()
	e.memories = nil
	e.count = 0

	if raw, ok := e.loadKey(ctx, KeyEmotions); ok {
		if state, err := DecodeEmotions(raw); err != nil {
			e.log.Warn("failed to load emotions, using defaults", "error", err)
		} else {
			e.emotions = state
		}
	}

	if raw, ok := e.loadKey(ctx, KeyMemories); ok {
		if memories, err := DecodeMemories(raw); err != nil {
			e.log.Warn("failed to load memories, starting fresh", "error", err)
		} else {
			e.memories = trimOldest(memories, e.maxMemories)
		}
	}

	if raw, ok := e.loadKey(ctx, KeyConversationCount); ok {
		if n, err := DecodeConversationCount(raw); err != nil {
			e.log.Warn("failed to load conversation count, starting at zero", "error", err)
		} else {
			e.count = n
		}
	}
}

func (e *Engine) loadKey(ctx context.Context, key string) (string, bool) {
	raw, ok, err := e.kv.Get(ctx, key)
	if err != nil {
		e.log.Warn("failed to read state", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// persistLocked writes the full state. Callers hold e.mu.
func (e *Engine) persistLocked(ctx context.Context) error {
	entries, err := e.snapshotLocked().Encode()
	if err != nil {
		return err
	}
	if err := e.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func trimOldest(memories []model.MemoryRecord, limit int) []model.MemoryRecord {
	if limit > 0 && len(memories) > limit {
		return append([]model.MemoryRecord(nil), memories[len(memories)-limit:]...)
	}
	return memories
}
