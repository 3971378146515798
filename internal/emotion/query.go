package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/wight/internal/model"
)

// Status summarizes the current mood.
type Status struct {
	Emotions          model.EmotionState   `json:"emotions"`
	Dominant          model.EmotionLevel   `json:"dominant"`
	Top               []model.EmotionLevel `json:"top"`
	ConversationCount int                  `json:"conversation_count"`
	MemoryCount       int                  `json:"memory_count"`
}

// SearchParams holds parameters for searching memories.
type SearchParams struct {
	Query string
	Type  model.MemoryType
	Limit int
}

// Emotions returns the current emotion state.
func (e *Engine) Emotions() model.EmotionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.emotions
}

// Memories returns a copy of the memory log, oldest first.
func (e *Engine) Memories() []model.MemoryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.MemoryRecord(nil), e.memories...)
}

// ConversationCount returns the number of processed messages.
func (e *Engine) ConversationCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Status returns the mood summary with the top four emotions.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Emotions:          e.emotions,
		Dominant:          e.emotions.Dominant(),
		Top:               e.emotions.Top(4),
		ConversationCount: e.count,
		MemoryCount:       len(e.memories),
	}
}

// SearchMemories finds memories whose content contains the query, newest
// first. An empty query matches everything.
func (e *Engine) SearchMemories(p SearchParams) []model.MemoryRecord {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(p.Query)

	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.MemoryRecord
	for i := len(e.memories) - 1; i >= 0 && len(out) < limit; i-- {
		m := e.memories[i]
		if p.Type != "" && m.Type != p.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(m.Content), query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ChatLog returns the last limit conversation lines, oldest first.
func (e *Engine) ChatLog(limit int) []model.ChatMessage {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.ChatMessage
	for _, m := range e.memories {
		if m.Type != model.MemoryConversation {
			continue
		}
		switch {
		case strings.HasPrefix(m.Content, model.UserPrefix):
			out = append(out, model.ChatMessage{
				Content:   strings.TrimPrefix(m.Content, model.UserPrefix),
				IsUser:    true,
				Timestamp: m.CreatedAt,
			})
		case strings.HasPrefix(m.Content, model.WightPrefix):
			out = append(out, model.ChatMessage{
				Content:   strings.TrimPrefix(m.Content, model.WightPrefix),
				Timestamp: m.CreatedAt,
			})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Export returns a copy of the full state.
func (e *Engine) Export() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Import replaces the full state with snap and persists it. Emotion values
// are clamped and the memory log is trimmed to the cap.
func (e *Engine) Import(ctx context.Context, snap Snapshot) error {
	for _, m := range snap.Memories {
		if !model.ValidMemoryTypes[m.Type] {
			return fmt.Errorf("invalid memory type %q in record %s", m.Type, m.ID)
		}
	}
	if snap.ConversationCount < 0 {
		return fmt.Errorf("invalid conversation count %d", snap.ConversationCount)
	}

	var ev events
	e.mu.Lock()
	e.emotions = snap.Emotions.Clamped()
	e.memories = trimOldest(append([]model.MemoryRecord(nil), snap.Memories...), e.maxMemories)
	e.count = snap.ConversationCount
	ev.emotions(e.emotions)
	err := e.persistLocked(ctx)
	e.enqueueLocked(ev)
	e.mu.Unlock()

	e.deliver()
	return err
}

// Reset restores the default state and persists it.
func (e *Engine) Reset(ctx context.Context) error {
	return e.Import(ctx, Snapshot{Emotions: model.DefaultEmotions()})
}
