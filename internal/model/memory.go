package model

import "time"

// MemoryType categorizes a memory record.
type MemoryType string

const (
	MemoryConversation      MemoryType = "conversation"
	MemoryExperience        MemoryType = "experience"
	MemoryLearning          MemoryType = "learning"
	MemoryEmotionalResponse MemoryType = "emotional_response"
)

// ValidMemoryTypes are the allowed memory types.
var ValidMemoryTypes = map[MemoryType]bool{
	MemoryConversation:      true,
	MemoryExperience:        true,
	MemoryLearning:          true,
	MemoryEmotionalResponse: true,
}

// Content prefixes for the two sides of a conversation.
const (
	UserPrefix  = "User: "
	WightPrefix = "Wight: "
)

// DefaultImportance is the weight given to new memories.
const DefaultImportance = 1.0

// MemoryRecord is one entry in the capped memory log.
type MemoryRecord struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Type       MemoryType   `json:"type"`
	CreatedAt  time.Time    `json:"created_at"`
	Emotions   EmotionState `json:"emotional_context"`
	Importance float64      `json:"importance"`
}

// ChatMessage is one line of the displayed conversation.
type ChatMessage struct {
	Content   string    `json:"content"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}
