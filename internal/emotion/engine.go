// Package emotion implements the companion engine: ten emotion scores moved
// by keyword triggers and a background decay, a capped memory log, and
// keyword-table reply selection, all persisted through a store.KV.
package emotion

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/wight/internal/model"
	"github.com/rcliao/wight/internal/store"
)

// DefaultMaxMemories caps the memory log.
const DefaultMaxMemories = 500

// Options configures an Engine. Zero values select defaults.
type Options struct {
	MaxMemories int
	Decay       DecayConfig
	Logger      *slog.Logger
	Rand        *rand.Rand       // reply and decay randomness
	Now         func() time.Time // record timestamps
}

// Engine holds the companion state. All state access is serialized by one
// mutex, so message processing and the decay loop never lose updates.
type Engine struct {
	kv          store.KV
	log         *slog.Logger
	maxMemories int
	decay       DecayConfig
	now         func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	entropy  *ulid.MonotonicEntropy
	emotions model.EmotionState
	memories []model.MemoryRecord
	count    int

	obsMu        sync.Mutex
	observers    map[int]Observer
	nextObserver int

	qMu      sync.Mutex
	pending  events
	draining bool

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// New builds an engine and restores its state from kv. Missing or corrupt
// state falls back to defaults, so New always yields a usable engine.
func New(ctx context.Context, kv store.KV, opts Options) *Engine {
	if opts.MaxMemories <= 0 {
		opts.MaxMemories = DefaultMaxMemories
	}
	def := DefaultDecayConfig()
	if opts.Decay.Interval <= 0 {
		opts.Decay.Interval = def.Interval
	}
	if opts.Decay.Probability <= 0 {
		opts.Decay.Probability = def.Probability
	}
	if opts.Decay.Step <= 0 {
		opts.Decay.Step = def.Step
	}
	if opts.Decay.Floor <= 0 {
		opts.Decay.Floor = def.Floor
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{
		kv:          kv,
		log:         opts.Logger,
		maxMemories: opts.MaxMemories,
		decay:       opts.Decay,
		now:         opts.Now,
		rng:         opts.Rand,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		observers:   make(map[int]Observer),
	}
	e.load(ctx)
	e.log.Debug("engine initialized", "memories", len(e.memories), "conversations", e.count)
	return e
}

// ProcessMessage records text, updates emotions, and returns the reply.
func (e *Engine) ProcessMessage(ctx context.Context, text string) string {
	reply, _ := e.Respond(ctx, text)
	return reply
}

// Respond is ProcessMessage that also returns the emotion state the reply
// was chosen from, unaffected by any later message or decay tick.
func (e *Engine) Respond(ctx context.Context, text string) (string, model.EmotionState) {
	var ev events

	e.mu.Lock()
	e.count++
	ev.memory(e.addMemoryLocked(model.UserPrefix+text, model.MemoryConversation))

	e.emotions, _ = ApplyTriggers(e.emotions, text)
	ev.emotions(e.emotions)

	reply := SelectReply(text, ReplyContext{
		Emotions:          e.emotions,
		MemoryCount:       len(e.memories),
		ConversationCount: e.count,
	}, e.rng)

	ev.memory(e.addMemoryLocked(model.WightPrefix+reply, model.MemoryConversation))

	if err := e.persistLocked(ctx); err != nil {
		e.log.Warn("persist after message failed", "error", err)
	}
	ev.response(reply)
	e.enqueueLocked(ev)
	state := e.emotions
	e.mu.Unlock()

	e.deliver()
	return reply, state
}

// addMemoryLocked appends a record with the current emotion snapshot and
// evicts the oldest records beyond the cap. Callers hold e.mu.
func (e *Engine) addMemoryLocked(content string, typ model.MemoryType) model.MemoryRecord {
	now := e.now().UTC()
	rec := model.MemoryRecord{
		ID:         ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		Content:    content,
		Type:       typ,
		CreatedAt:  now,
		Emotions:   e.emotions,
		Importance: model.DefaultImportance,
	}
	e.memories = append(e.memories, rec)
	if over := len(e.memories) - e.maxMemories; over > 0 {
		e.memories = append(e.memories[:0:0], e.memories[over:]...)
	}
	return rec
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Emotions:          e.emotions,
		Memories:          append([]model.MemoryRecord(nil), e.memories...),
		ConversationCount: e.count,
	}
}

// Close stops the decay loop, waits for it to exit, and drops all
// observers. The store is left open for its owner to close.
func (e *Engine) Close() error {
	e.loopMu.Lock()
	e.closed = true
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.loopMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	e.clearObservers()
	return nil
}
