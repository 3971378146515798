package emotion

import (
	"context"
	"math/rand"
	"time"

	"github.com/rcliao/wight/internal/model"
)

// DecayConfig controls the background mood fade.
type DecayConfig struct {
	Interval    time.Duration // time between ticks
	Probability float64       // per-field chance of decaying on a tick
	Step        float64       // amount removed when a field decays
	Floor       float64       // decay never takes a field below this
}

// DefaultDecayConfig returns the standard decay settings.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		Interval:    10 * time.Second,
		Probability: 0.1,
		Step:        0.5,
		Floor:       15,
	}
}

// DecayEmotions lowers each field by cfg.Step with probability
// cfg.Probability, never below cfg.Floor. A field already at or under the
// floor is left alone. Reports whether any field changed.
func DecayEmotions(state model.EmotionState, cfg DecayConfig, rng *rand.Rand) (model.EmotionState, bool) {
	out := state
	changed := false
	for _, name := range model.EmotionNames {
		if rng.Float64() >= cfg.Probability {
			continue
		}
		v, _ := out.Get(name)
		if v <= cfg.Floor {
			continue
		}
		out.Set(name, max(cfg.Floor, v-cfg.Step))
		changed = true
	}
	return out, changed
}

// Decay runs one decay tick. If anything changed, observers are notified and
// state is persisted.
func (e *Engine) Decay(ctx context.Context) bool {
	e.mu.Lock()
	next, changed := DecayEmotions(e.emotions, e.decay, e.rng)
	var ev events
	if changed {
		e.emotions = next
		ev.emotions(next)
		if err := e.persistLocked(ctx); err != nil {
			e.log.Warn("persist after decay failed", "error", err)
		}
	}
	e.enqueueLocked(ev)
	e.mu.Unlock()

	e.deliver()
	return changed
}

// Start launches the decay loop. It runs until ctx is done or Close is
// called. Calling Start more than once has no effect.
func (e *Engine) Start(ctx context.Context) {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.cancel != nil || e.closed {
		return
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	go e.run(ctx, e.done)
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.decay.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.Decay(ctx) {
				e.log.Debug("emotions decayed")
			}
		}
	}
}
