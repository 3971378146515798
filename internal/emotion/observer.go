package emotion

import (
	"slices"

	"github.com/rcliao/wight/internal/model"
)

// Observer receives engine notifications. Calls happen after the engine has
// released its lock, one at a time and in the order the changes were made,
// so an observer may call back into the engine but must not block for long.
type Observer interface {
	EmotionChanged(state model.EmotionState)
	MemoryAdded(rec model.MemoryRecord)
	ResponseGenerated(reply string)
}

// ObserverFuncs adapts optional callbacks to Observer.
type ObserverFuncs struct {
	OnEmotionChange func(model.EmotionState)
	OnMemoryAdded   func(model.MemoryRecord)
	OnResponse      func(string)
}

func (f ObserverFuncs) EmotionChanged(state model.EmotionState) {
	if f.OnEmotionChange != nil {
		f.OnEmotionChange(state)
	}
}

func (f ObserverFuncs) MemoryAdded(rec model.MemoryRecord) {
	if f.OnMemoryAdded != nil {
		f.OnMemoryAdded(rec)
	}
}

func (f ObserverFuncs) ResponseGenerated(reply string) {
	if f.OnResponse != nil {
		f.OnResponse(reply)
	}
}

// events queues notifications raised while the engine lock is held.
type events []func(Observer)

func (ev *events) emotions(state model.EmotionState) {
	*ev = append(*ev, func(o Observer) { o.EmotionChanged(state) })
}

func (ev *events) memory(rec model.MemoryRecord) {
	*ev = append(*ev, func(o Observer) { o.MemoryAdded(rec) })
}

func (ev *events) response(reply string) {
	*ev = append(*ev, func(o Observer) { o.ResponseGenerated(reply) })
}

// Subscribe registers o and returns a func that removes it.
func (e *Engine) Subscribe(o Observer) (unsubscribe func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = o
	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		delete(e.observers, id)
	}
}

// enqueueLocked appends ev to the delivery queue. Callers hold e.mu, so the
// queue order is the order in which state changed.
func (e *Engine) enqueueLocked(ev events) {
	if len(ev) == 0 {
		return
	}
	e.qMu.Lock()
	e.pending = append(e.pending, ev...)
	e.qMu.Unlock()
}

// deliver drains the queue unless another goroutine is already draining it,
// in which case that goroutine delivers the new events after the earlier
// ones. Events raised by an observer are delivered after the current batch.
func (e *Engine) deliver() {
	e.qMu.Lock()
	if e.draining {
		e.qMu.Unlock()
		return
	}
	e.draining = true
	for len(e.pending) > 0 {
		batch := e.pending
		e.pending = nil
		e.qMu.Unlock()

		obs := e.currentObservers()
		for _, fire := range batch {
			for _, o := range obs {
				fire(o)
			}
		}

		e.qMu.Lock()
	}
	e.draining = false
	e.qMu.Unlock()
}

// currentObservers returns the registered observers in subscription order.
func (e *Engine) currentObservers() []Observer {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	obs := make([]Observer, 0, len(ids))
	for _, id := range ids {
		obs = append(obs, e.observers[id])
	}
	return obs
}

func (e *Engine) clearObservers() {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	clear(e.observers)
}
