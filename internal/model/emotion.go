// Package model defines the core companion data types.
package model

import "sort"

// Clamp bounds for emotion values.
const (
	EmotionFloor   = 10.0
	EmotionCeiling = 100.0
)

// Emotion field names in canonical order. Ranking ties resolve to the
// earlier name in this list.
const (
	Joy          = "joy"
	Curiosity    = "curiosity"
	Contentment  = "contentment"
	Focus        = "focus"
	Excitement   = "excitement"
	Calmness     = "calmness"
	Wonder       = "wonder"
	Satisfaction = "satisfaction"
	Anticipation = "anticipation"
	Serenity     = "serenity"
)

// EmotionNames lists every emotion field in canonical order.
var EmotionNames = []string{
	Joy, Curiosity, Contentment, Focus, Excitement,
	Calmness, Wonder, Satisfaction, Anticipation, Serenity,
}

// EmotionState holds the ten emotion intensities.
type EmotionState struct {
	Joy          float64 `json:"joy"`
	Curiosity    float64 `json:"curiosity"`
	Contentment  float64 `json:"contentment"`
	Focus        float64 `json:"focus"`
	Excitement   float64 `json:"excitement"`
	Calmness     float64 `json:"calmness"`
	Wonder       float64 `json:"wonder"`
	Satisfaction float64 `json:"satisfaction"`
	Anticipation float64 `json:"anticipation"`
	Serenity     float64 `json:"serenity"`
}

// EmotionLevel is a named emotion value.
type EmotionLevel struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DefaultEmotions returns the starting emotion state.
func DefaultEmotions() EmotionState {
	return EmotionState{
		Joy:          60,
		Curiosity:    80,
		Contentment:  70,
		Focus:        85,
		Excitement:   45,
		Calmness:     75,
		Wonder:       60,
		Satisfaction: 65,
		Anticipation: 55,
		Serenity:     70,
	}
}

// field returns a pointer to the named field, or nil for unknown names.
func (e *EmotionState) field(name string) *float64 {
	switch name {
	case Joy:
		return &e.Joy
	case Curiosity:
		return &e.Curiosity
	case Contentment:
		return &e.Contentment
	case Focus:
		return &e.Focus
	case Excitement:
		return &e.Excitement
	case Calmness:
		return &e.Calmness
	case Wonder:
		return &e.Wonder
	case Satisfaction:
		return &e.Satisfaction
	case Anticipation:
		return &e.Anticipation
	case Serenity:
		return &e.Serenity
	}
	return nil
}

// Get returns the value of the named emotion.
func (e EmotionState) Get(name string) (float64, bool) {
	p := e.field(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns the named emotion, clamped to [EmotionFloor, EmotionCeiling].
// Unknown names are ignored.
func (e *EmotionState) Set(name string, v float64) {
	if p := e.field(name); p != nil {
		*p = Clamp(v, EmotionFloor, EmotionCeiling)
	}
}

// Levels returns every emotion in canonical order.
func (e EmotionState) Levels() []EmotionLevel {
	out := make([]EmotionLevel, 0, len(EmotionNames))
	for _, name := range EmotionNames {
		v, _ := e.Get(name)
		out = append(out, EmotionLevel{Name: name, Value: v})
	}
	return out
}

// Dominant returns the strongest emotion.
func (e EmotionState) Dominant() EmotionLevel {
	return e.Top(1)[0]
}

// Top returns the n strongest emotions, strongest first.
func (e EmotionState) Top(n int) []EmotionLevel {
	levels := e.Levels()
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Value > levels[j].Value
	})
	if n <= 0 || n > len(levels) {
		n = len(levels)
	}
	return levels[:n]
}

// Clamped returns a copy with every field inside the clamp bounds.
func (e EmotionState) Clamped() EmotionState {
	out := e
	for _, name := range EmotionNames {
		v, _ := out.Get(name)
		out.Set(name, v)
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
