package emotion

import (
	"strings"

	"github.com/rcliao/wight/internal/model"
)

type delta struct {
	name   string
	amount float64
}

// triggerRule adjusts emotions when any keyword appears in the message.
type triggerRule struct {
	keywords []string
	deltas   []delta
}

func (r triggerRule) matches(lower string) bool {
	return containsAny(lower, r.keywords)
}

// Within each group only the first matching rule fires. The two groups are
// evaluated independently.
var (
	positiveTriggers = []triggerRule{
		{keywords: []string{"happy", "good", "great"}, deltas: []delta{{model.Joy, 10}, {model.Contentment, 5}}},
		{keywords: []string{"love", "amazing", "wonderful"}, deltas: []delta{{model.Joy, 12}, {model.Satisfaction, 8}}},
		{keywords: []string{"creative", "imagine", "build"}, deltas: []delta{{model.Excitement, 15}, {model.Wonder, 10}}},
		{keywords: []string{"?"}, deltas: []delta{{model.Curiosity, 5}}},
		{keywords: []string{"calm", "peaceful"}, deltas: []delta{{model.Calmness, 8}, {model.Serenity, 6}}},
	}
	negativeTriggers = []triggerRule{
		{keywords: []string{"sad", "bad", "awful"}, deltas: []delta{{model.Joy, -8}, {model.Contentment, -5}}},
		{keywords: []string{"angry", "mad"}, deltas: []delta{{model.Calmness, -10}, {model.Serenity, -8}}},
	}
)

// ApplyTriggers returns state adjusted by the keyword rules that match text,
// and whether any rule fired. Every result lies within the clamp bounds.
func ApplyTriggers(state model.EmotionState, text string) (model.EmotionState, bool) {
	lower := strings.ToLower(text)
	out := state.Clamped()
	fired := false

	for _, group := range [][]triggerRule{positiveTriggers, negativeTriggers} {
		for _, rule := range group {
			if !rule.matches(lower) {
				continue
			}
			for _, d := range rule.deltas {
				v, _ := out.Get(d.name)
				out.Set(d.name, v+d.amount)
			}
			fired = true
			break
		}
	}
	return out, fired
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
