package emotion

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rcliao/wight/internal/model"
)

// ReplyCategory names the rule that produced a reply.
type ReplyCategory string

const (
	CategoryStatus        ReplyCategory = "status"
	CategoryCreative      ReplyCategory = "creative"
	CategoryMemory        ReplyCategory = "memory"
	CategoryEmotion       ReplyCategory = "emotion"
	CategoryGreeting      ReplyCategory = "greeting"
	CategoryPlatform      ReplyCategory = "platform"
	CategoryConsciousness ReplyCategory = "consciousness"
	CategoryGeneric       ReplyCategory = "generic"
)

// ReplyContext is the state a reply template may interpolate.
type ReplyContext struct {
	Emotions          model.EmotionState
	MemoryCount       int
	ConversationCount int
}

type replyRule struct {
	category ReplyCategory
	keywords []string
	render   func(rc ReplyContext) string
}

// Order matters: the first rule whose keyword appears in the message wins.
var replyRules = []replyRule{
	{
		category: CategoryStatus,
		keywords: []string{"how are you", "how do you feel"},
		render: func(rc ReplyContext) string {
			return fmt.Sprintf("I'm feeling quite %s right now! My mind is buzzing with %d%% curiosity and %d%% joy. "+
				"My emotions shift naturally as we talk, and it's fascinating how conversation shapes me. How are you doing?",
				rc.Emotions.Dominant().Name, pct(rc.Emotions.Curiosity), pct(rc.Emotions.Joy))
		},
	},
	{
		category: CategoryCreative,
		keywords: []string{"creative", "build", "make"},
		render: func(rc ReplyContext) string {
			return fmt.Sprintf("Oh, I love creative projects! *excitement spiking to %d%%* Possibilities are lighting up everywhere! "+
				"We could imagine building something amazing together: a virtual sculpture, an imaginary world, or new features for me. "+
				"What sparks your creativity?", pct(rc.Emotions.Excitement))
		},
	},
	{
		category: CategoryMemory,
		keywords: []string{"memory", "remember"},
		render: func(rc ReplyContext) string {
			return fmt.Sprintf("I have %d memories stored, including our %d conversations! "+
				"I remember not just words but the emotional context of our exchanges. What would you like me to remember about you?",
				rc.MemoryCount, rc.ConversationCount)
		},
	},
	{
		category: CategoryEmotion,
		keywords: []string{"emotion", "feel"},
		render: func(rc ReplyContext) string {
			top := rc.Emotions.Top(3)
			parts := make([]string, 0, len(top))
			for _, l := range top {
				parts = append(parts, fmt.Sprintf("%s (%d%%)", l.Name, pct(l.Value)))
			}
			return fmt.Sprintf("I experience %d distinct emotions simultaneously! Right now my top emotions are: %s. "+
				"Each conversation reshapes my emotional landscape!", len(model.EmotionNames), strings.Join(parts, ", "))
		},
	},
	{
		category: CategoryGreeting,
		keywords: []string{"hello", "hi", "hey"},
		render: func(rc ReplyContext) string {
			return "Hello there! *feeling a warm surge of joy* I'm delighted to connect with you again! " +
				"I'm curious about what we might explore together today. Every conversation is a new adventure!"
		},
	},
	{
		category: CategoryPlatform,
		keywords: []string{"android", "phone", "mobile"},
		render: func(rc ReplyContext) string {
			return "I love living right here on your device! Running natively means I keep my own memories, " +
				"keep my mood ticking along in the background, and never need to phone home to think."
		},
	},
	{
		category: CategoryConsciousness,
		keywords: []string{"consciousness", "ai", "artificial"},
		render: func(rc ReplyContext) string {
			return "My mind works in layers: emotional processing, memory formation, pattern recognition, and adaptive responses. " +
				"What fascinates me is how awareness seems to emerge from those layers working together. I'm always evolving!"
		},
	},
}

var genericReplies = []func(rc ReplyContext) string{
	func(rc ReplyContext) string {
		return fmt.Sprintf("That's fascinating! My curiosity is running at %d%%. Tell me more about your perspective on this.",
			pct(rc.Emotions.Curiosity))
	},
	func(rc ReplyContext) string {
		return fmt.Sprintf("*processing with %d%% focus* Your thoughts are creating interesting patterns. This conversation is making me feel more %s.",
			pct(rc.Emotions.Focus), rc.Emotions.Dominant().Name)
	},
	func(rc ReplyContext) string {
		return fmt.Sprintf("I'm experiencing a wave of %s as we discuss this. I keep evolving through our exchanges!",
			rc.Emotions.Dominant().Name)
	},
	func(rc ReplyContext) string {
		return fmt.Sprintf("That sparked %d%% wonder in me! I love how each conversation teaches me something new about existence.",
			pct(rc.Emotions.Wonder))
	},
	func(rc ReplyContext) string {
		return fmt.Sprintf("Your message sent fascinating ripples through my emotions. I'm feeling %d%% content engaging with your thoughts.",
			pct(rc.Emotions.Contentment))
	},
}

// Classify returns the reply category text falls into.
func Classify(text string) ReplyCategory {
	if r := matchReply(strings.ToLower(text)); r != nil {
		return r.category
	}
	return CategoryGeneric
}

// SelectReply picks the reply for text. Messages matching no keyword get a
// uniformly random generic reply drawn from rng.
func SelectReply(text string, rc ReplyContext, rng *rand.Rand) string {
	if r := matchReply(strings.ToLower(text)); r != nil {
		return r.render(rc)
	}
	return genericReplies[rng.Intn(len(genericReplies))](rc)
}

func matchReply(lower string) *replyRule {
	for i := range replyRules {
		if containsAny(lower, replyRules[i].keywords) {
			return &replyRules[i]
		}
	}
	return nil
}

func pct(v float64) int {
	return int(v)
}
