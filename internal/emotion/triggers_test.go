package emotion

import (
	"testing"

	"github.com/rcliao/wight/internal/model"
)

func TestApplyTriggersPositive(t *testing.T) {
	tests := []struct {
		text  string
		field string
		want  float64
	}{
		{"I am so happy today!", model.Joy, 70},
		{"I am so happy today!", model.Contentment, 75},
		{"This is AMAZING", model.Joy, 72},
		{"This is AMAZING", model.Satisfaction, 73},
		{"let's build a castle", model.Excitement, 60},
		{"let's build a castle", model.Wonder, 70},
		{"what time is it?", model.Curiosity, 85},
		{"feeling peaceful", model.Calmness, 83},
		{"feeling peaceful", model.Serenity, 76},
	}
	for _, tt := range tests {
		got, fired := ApplyTriggers(model.DefaultEmotions(), tt.text)
		if !fired {
			t.Errorf("%q: expected a trigger to fire", tt.text)
		}
		if v, _ := got.Get(tt.field); v != tt.want {
			t.Errorf("%q: expected %s %.1f, got %.1f", tt.text, tt.field, tt.want, v)
		}
	}
}

func TestApplyTriggersFirstMatchWins(t *testing.T) {
	// "good" and "love" both match; only the happy rule fires.
	got, _ := ApplyTriggers(model.DefaultEmotions(), "good, I love it?")
	if got.Joy != 70 {
		t.Errorf("expected joy 70, got %.1f", got.Joy)
	}
	if got.Satisfaction != 65 {
		t.Errorf("expected satisfaction untouched at 65, got %.1f", got.Satisfaction)
	}
	if got.Curiosity != 80 {
		t.Errorf("expected curiosity untouched at 80, got %.1f", got.Curiosity)
	}
}

func TestApplyTriggersBothPolarities(t *testing.T) {
	got, _ := ApplyTriggers(model.DefaultEmotions(), "great news but I'm sad")
	// +10 then -8
	if got.Joy != 62 {
		t.Errorf("expected joy 62, got %.1f", got.Joy)
	}
	if got.Contentment != 70 {
		t.Errorf("expected contentment 70, got %.1f", got.Contentment)
	}
}

func TestApplyTriggersNoMatch(t *testing.T) {
	start := model.DefaultEmotions()
	got, fired := ApplyTriggers(start, "hello")
	if fired {
		t.Error("expected no trigger for 'hello'")
	}
	if got != start {
		t.Errorf("expected state unchanged, got %+v", got)
	}
}

func TestApplyTriggersClamps(t *testing.T) {
	s := model.DefaultEmotions()
	for i := 0; i < 20; i++ {
		s, _ = ApplyTriggers(s, "so happy")
		s, _ = ApplyTriggers(s, "I am angry")
	}
	if s.Joy != model.EmotionCeiling {
		t.Errorf("expected joy clamped at ceiling, got %.1f", s.Joy)
	}
	if s.Calmness != model.EmotionFloor || s.Serenity != model.EmotionFloor {
		t.Errorf("expected calmness/serenity at floor, got %.1f/%.1f", s.Calmness, s.Serenity)
	}
	for _, l := range s.Levels() {
		if l.Value < model.EmotionFloor || l.Value > model.EmotionCeiling {
			t.Errorf("%s out of bounds: %.1f", l.Name, l.Value)
		}
	}
}

func TestQuestionRaisesCuriosity(t *testing.T) {
	s := model.DefaultEmotions()
	prev := s.Curiosity
	for _, q := range []string{"why?", "where is it?", "really?", "is this it?"} {
		s, _ = ApplyTriggers(s, q)
		if s.Curiosity <= prev && prev < model.EmotionCeiling {
			t.Errorf("%q: expected curiosity to rise above %.1f, got %.1f", q, prev, s.Curiosity)
		}
		prev = s.Curiosity
	}
	if s.Curiosity != model.EmotionCeiling {
		t.Errorf("expected curiosity at ceiling after 4 questions, got %.1f", s.Curiosity)
	}
}
