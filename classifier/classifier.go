package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultThreshold is applied when the configuration omits one.
	DefaultThreshold = 0.7
	// DefaultIntent is used when no intent reaches the threshold.
	DefaultIntent = "informasi_umum"

	keywordWeight = 1.0
	patternWeight = 1.5
)

// Intent is a named set of keyword and pattern signals.
type Intent struct {
	Name     string
	Keywords []string
	Patterns []*regexp.Regexp

	lowerKeywords []string
}

// NewIntent creates an intent, compiling its patterns.
func NewIntent(name string, keywords []string, patterns []string) (*Intent, error) {
	ret := &Intent{Name: name, Keywords: keywords}
	for _, expr := range patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("intent %s: invalid pattern %q: %w", name, expr, err)
		}
		ret.Patterns = append(ret.Patterns, re)
	}
	ret.lowerKeywords = make([]string, len(keywords))
	for i, keyword := range keywords {
		ret.lowerKeywords[i] = strings.ToLower(keyword)
	}
	return ret, nil
}

// Signals returns the number of configured keywords and patterns.
func (i *Intent) Signals() int {
	return len(i.Keywords) + len(i.Patterns)
}

// Score returns the normalized score of the lower-cased text.
func (i *Intent) Score(text string) float64 {
	signals := i.Signals()
	if signals == 0 {
		return 0
	}
	keywords := i.lowerKeywords
	if len(keywords) != len(i.Keywords) {
		keywords = make([]string, len(i.Keywords))
		for j, keyword := range i.Keywords {
			keywords[j] = strings.ToLower(keyword)
		}
	}
	score := 0.0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			score += keywordWeight
		}
	}
	for _, pattern := range i.Patterns {
		if pattern.MatchString(text) {
			score += patternWeight
		}
	}
	return score / float64(signals)
}

// Config holds the intents in declaration order.
type Config struct {
	Intents       []*Intent
	Threshold     float64
	DefaultIntent string
}

// Score is a per-intent classification score.
type Score struct {
	Intent string
	Value  float64
}

// Result is the outcome of a classification.
type Result struct {
	// Intent is the winner, or the default intent when the winner is below threshold.
	Intent string
	// Confidence is the winning normalized score, capped at 1.0.
	Confidence float64
	// Confident reports whether the winner reached the threshold.
	Confident bool
	// Scores lists every intent score in configuration order.
	Scores []Score
}

// Classify scores text against config. The text is lower-cased before matching.
func Classify(text string, config *Config) *Result {
	ret := &Result{}
	if config == nil {
		ret.Intent = DefaultIntent
		return ret
	}
	defaultIntent := config.DefaultIntent
	if defaultIntent == "" {
		defaultIntent = DefaultIntent
	}
	lower := strings.ToLower(text)
	best, bestScore := "", 0.0
	for _, intent := range config.Intents {
		score := intent.Score(lower)
		ret.Scores = append(ret.Scores, Score{Intent: intent.Name, Value: score})
		if score > bestScore {
			best, bestScore = intent.Name, score
		}
	}
	ret.Confidence = bestScore
	if ret.Confidence > 1 {
		ret.Confidence = 1
	}
	if best == "" || bestScore < config.Threshold {
		ret.Intent = defaultIntent
		return ret
	}
	ret.Intent = best
	ret.Confident = true
	return ret
}
