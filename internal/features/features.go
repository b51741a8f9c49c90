// internal/features/features.go
// Package features derives the per-response signals used by the analysis:
// a sentiment score, a thematic focus label, and the players mentioned.
package features

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonreiter/govader"
)

// Focus labels.
const (
	FocusOffense  = "offense"
	FocusDefense  = "defense"
	FocusBalanced = "balanced"
	FocusUnclear  = "unclear"
)

// FocusLabels lists every label in a fixed order.
var FocusLabels = []string{FocusBalanced, FocusDefense, FocusOffense, FocusUnclear}

const unicodeSpace = `[\s\p{Z}\x{85}\x{1c}-\x{1f}]`

var (
	offenseKeywords = []string{"goal", "goals", "shot", "shots", "assist", "assists", "offense", "attacker", "scoring", "xg"}
	defenseKeywords = []string{
		"defense", "defensive", "clear", "clears", "turnover", "turnovers", "save", "saves",
		"goalie", "ground ball", "ground balls", "faceoff", "face-offs", "ride", "man-down",
	}

	// RE2's \s and \b are ASCII-only; spaces and word boundaries here are Unicode-aware.
	mentionPattern = regexp.MustCompile(`Player` + unicodeSpace + `+[A-Z]`)
	whitespace     = regexp.MustCompile(unicodeSpace + `+`)
)

// Annotation is the derived view of one response.
type Annotation struct {
	Sentiment float64
	Focus     string
	Mentions  []string
}

// Scorer computes VADER compound sentiment.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer loads the VADER lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Sentiment returns the compound score of text in [-1, 1]. Blank text scores 0.
func (s *Scorer) Sentiment(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := s.analyzer.PolarityScores(text).Compound
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(-1, math.Min(1, score))
}

// Annotate computes all three signals for text.
func (s *Scorer) Annotate(text string) Annotation {
	return Annotation{
		Sentiment: s.Sentiment(text),
		Focus:     ClassifyFocus(text),
		Mentions:  ExtractMentions(text),
	}
}

// ClassifyFocus labels text by which keyword families it contains.
// Keywords match case-insensitively anywhere in the text.
func ClassifyFocus(text string) string {
	lower := strings.ToLower(text)
	offense := containsAny(lower, offenseKeywords)
	defense := containsAny(lower, defenseKeywords)
	switch {
	case offense && defense:
		return FocusBalanced
	case offense:
		return FocusOffense
	case defense:
		return FocusDefense
	default:
		return FocusUnclear
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ExtractMentions returns every "Player X" reference in order of appearance.
// Runs of whitespace inside a match collapse to one space.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		before, _ := utf8.DecodeLastRuneInString(text[:m[0]])
		after, _ := utf8.DecodeRuneInString(text[m[1]:])
		if isWordRune(before) || isWordRune(after) {
			continue
		}
		out = append(out, whitespace.ReplaceAllString(text[m[0]:m[1]], " "))
	}
	return out
}

// isWordRune reports whether r continues a word. utf8.RuneError marks the text edge.
func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
