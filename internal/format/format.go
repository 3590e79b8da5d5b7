// Package format maps raw metric values to display strings, colors and
// qualitative labels. Every function is pure.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ludo-technologies/textscope/domain"
	c "github.com/ludo-technologies/textscope/internal/constants"
)

// Level is a qualitative label with its display color.
type Level struct {
	Name  string
	Color string
}

// SentimentClass is the three-way polarity classification.
type SentimentClass string

const (
	SentimentPositive SentimentClass = "positive"
	SentimentNeutral  SentimentClass = "neutral"
	SentimentNegative SentimentClass = "negative"
)

// GaugeFill maps polarity in [-1,1] linearly onto a [0,100] gauge.
func GaugeFill(polarity float64) float64 {
	return clampPercent((polarity + 1) / 2 * 100)
}

// ClassifyPolarity applies the strict ±0.33 thresholds.
func ClassifyPolarity(polarity float64) SentimentClass {
	switch {
	case polarity > c.PositivePolarityThreshold:
		return SentimentPositive
	case polarity < c.NegativePolarityThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// PolarityColor returns the gauge color for a polarity.
func PolarityColor(polarity float64) string {
	switch ClassifyPolarity(polarity) {
	case SentimentPositive:
		return c.ColorGreen
	case SentimentNegative:
		return c.ColorRed
	default:
		return c.ColorAmber
	}
}

// PolarityLabel returns the capitalized class name.
func PolarityLabel(polarity float64) string {
	return Capitalize(string(ClassifyPolarity(polarity)))
}

// PolarityExplanation describes polarity on a five-step scale that agrees
// with ClassifyPolarity at the ±0.33 boundaries.
func PolarityExplanation(polarity float64) string {
	switch {
	case polarity > c.StrongPolarityThreshold:
		return "Very positive sentiment"
	case polarity > c.PositivePolarityThreshold:
		return "Positive sentiment"
	case polarity >= c.NegativePolarityThreshold:
		return "Neutral sentiment"
	case polarity >= -c.StrongPolarityThreshold:
		return "Negative sentiment"
	default:
		return "Very negative sentiment"
	}
}

// SubjectivityExplanation labels subjectivity in [0,1].
func SubjectivityExplanation(subjectivity float64) string {
	switch {
	case subjectivity > c.HighSubjectivityThreshold:
		return "Highly subjective (opinion-based)"
	case subjectivity > c.ModerateSubjectivityThreshold:
		return "Moderately subjective"
	default:
		return "Objective (fact-based)"
	}
}

// ConfidenceExplanation labels a sentiment confidence in [0,1].
func ConfidenceExplanation(confidence float64) string {
	switch {
	case confidence > c.VeryHighConfidenceThreshold:
		return "Very high confidence"
	case confidence > c.HighConfidenceThreshold:
		return "High confidence"
	case confidence > c.MediumConfidenceThreshold:
		return "Medium confidence"
	default:
		return "Low confidence"
	}
}

// ReadabilityColor colors a Flesch score.
func ReadabilityColor(flesch float64) string {
	switch {
	case flesch >= c.ReadabilityGoodScore:
		return c.ColorGreen
	case flesch >= c.ReadabilityFairScore:
		return c.ColorAmber
	default:
		return c.ColorRed
	}
}

var difficultyColors = map[string]string{
	"very easy":        c.ColorGreen,
	"easy":             c.ColorGreen,
	"fairly easy":      c.ColorLime,
	"standard":         c.ColorAmber,
	"medium":           c.ColorAmber,
	"fairly difficult": c.ColorOrange,
	"hard":             c.ColorOrange,
	"difficult":        c.ColorOrange,
	"very difficult":   c.ColorRed,
	"very hard":        c.ColorRed,
}

// DifficultyColor colors a difficulty tier label. Unknown labels are gray.
func DifficultyColor(level string) string {
	if color, ok := difficultyColors[strings.ToLower(strings.TrimSpace(level))]; ok {
		return color
	}
	return c.ColorGray
}

// ImportanceLevel labels a 0-100 phrase importance.
func ImportanceLevel(importance float64) Level {
	switch {
	case importance >= c.ImportanceCritical:
		return Level{Name: "Critical", Color: c.ColorRed}
	case importance >= c.ImportanceHigh:
		return Level{Name: "High", Color: c.ColorOrange}
	case importance >= c.ImportanceMedium:
		return Level{Name: "Medium", Color: c.ColorAmber}
	case importance >= c.ImportanceLow:
		return Level{Name: "Low", Color: c.ColorBlue}
	default:
		return Level{Name: "Minimal", Color: c.ColorGray}
	}
}

// RelevanceLevel labels a phrase relevance score.
func RelevanceLevel(score float64) string {
	switch {
	case score >= c.RelevanceExcellent:
		return "Excellent"
	case score >= c.RelevanceGood:
		return "Good"
	case score >= c.RelevanceFair:
		return "Fair"
	default:
		return "Low"
	}
}

// ProfessionalSeverity labels a professional-writing counter.
func ProfessionalSeverity(count int) Level {
	switch {
	case count <= 0:
		return Level{Name: "Excellent", Color: c.ColorGreen}
	case count <= c.SeverityGoodMax:
		return Level{Name: "Good", Color: c.ColorBlue}
	case count <= c.SeverityFairMax:
		return Level{Name: "Fair", Color: c.ColorAmber}
	default:
		return Level{Name: "Needs Work", Color: c.ColorRed}
	}
}

// LanguageConfidenceTier accepts a numeric confidence or a textual one
// ("high", "medium", "low").
func LanguageConfidenceTier(confidence domain.FlexString) Level {
	if v, ok := confidence.Float(); ok {
		switch {
		case v > c.LanguageConfidenceHigh:
			return Level{Name: "High", Color: c.ColorGreen}
		case v > c.LanguageConfidenceMedium:
			return Level{Name: "Medium", Color: c.ColorAmber}
		default:
			return Level{Name: "Low", Color: c.ColorRed}
		}
	}
	switch strings.ToLower(strings.TrimSpace(string(confidence))) {
	case "high", "very high":
		return Level{Name: "High", Color: c.ColorGreen}
	case "medium", "moderate":
		return Level{Name: "Medium", Color: c.ColorAmber}
	case "":
		return Level{Name: "Unknown", Color: c.ColorGray}
	default:
		return Level{Name: "Low", Color: c.ColorRed}
	}
}

var phraseTypeIcons = map[string]string{
	"proper_noun": "👤",
	"verb_phrase": "⚡",
	"noun_phrase": "📝",
	"descriptive": "🎨",
	"general":     "💭",
}

// PhraseTypeIcon returns the glyph shown next to a phrase.
func PhraseTypeIcon(phraseType string) string {
	if icon, ok := phraseTypeIcons[phraseType]; ok {
		return icon
	}
	return phraseTypeIcons["general"]
}

// PhraseTypeLabel turns "noun_phrase" into "noun phrase".
func PhraseTypeLabel(phraseType string) string {
	return strings.ReplaceAll(phraseType, "_", " ")
}

var categoryColors = map[string]string{
	"person":       c.ColorPurple,
	"organization": c.ColorBlue,
	"location":     c.ColorGreen,
	"technology":   c.ColorAmber,
	"concept":      c.ColorRed,
	"action":       c.ColorPink,
	"quality":      c.ColorCyan,
	"product":      c.ColorLime,
	"general":      c.ColorGray,
}

// CategoryColor colors a key-phrase category.
func CategoryColor(category string) string {
	if color, ok := categoryColors[strings.ToLower(category)]; ok {
		return color
	}
	return c.ColorGray
}

// Percent formats a [0,1] ratio as a percentage with one decimal.
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

// Score formats a value with the given number of decimals.
func Score(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Truncate shortens text to maxLength runes followed by "...".
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + "..."
}

// Date formats a timestamp like "Jan 2, 2006, 03:04 PM".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// CountText returns the live character and word counters for input text.
func CountText(text string) domain.TextStats {
	return domain.TextStats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
	}
}

// CompressionRatio is the percentage by which a summary shortens the source.
func CompressionRatio(sourceWords, summaryWords int) float64 {
	if sourceWords <= 0 {
		return 0
	}
	return math.Round(float64(sourceWords-summaryWords) / float64(sourceWords) * 100)
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
