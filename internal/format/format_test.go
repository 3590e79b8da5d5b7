package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/textscope/domain"
	c "github.com/ludo-technologies/textscope/internal/constants"
)

func TestGaugeFill(t *testing.T) {
	assert.Equal(t, 0.0, GaugeFill(-1))
	assert.Equal(t, 50.0, GaugeFill(0))
	assert.Equal(t, 75.0, GaugeFill(0.5))
	assert.Equal(t, 100.0, GaugeFill(1))

	t.Run("monotonic non-decreasing", func(t *testing.T) {
		prev := GaugeFill(-1)
		for p := -1.0; p <= 1.0; p += 0.01 {
			fill := GaugeFill(p)
			assert.GreaterOrEqual(t, fill, prev, "polarity %f", p)
			prev = fill
		}
	})

	t.Run("out of range values are clamped", func(t *testing.T) {
		assert.Equal(t, 0.0, GaugeFill(-3))
		assert.Equal(t, 100.0, GaugeFill(2))
	})
}

func TestClassifyPolarity(t *testing.T) {
	tests := []struct {
		name     string
		polarity float64
		want     SentimentClass
		color    string
	}{
		{"strong positive", 0.9, SentimentPositive, c.ColorGreen},
		{"just above boundary", 0.3301, SentimentPositive, c.ColorGreen},
		{"positive boundary is neutral", 0.33, SentimentNeutral, c.ColorAmber},
		{"zero", 0, SentimentNeutral, c.ColorAmber},
		{"negative boundary is neutral", -0.33, SentimentNeutral, c.ColorAmber},
		{"just below boundary", -0.3301, SentimentNegative, c.ColorRed},
		{"strong negative", -1, SentimentNegative, c.ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPolarity(tt.polarity))
			assert.Equal(t, tt.color, PolarityColor(tt.polarity))
		})
	}
	assert.Equal(t, "Positive", PolarityLabel(0.5))
}

func TestPolarityExplanationAgreesWithClassification(t *testing.T) {
	assert.Equal(t, "Very positive sentiment", PolarityExplanation(0.6))
	assert.Equal(t, "Positive sentiment", PolarityExplanation(0.4))
	assert.Equal(t, "Neutral sentiment", PolarityExplanation(0.33))
	assert.Equal(t, "Neutral sentiment", PolarityExplanation(-0.33))
	assert.Equal(t, "Negative sentiment", PolarityExplanation(-0.4))
	assert.Equal(t, "Very negative sentiment", PolarityExplanation(-0.6))
}

func TestSubjectivityExplanation(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.95, "Highly subjective (opinion-based)"},
		{0.71, "Highly subjective (opinion-based)"},
		{0.7, "Moderately subjective"},
		{0.41, "Moderately subjective"},
		{0.4, "Objective (fact-based)"},
		{0.1, "Objective (fact-based)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SubjectivityExplanation(tt.value), "subjectivity %v", tt.value)
	}
}

func TestConfidenceExplanation(t *testing.T) {
	assert.Equal(t, "Very high confidence", ConfidenceExplanation(0.81))
	assert.Equal(t, "High confidence", ConfidenceExplanation(0.8))
	assert.Equal(t, "Medium confidence", ConfidenceExplanation(0.5))
	assert.Equal(t, "Low confidence", ConfidenceExplanation(0.4))
}

func TestReadabilityAndDifficultyColors(t *testing.T) {
	assert.Equal(t, c.ColorGreen, ReadabilityColor(70))
	assert.Equal(t, c.ColorAmber, ReadabilityColor(50))
	assert.Equal(t, c.ColorRed, ReadabilityColor(49.9))

	assert.Equal(t, c.ColorGreen, DifficultyColor("Very Easy"))
	assert.Equal(t, c.ColorAmber, DifficultyColor("standard"))
	assert.Equal(t, c.ColorRed, DifficultyColor("Very Difficult"))
	assert.Equal(t, c.ColorRed, DifficultyColor("Very Hard"))
	assert.Equal(t, c.ColorGray, DifficultyColor("Impossible"))
}

func TestPhraseLevels(t *testing.T) {
	assert.Equal(t, "Critical", ImportanceLevel(80).Name)
	assert.Equal(t, "High", ImportanceLevel(60).Name)
	assert.Equal(t, "Medium", ImportanceLevel(40).Name)
	assert.Equal(t, "Low", ImportanceLevel(20).Name)
	assert.Equal(t, "Minimal", ImportanceLevel(19.9).Name)

	assert.Equal(t, "Excellent", RelevanceLevel(0.1))
	assert.Equal(t, "Good", RelevanceLevel(0.05))
	assert.Equal(t, "Fair", RelevanceLevel(0.02))
	assert.Equal(t, "Low", RelevanceLevel(0.01))
}

func TestProfessionalSeverity(t *testing.T) {
	assert.Equal(t, "Excellent", ProfessionalSeverity(0).Name)
	assert.Equal(t, "Good", ProfessionalSeverity(2).Name)
	assert.Equal(t, "Fair", ProfessionalSeverity(5).Name)
	assert.Equal(t, "Needs Work", ProfessionalSeverity(6).Name)
}

func TestLanguageConfidenceTier(t *testing.T) {
	assert.Equal(t, "High", LanguageConfidenceTier(domain.FlexString("0.95")).Name)
	assert.Equal(t, "Medium", LanguageConfidenceTier(domain.FlexString("0.7")).Name)
	assert.Equal(t, "Low", LanguageConfidenceTier(domain.FlexString("0.6")).Name)
	assert.Equal(t, "High", LanguageConfidenceTier(domain.FlexString("high")).Name)
	assert.Equal(t, "Medium", LanguageConfidenceTier(domain.FlexString("medium")).Name)
	assert.Equal(t, "Low", LanguageConfidenceTier(domain.FlexString("low")).Name)
	assert.Equal(t, "Unknown", LanguageConfidenceTier(domain.FlexString("")).Name)
}

func TestIconsAndColors(t *testing.T) {
	assert.Equal(t, "📝", PhraseTypeIcon("noun_phrase"))
	assert.Equal(t, "💭", PhraseTypeIcon("something_else"))
	assert.Equal(t, "noun phrase", PhraseTypeLabel("noun_phrase"))
	assert.Equal(t, c.ColorBlue, CategoryColor("organization"))
	assert.Equal(t, c.ColorGray, CategoryColor("unheard-of"))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "42.0%", Percent(0.42))
	assert.Equal(t, "0.123", Score(0.12345, 3))
	assert.Equal(t, "Hello", Capitalize("hello"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "Mar 4, 2024, 02:05 PM", Date(time.Date(2024, 3, 4, 14, 5, 0, 0, time.UTC)))

	stats := CountText("  héllo   wide world ")
	assert.Equal(t, 21, stats.Characters)
	assert.Equal(t, 3, stats.Words)

	assert.Equal(t, 75.0, CompressionRatio(100, 25))
	assert.Equal(t, 0.0, CompressionRatio(0, 10))
}

func TestCategoryHelpers(t *testing.T) {
	assert.Equal(t, "Precise and methodical", ProfileFor("technical").Tone)
	assert.Equal(t, "Precise and methodical", ProfileFor("Technical").Tone)
	assert.Equal(t, "Mixed or general content", ProfileFor("poetry").Description)

	assert.Equal(t, "Highly focused business writing style", WritingStyle("Business", 1))
	assert.Equal(t, "Primarily business with some variation", WritingStyle("Business", 2))
	assert.Equal(t, "Diverse writing style spanning multiple categories", WritingStyle("Business", 5))

	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "SW", LanguageName("sw"))
	assert.Equal(t, "Unknown", LanguageName("unknown"))
}
