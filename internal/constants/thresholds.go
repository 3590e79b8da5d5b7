package constants

// Sentiment classification thresholds. Comparisons are strict, so the
// boundary values themselves classify as neutral.
const (
	PositivePolarityThreshold = 0.33
	NegativePolarityThreshold = -0.33

	// StrongPolarityThreshold separates "very" positive/negative wording and
	// drives the sentiment insights.
	StrongPolarityThreshold = 0.5
)

// Subjectivity label thresholds (exclusive lower bounds).
const (
	HighSubjectivityThreshold     = 0.7
	ModerateSubjectivityThreshold = 0.4
)

// Sentiment confidence label thresholds (exclusive lower bounds).
const (
	VeryHighConfidenceThreshold = 0.8
	HighConfidenceThreshold     = 0.6
	MediumConfidenceThreshold   = 0.4
)

// Flesch reading ease thresholds.
const (
	// ReadabilityGoodScore and ReadabilityFairScore pick the score color
	// (inclusive lower bounds).
	ReadabilityGoodScore = 70.0
	ReadabilityFairScore = 50.0

	// ComplexWritingScore and AccessibleWritingScore drive the readability
	// insights (strict bounds).
	ComplexWritingScore    = 30.0
	AccessibleWritingScore = 80.0
)

// Insight rule thresholds (strict lower bounds).
const (
	PassiveVoiceInsightCount  = 5
	RichVocabularyPhraseCount = 20
)

// Key-phrase importance levels on a 0-100 scale (inclusive lower bounds).
const (
	ImportanceCritical = 80.0
	ImportanceHigh     = 60.0
	ImportanceMedium   = 40.0
	ImportanceLow      = 20.0
)

// Key-phrase relevance levels (inclusive lower bounds).
const (
	RelevanceExcellent = 0.1
	RelevanceGood      = 0.05
	RelevanceFair      = 0.02
)

// Professional metric severity bands (inclusive upper bounds above zero).
const (
	SeverityGoodMax = 2
	SeverityFairMax = 5
)

// Language detection confidence tiers for numeric confidences (strict).
const (
	LanguageConfidenceHigh   = 0.8
	LanguageConfidenceMedium = 0.6
)

// Display palette shared by every renderer.
const (
	ColorGreen  = "#10B981"
	ColorRed    = "#EF4444"
	ColorAmber  = "#F59E0B"
	ColorGray   = "#6B7280"
	ColorBlue   = "#3B82F6"
	ColorPurple = "#8B5CF6"
	ColorOrange = "#F97316"
	ColorPink   = "#EC4899"
	ColorCyan   = "#06B6D4"
	ColorLime   = "#84CC16"
)
