package domain

import (
	"context"
)

// DefaultAnalysisTitle is used when a submission has no title.
const DefaultAnalysisTitle = "Untitled Analysis"

// AnalysisRequest is the payload of POST /analyze/.
type AnalysisRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// ListOptions pages GET /analyses/. Zero values leave the backend defaults.
type ListOptions struct {
	Skip  int
	Limit int
}

// ProfessionalMetrics holds the writing counters computed by the backend.
type ProfessionalMetrics struct {
	PassiveVoiceCount int     `json:"passive_voice_count" yaml:"passive_voice_count"`
	LongSentences     int     `json:"long_sentences" yaml:"long_sentences"`
	ComplexWords      int     `json:"complex_words" yaml:"complex_words"`
	RepetitiveWords   int     `json:"repetitive_words" yaml:"repetitive_words"`
	ClarityScore      float64 `json:"clarity_score" yaml:"clarity_score"`
}

// KeyPhrase is one ranked phrase extracted from the source text.
type KeyPhrase struct {
	Phrase              string   `json:"phrase" yaml:"phrase"`
	Category            string   `json:"category" yaml:"category"`
	PhraseType          string   `json:"phrase_type" yaml:"phrase_type"`
	Frequency           int      `json:"frequency" yaml:"frequency"`
	Importance          float64  `json:"importance" yaml:"importance"`
	RelevanceScore      float64  `json:"relevance_score" yaml:"relevance_score"`
	TFIDFScore          *float64 `json:"tfidf_score,omitempty" yaml:"tfidf_score,omitempty"`
	PositionScore       *float64 `json:"position_score,omitempty" yaml:"position_score,omitempty"`
	Rank                *int     `json:"rank,omitempty" yaml:"rank,omitempty"`
	Percentile          *int     `json:"percentile,omitempty" yaml:"percentile,omitempty"`
	LengthScore         *float64 `json:"length_score,omitempty" yaml:"length_score,omitempty"`
	POSDiversity        *float64 `json:"pos_diversity,omitempty" yaml:"pos_diversity,omitempty"`
	SemanticCoherence   *float64 `json:"semantic_coherence,omitempty" yaml:"semantic_coherence,omitempty"`
	CapitalizationScore *float64 `json:"capitalization_score,omitempty" yaml:"capitalization_score,omitempty"`
	WordCount           *int     `json:"word_count,omitempty" yaml:"word_count,omitempty"`
	CharCount           *int     `json:"char_count,omitempty" yaml:"char_count,omitempty"`
}

// CategoryOrDefault returns the phrase category, "general" when unset.
func (k KeyPhrase) CategoryOrDefault() string {
	if k.Category == "" {
		return "general"
	}
	return k.Category
}

// AnalysisResult is one analysis as returned by the backend. Treat it as
// immutable once decoded.
type AnalysisResult struct {
	ID        int       `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UserID    int       `json:"user_id" yaml:"user_id"`

	Sentiment           string              `json:"sentiment" yaml:"sentiment"`
	Polarity            float64             `json:"polarity" yaml:"polarity"`
	Subjectivity        float64             `json:"subjectivity" yaml:"subjectivity"`
	SentimentConfidence float64             `json:"sentiment_confidence" yaml:"sentiment_confidence"`
	Tone                string              `json:"tone" yaml:"tone"`
	ProfessionalMetrics ProfessionalMetrics `json:"professional_metrics" yaml:"professional_metrics"`

	FleschScore         float64       `json:"flesch_score" yaml:"flesch_score"`
	AvgSentenceLength   float64       `json:"avg_sentence_length" yaml:"avg_sentence_length"`
	WordCount           int           `json:"word_count" yaml:"word_count"`
	SentenceCount       int           `json:"sentence_count" yaml:"sentence_count"`
	SyllableCount       int           `json:"syllable_count" yaml:"syllable_count"`
	DifficultyLevel     string        `json:"difficulty_level" yaml:"difficulty_level"`
	ProfessionalScores  OrderedScores `json:"professional_scores" yaml:"professional_scores"`
	WritingImprovements []string      `json:"writing_improvements" yaml:"writing_improvements"`

	KeyPhrases    []KeyPhrase         `json:"key_phrases" yaml:"key_phrases"`
	NamedEntities map[string][]string `json:"named_entities" yaml:"named_entities"`

	LanguageCode         string        `json:"language_code" yaml:"language_code"`
	LanguageConfidence   FlexString    `json:"language_confidence" yaml:"language_confidence"`
	ContentCategory      string        `json:"content_category" yaml:"content_category"`
	CategoryConfidence   float64       `json:"category_confidence" yaml:"category_confidence"`
	CategoryDistribution OrderedScores `json:"category_distribution" yaml:"category_distribution"`

	Summary string `json:"summary" yaml:"summary"`
}

// AnalysisHistoryEntry is the list-view projection of an AnalysisResult.
type AnalysisHistoryEntry struct {
	ID              int       `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	CreatedAt       Timestamp `json:"created_at" yaml:"created_at"`
	Sentiment       string    `json:"sentiment" yaml:"sentiment"`
	Polarity        float64   `json:"polarity" yaml:"polarity"`
	FleschScore     float64   `json:"flesch_score" yaml:"flesch_score"`
	DifficultyLevel string    `json:"difficulty_level" yaml:"difficulty_level"`
	WordCount       int       `json:"word_count" yaml:"word_count"`
	ContentCategory string    `json:"content_category" yaml:"content_category"`
}

// Entry projects the result onto its history entry.
func (r AnalysisResult) Entry() AnalysisHistoryEntry {
	return AnalysisHistoryEntry{
		ID:              r.ID,
		Title:           r.Title,
		CreatedAt:       r.CreatedAt,
		Sentiment:       r.Sentiment,
		Polarity:        r.Polarity,
		FleschScore:     r.FleschScore,
		DifficultyLevel: r.DifficultyLevel,
		WordCount:       r.WordCount,
		ContentCategory: r.ContentCategory,
	}
}

// AnalysisAPI is the analysis surface of the backend. Every call is
// authenticated with the given bearer token.
type AnalysisAPI interface {
	Analyze(ctx context.Context, token string, req AnalysisRequest) (*AnalysisResult, error)
	ListAnalyses(ctx context.Context, token string, opts ListOptions) ([]AnalysisResult, error)
	GetAnalysis(ctx context.Context, token string, id int) (*AnalysisResult, error)
	DeleteAnalysis(ctx context.Context, token string, id int) error
}
