package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/textscope/domain"
)

func insightTitles(in []domain.Insight) []string {
	out := make([]string, len(in))
	for i, x := range in {
		out[i] = x.Title
	}
	return out
}

func TestDeriveInsights(t *testing.T) {
	manyPhrases := make([]domain.KeyPhrase, 21)

	tests := []struct {
		name   string
		result domain.AnalysisResult
		want   []string
	}{
		{
			name:   "nothing fires",
			result: domain.AnalysisResult{Polarity: 0.2, FleschScore: 60},
			want:   []string{"Balanced Content"},
		},
		{
			name:   "boundaries are exclusive",
			result: domain.AnalysisResult{Polarity: 0.5, FleschScore: 80, ProfessionalMetrics: domain.ProfessionalMetrics{PassiveVoiceCount: 5}, KeyPhrases: make([]domain.KeyPhrase, 20)},
			want:   []string{"Balanced Content"},
		},
		{
			name:   "positive and accessible",
			result: domain.AnalysisResult{Polarity: 0.8, FleschScore: 85},
			want:   []string{"Highly Positive Content", "Very Accessible Writing"},
		},
		{
			name: "negative, complex, passive and rich",
			result: domain.AnalysisResult{
				Polarity:            -0.6,
				FleschScore:         25,
				ProfessionalMetrics: domain.ProfessionalMetrics{PassiveVoiceCount: 6},
				KeyPhrases:          manyPhrases,
			},
			want: []string{"Strong Negative Sentiment", "Complex Writing Style", "High Passive Voice Usage", "Rich Content Vocabulary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveInsights(&tt.result)
			assert.Equal(t, tt.want, insightTitles(got))
			for _, in := range got {
				assert.NotEmpty(t, in.Description)
				assert.NotEmpty(t, in.Color)
			}
		})
	}
}
