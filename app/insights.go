package app

import (
	"github.com/ludo-technologies/textscope/domain"
	c "github.com/ludo-technologies/textscope/internal/constants"
)

type insightRule struct {
	applies func(r *domain.AnalysisResult) bool
	insight domain.Insight
}

var insightRules = []insightRule{
	{
		applies: func(r *domain.AnalysisResult) bool { return r.Polarity > c.StrongPolarityThreshold },
		insight: domain.Insight{
			Title:       "Highly Positive Content",
			Description: "Your text conveys strong positive sentiment. Great for marketing and engagement.",
			Color:       c.ColorGreen,
		},
	},
	{
		applies: func(r *domain.AnalysisResult) bool { return r.Polarity < -c.StrongPolarityThreshold },
		insight: domain.Insight{
			Title:       "Strong Negative Sentiment",
			Description: "Consider balancing with positive elements if this wasn't intentional.",
			Color:       c.ColorRed,
		},
	},
	{
		applies: func(r *domain.AnalysisResult) bool { return r.FleschScore < c.ComplexWritingScore },
		insight: domain.Insight{
			Title:       "Complex Writing Style",
			Description: "Consider simplifying sentences for broader audience appeal.",
			Color:       c.ColorAmber,
		},
	},
	{
		applies: func(r *domain.AnalysisResult) bool { return r.FleschScore > c.AccessibleWritingScore },
		insight: domain.Insight{
			Title:       "Very Accessible Writing",
			Description: "Your content is easy to read and understand for most audiences.",
			Color:       c.ColorGreen,
		},
	},
	{
		applies: func(r *domain.AnalysisResult) bool {
			return r.ProfessionalMetrics.PassiveVoiceCount > c.PassiveVoiceInsightCount
		},
		insight: domain.Insight{
			Title:       "High Passive Voice Usage",
			Description: "Consider using more active voice for stronger, clearer writing.",
			Color:       c.ColorAmber,
		},
	},
	{
		applies: func(r *domain.AnalysisResult) bool { return len(r.KeyPhrases) > c.RichVocabularyPhraseCount },
		insight: domain.Insight{
			Title:       "Rich Content Vocabulary",
			Description: "Your text contains many key concepts, indicating comprehensive coverage.",
			Color:       c.ColorPurple,
		},
	},
}

var balancedInsight = domain.Insight{
	Title:       "Balanced Content",
	Description: "Your text shows good balance across multiple writing dimensions.",
	Color:       c.ColorBlue,
}

// DeriveInsights returns the observations whose rules fire, in rule order.
// The result is never empty.
func DeriveInsights(r *domain.AnalysisResult) []domain.Insight {
	var out []domain.Insight
	for _, rule := range insightRules {
		if rule.applies(r) {
			out = append(out, rule.insight)
		}
	}
	if len(out) == 0 {
		out = append(out, balancedInsight)
	}
	return out
}
