package app

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/textscope/domain"
	c "github.com/ludo-technologies/textscope/internal/constants"
	"github.com/ludo-technologies/textscope/internal/format"
)

type sectionBuilder func(r *domain.AnalysisResult, phrases *KeyPhraseTable) domain.Section

// ResultRenderer turns an analysis into a toolkit-independent ViewTree. It
// never mutates the result it is given.
type ResultRenderer struct {
	logger   *slog.Logger
	builders map[domain.SectionID]sectionBuilder
}

// NewResultRenderer creates a renderer.
func NewResultRenderer(logger *slog.Logger) *ResultRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultRenderer{
		logger: logger,
		builders: map[domain.SectionID]sectionBuilder{
			domain.SectionSentiment:   sentimentSection,
			domain.SectionReadability: readabilitySection,
			domain.SectionKeyPhrases:  keyPhrasesSection,
			domain.SectionEntities:    entitiesSection,
			domain.SectionLanguage:    languageSection,
			domain.SectionCategory:    categorySection,
			domain.SectionSummary:     summarySection,
			domain.SectionInsights:    insightsSection,
		},
	}
}

// Render builds every mounted section of result. Key phrases use the default
// sort with no filter.
func (rr *ResultRenderer) Render(result *domain.AnalysisResult, mounts domain.Mounts) domain.ViewTree {
	return rr.RenderWithPhrases(result, mounts, nil)
}

// RenderWithPhrases is Render with the key-phrase section drawn from table,
// which must hold result's phrases. A nil table is built from result.
func (rr *ResultRenderer) RenderWithPhrases(result *domain.AnalysisResult, mounts domain.Mounts, table *KeyPhraseTable) domain.ViewTree {
	tree := domain.ViewTree{Screen: domain.ScreenDashboard, Sections: []domain.Section{}}
	if result == nil {
		return tree
	}
	tree.Title = result.Title
	if table == nil {
		table = NewKeyPhraseTable()
		table.Load(result.KeyPhrases)
	}

	for _, id := range domain.ResultSections {
		if !mounts.Has(id) {
			rr.logger.Debug("section not mounted, skipping", "section", id)
			continue
		}
		if section, ok := rr.buildSection(id, result, table); ok {
			tree.Sections = append(tree.Sections, section)
		}
	}
	return tree
}

func (rr *ResultRenderer) buildSection(id domain.SectionID, result *domain.AnalysisResult, table *KeyPhraseTable) (section domain.Section, ok bool) {
	build, found := rr.builders[id]
	if !found {
		rr.logger.Debug("no builder for section", "section", id)
		return domain.Section{}, false
	}
	defer func() {
		if rec := recover(); rec != nil {
			rr.logger.Error("section render failed", "section", id, "analysis_id", result.ID, "panic", rec)
			section, ok = domain.Section{}, false
		}
	}()
	section = build(result, table)
	section.ID = id
	return section, true
}

// RenderScreen builds the whole screen for state. history and user are only
// used on the dashboard.
func (rr *ResultRenderer) RenderScreen(state domain.ViewState, history []domain.AnalysisHistoryEntry, user *domain.UserProfile, mounts domain.Mounts, table *KeyPhraseTable) domain.ViewTree {
	switch state.Screen {
	case domain.ScreenAuth:
		return domain.ViewTree{
			Screen:   domain.ScreenAuth,
			Title:    "TextScope",
			Sections: []domain.Section{authSection(state.AuthForm)},
		}
	case domain.ScreenDashboard:
		tree := rr.RenderWithPhrases(state.CurrentAnalysis, mounts, table)
		tree.Title = "Dashboard"
		if user != nil {
			tree.Title = "Welcome, " + user.Username
		}
		tree.Sections = append([]domain.Section{historySection(history, state.CurrentAnalysis)}, tree.Sections...)
		return tree
	default:
		return domain.ViewTree{
			Screen:   domain.ScreenLanding,
			Title:    "TextScope",
			Sections: []domain.Section{welcomeSection()},
		}
	}
}

func sentimentSection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	blocks := []domain.Block{
		{
			Kind:    domain.BlockGauge,
			Label:   "Polarity",
			Value:   format.Score(r.Polarity, 2),
			Percent: format.GaugeFill(r.Polarity),
			Color:   format.PolarityColor(r.Polarity),
			Detail:  format.PolarityExplanation(r.Polarity),
		},
		{
			Kind:  domain.BlockBadge,
			Label: "Sentiment",
			Value: format.PolarityLabel(r.Polarity),
			Color: format.PolarityColor(r.Polarity),
		},
		{
			Kind:    domain.BlockBar,
			Label:   "Subjectivity",
			Value:   format.Percent(r.Subjectivity),
			Percent: r.Subjectivity * 100,
			Color:   c.ColorPurple,
			Detail:  format.SubjectivityExplanation(r.Subjectivity),
		},
		{
			Kind:    domain.BlockBar,
			Label:   "Confidence",
			Value:   format.Percent(r.SentimentConfidence),
			Percent: r.SentimentConfidence * 100,
			Color:   c.ColorBlue,
			Detail:  format.ConfidenceExplanation(r.SentimentConfidence),
		},
	}
	if r.Tone != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockBadge, Label: "Tone", Value: format.Capitalize(r.Tone), Color: c.ColorBlue})
	}

	pm := r.ProfessionalMetrics
	blocks = append(blocks, domain.Block{
		Kind:  domain.BlockKeyValue,
		Label: "Professional Writing",
		Items: []domain.Item{
			severityItem("Passive voice", pm.PassiveVoiceCount),
			severityItem("Long sentences", pm.LongSentences),
			severityItem("Complex words", pm.ComplexWords),
		},
	})
	return domain.Section{Title: "Sentiment Analysis", Blocks: blocks}
}

func severityItem(label string, count int) domain.Item {
	level := format.ProfessionalSeverity(count)
	return domain.Item{Label: label, Value: strconv.Itoa(count), Detail: level.Name, Color: level.Color}
}

func readabilitySection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	blocks := []domain.Block{
		{
			Kind:    domain.BlockGauge,
			Label:   "Flesch Reading Ease",
			Value:   format.Score(r.FleschScore, 1),
			Percent: r.FleschScore,
			Color:   format.ReadabilityColor(r.FleschScore),
		},
		{
			Kind:  domain.BlockBadge,
			Label: "Difficulty",
			Value: r.DifficultyLevel,
			Color: format.DifficultyColor(r.DifficultyLevel),
		},
		{
			Kind:  domain.BlockKeyValue,
			Label: "Text Statistics",
			Items: []domain.Item{
				{Label: "Words", Value: strconv.Itoa(r.WordCount)},
				{Label: "Sentences", Value: strconv.Itoa(r.SentenceCount)},
				{Label: "Syllables", Value: strconv.Itoa(r.SyllableCount)},
				{Label: "Avg. sentence length", Value: format.Score(r.AvgSentenceLength, 1)},
			},
		},
	}

	for _, score := range r.ProfessionalScores {
		blocks = append(blocks, domain.Block{
			Kind:    domain.BlockBar,
			Label:   format.Capitalize(format.PhraseTypeLabel(score.Name)),
			Value:   format.Score(score.Score, 1) + "%",
			Percent: score.Score,
			Color:   format.ReadabilityColor(score.Score),
		})
	}

	if len(r.WritingImprovements) > 0 {
		items := make([]domain.Item, len(r.WritingImprovements))
		for i, s := range r.WritingImprovements {
			items[i] = domain.Item{Label: s}
		}
		blocks = append(blocks, domain.Block{Kind: domain.BlockList, Label: "Writing Improvements", Items: items})
	}
	return domain.Section{Title: "Readability", Blocks: blocks}
}

var phraseColumns = []string{"#", "Phrase", "Category", "Type", "Relevance", "Frequency", "Importance"}

func keyPhrasesSection(r *domain.AnalysisResult, table *KeyPhraseTable) domain.Section {
	stats := table.Stats()
	blocks := []domain.Block{{
		Kind:  domain.BlockKeyValue,
		Label: "Overview",
		Items: []domain.Item{
			{Label: "Total phrases", Value: strconv.Itoa(stats.TotalPhrases)},
			{Label: "Categories", Value: strconv.Itoa(stats.Categories)},
			{Label: "Mean relevance", Value: format.Score(stats.MeanRelevance, 3)},
			{Label: "Total frequency", Value: strconv.Itoa(stats.TotalFrequency)},
			{Label: "Top category", Value: format.Capitalize(stats.TopCategory), Color: format.CategoryColor(stats.TopCategory)},
		},
	}}

	if stats.TotalPhrases == 0 {
		blocks = append(blocks, domain.Block{Kind: domain.BlockText, Value: "No key phrases found"})
		return domain.Section{Title: "Key Phrases", Blocks: blocks}
	}

	categories := table.Categories()
	tags := make([]domain.Item, 0, len(categories)+1)
	tags = append(tags, domain.Item{Label: domain.CategoryAll, Primary: table.Category() == domain.CategoryAll})
	for _, cat := range categories {
		tags = append(tags, domain.Item{Label: cat, Color: format.CategoryColor(cat), Primary: table.Category() == cat})
	}
	blocks = append(blocks, domain.Block{Kind: domain.BlockTags, Label: "Filter", Items: tags})

	visible := table.Visible()
	rows := make([][]string, len(visible))
	for i, p := range visible {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			format.PhraseTypeIcon(p.PhraseType) + " " + p.Phrase,
			p.CategoryOrDefault(),
			format.PhraseTypeLabel(p.PhraseType),
			fmt.Sprintf("%s (%s)", format.Score(p.RelevanceScore, 3), format.RelevanceLevel(p.RelevanceScore)),
			strconv.Itoa(p.Frequency),
			fmt.Sprintf("%s (%s)", format.Score(p.Importance, 0), format.ImportanceLevel(p.Importance).Name),
		}
	}
	blocks = append(blocks, domain.Block{
		Kind:   domain.BlockTable,
		Label:  "Phrases",
		Detail: fmt.Sprintf("sorted by %s, showing %s", table.SortKey(), table.Category()),
		Table:  &domain.Table{Columns: phraseColumns, Rows: rows},
	})
	return domain.Section{Title: "Key Phrases", Blocks: blocks}
}

func entitiesSection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	types := make([]string, 0, len(r.NamedEntities))
	total := 0
	for t, list := range r.NamedEntities {
		types = append(types, t)
		total += len(list)
	}
	sort.Strings(types)

	blocks := []domain.Block{{Kind: domain.BlockText, Label: "Total entities", Value: strconv.Itoa(total)}}
	if total == 0 {
		blocks = append(blocks, domain.Block{Kind: domain.BlockText, Value: "No named entities found"})
	}
	for _, t := range types {
		list := r.NamedEntities[t]
		if len(list) == 0 {
			continue
		}
		items := make([]domain.Item, len(list))
		for i, e := range list {
			items[i] = domain.Item{Label: e, Color: format.CategoryColor(entityCategory(t))}
		}
		blocks = append(blocks, domain.Block{Kind: domain.BlockTags, Label: fmt.Sprintf("%s (%d)", t, len(list)), Items: items})
	}
	return domain.Section{Title: "Named Entities", Blocks: blocks}
}

// entityCategory maps spaCy-style entity labels onto phrase categories for
// coloring.
func entityCategory(entityType string) string {
	switch strings.ToUpper(entityType) {
	case "PERSON", "PER":
		return "person"
	case "ORG":
		return "organization"
	case "GPE", "LOC", "FAC":
		return "location"
	case "PRODUCT":
		return "product"
	default:
		return "general"
	}
}

func languageSection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	tier := format.LanguageConfidenceTier(r.LanguageConfidence)
	confidence := string(r.LanguageConfidence)
	if v, ok := r.LanguageConfidence.Float(); ok {
		confidence = format.Percent(v)
	}
	if confidence == "" {
		confidence = "-"
	}
	return domain.Section{
		Title: "Language Detection",
		Blocks: []domain.Block{{
			Kind: domain.BlockKeyValue,
			Items: []domain.Item{
				{Label: "Language", Value: format.LanguageName(r.LanguageCode)},
				{Label: "Code", Value: strings.ToUpper(r.LanguageCode)},
				{Label: "Confidence", Value: format.Capitalize(confidence), Detail: tier.Name, Color: tier.Color},
			},
		}},
	}
}

func categorySection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	primary := r.ContentCategory
	if primary == "" {
		primary = "general"
	}
	blocks := []domain.Block{{
		Kind:   domain.BlockBadge,
		Label:  "Primary category",
		Value:  format.Capitalize(primary),
		Detail: format.Percent(r.CategoryConfidence) + " confidence",
		Color:  format.CategoryColor(primary),
	}}

	ranked := append(domain.OrderedScores(nil), r.CategoryDistribution...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	present := 0
	items := make([]domain.Item, len(ranked))
	for i, e := range ranked {
		if e.Score > 0 {
			present++
		}
		items[i] = domain.Item{
			Label:   format.Capitalize(e.Name),
			Value:   format.Percent(e.Score),
			Color:   format.CategoryColor(e.Name),
			Primary: strings.EqualFold(e.Name, primary),
		}
	}
	if len(items) > 0 {
		blocks = append(blocks, domain.Block{Kind: domain.BlockList, Label: "Distribution", Items: items})
	}

	profile := format.ProfileFor(primary)
	blocks = append(blocks,
		domain.Block{
			Kind:  domain.BlockKeyValue,
			Label: "Profile",
			Items: []domain.Item{
				{Label: "Description", Value: profile.Description},
				{Label: "Audience", Value: profile.Audience},
				{Label: "Tone", Value: profile.Tone},
			},
		},
		domain.Block{Kind: domain.BlockList, Label: "Suggestions", Items: labelItems(profile.Suggestions)},
		domain.Block{Kind: domain.BlockText, Label: "Writing style", Value: format.WritingStyle(primary, present)},
	)
	return domain.Section{Title: "Content Category", Blocks: blocks}
}

func summarySection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	summary := strings.TrimSpace(r.Summary)
	if summary == "" {
		return domain.Section{
			Title:  "Summary",
			Blocks: []domain.Block{{Kind: domain.BlockText, Value: "No summary available"}},
		}
	}
	summaryWords := format.CountText(summary).Words
	return domain.Section{
		Title: "Summary",
		Blocks: []domain.Block{
			{Kind: domain.BlockText, Value: summary},
			{
				Kind: domain.BlockKeyValue,
				Items: []domain.Item{
					{Label: "Summary words", Value: strconv.Itoa(summaryWords)},
					{Label: "Source words", Value: strconv.Itoa(r.WordCount)},
					{Label: "Compression", Value: format.Score(format.CompressionRatio(r.WordCount, summaryWords), 0) + "%"},
				},
			},
		},
	}
}

func insightsSection(r *domain.AnalysisResult, _ *KeyPhraseTable) domain.Section {
	insights := DeriveInsights(r)
	items := make([]domain.Item, len(insights))
	for i, in := range insights {
		items[i] = domain.Item{Label: in.Title, Detail: in.Description, Color: in.Color}
	}
	return domain.Section{Title: "Insights", Blocks: []domain.Block{{Kind: domain.BlockList, Items: items}}}
}

func historySection(history []domain.AnalysisHistoryEntry, current *domain.AnalysisResult) domain.Section {
	section := domain.Section{ID: domain.SectionHistory, Title: "Analysis History"}
	if len(history) == 0 {
		section.Blocks = []domain.Block{{Kind: domain.BlockText, Value: "No analyses yet. Submit some text to get started."}}
		return section
	}
	items := make([]domain.Item, len(history))
	for i, e := range history {
		items[i] = domain.Item{
			Label:   format.Truncate(e.Title, 50),
			Value:   fmt.Sprintf("%s, Flesch %s", format.PolarityLabel(e.Polarity), format.Score(e.FleschScore, 1)),
			Detail:  format.Date(e.CreatedAt.Time),
			Color:   format.PolarityColor(e.Polarity),
			Primary: current != nil && current.ID == e.ID,
			Ref:     e.ID,
		}
	}
	section.Blocks = []domain.Block{{Kind: domain.BlockList, Items: items}}
	return section
}

func authSection(form domain.AuthForm) domain.Section {
	section := domain.Section{ID: domain.SectionAuthForm}
	if form == domain.AuthFormRegister {
		section.Title = "Create Account"
		section.Blocks = []domain.Block{
			{Kind: domain.BlockKeyValue, Items: []domain.Item{{Label: "Email"}, {Label: "Username"}, {Label: "Password"}}},
			{Kind: domain.BlockText, Value: "Already have an account? Sign in."},
		}
		return section
	}
	section.Title = "Sign In"
	section.Blocks = []domain.Block{
		{Kind: domain.BlockKeyValue, Items: []domain.Item{{Label: "Username"}, {Label: "Password"}}},
		{Kind: domain.BlockText, Value: "Don't have an account? Register."},
	}
	return section
}

func welcomeSection() domain.Section {
	return domain.Section{
		ID:    domain.SectionWelcome,
		Title: "Understand your writing",
		Blocks: []domain.Block{
			{Kind: domain.BlockText, Value: "Sentiment, readability, key phrases, entities, language and category analysis for any text."},
			{Kind: domain.BlockList, Items: labelItems([]string{
				"Sentiment and tone",
				"Readability and professional writing scores",
				"Key phrases with filtering and export",
				"Named entities and language detection",
				"Content category insights and summaries",
			})},
		},
	}
}

func labelItems(labels []string) []domain.Item {
	items := make([]domain.Item, len(labels))
	for i, l := range labels {
		items[i] = domain.Item{Label: l}
	}
	return items
}
