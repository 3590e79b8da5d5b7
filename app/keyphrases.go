package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/service"
)

// KeyPhraseCSVHeader is the fixed column order of the CSV export.
var KeyPhraseCSVHeader = []string{
	"Rank", "Phrase", "Category", "Type", "Relevance Score",
	"Frequency", "Importance", "TF-IDF", "Position Score",
}

// Download names of the key-phrase exports.
const (
	KeyPhraseCSVFileName  = "key_phrases.csv"
	KeyPhraseJSONFileName = "key_phrases.json"
)

// KeyPhraseTable sorts, filters and exports a private copy of a result's key
// phrases.
type KeyPhraseTable struct {
	mu       sync.Mutex
	original []domain.KeyPhrase
	phrases  []domain.KeyPhrase
	sortKey  domain.SortKey
	category string
}

// NewKeyPhraseTable creates an empty table sorted by relevance.
func NewKeyPhraseTable() *KeyPhraseTable {
	return &KeyPhraseTable{sortKey: domain.SortByRelevance, category: domain.CategoryAll}
}

// Load replaces the phrases with a copy of phrases and re-applies the current
// sort. The filter is reset.
func (t *KeyPhraseTable) Load(phrases []domain.KeyPhrase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.original = append([]domain.KeyPhrase(nil), phrases...)
	t.category = domain.CategoryAll
	t.sortLocked()
}

// SortBy reorders the full list. Sorting is stable over the loaded order, so
// ties never depend on earlier sorts.
func (t *KeyPhraseTable) SortBy(key domain.SortKey) error {
	switch key {
	case domain.SortByRelevance, domain.SortByFrequency, domain.SortByImportance, domain.SortByAlphabetical:
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("unknown sort key: %s", key), nil)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sortKey = key
	t.sortLocked()
	return nil
}

func (t *KeyPhraseTable) sortLocked() {
	t.phrases = append(t.phrases[:0:0], t.original...)
	var less func(a, b domain.KeyPhrase) bool
	switch t.sortKey {
	case domain.SortByFrequency:
		less = func(a, b domain.KeyPhrase) bool { return a.Frequency > b.Frequency }
	case domain.SortByImportance:
		less = func(a, b domain.KeyPhrase) bool { return a.Importance > b.Importance }
	case domain.SortByAlphabetical:
		less = func(a, b domain.KeyPhrase) bool { return a.Phrase < b.Phrase }
	default:
		less = func(a, b domain.KeyPhrase) bool { return a.RelevanceScore > b.RelevanceScore }
	}
	sort.SliceStable(t.phrases, func(i, j int) bool { return less(t.phrases[i], t.phrases[j]) })
}

// Filter limits Visible to one category. CategoryAll (or "") shows every entry.
func (t *KeyPhraseTable) Filter(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.CategoryAll
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.category = category
}

// SortKey returns the active sort key.
func (t *KeyPhraseTable) SortKey() domain.SortKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortKey
}

// Category returns the active filter.
func (t *KeyPhraseTable) Category() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.category
}

// Visible returns the sorted phrases that pass the filter.
func (t *KeyPhraseTable) Visible() []domain.KeyPhrase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.category == domain.CategoryAll {
		return append([]domain.KeyPhrase(nil), t.phrases...)
	}
	var out []domain.KeyPhrase
	for _, p := range t.phrases {
		if p.CategoryOrDefault() == t.category {
			out = append(out, p)
		}
	}
	return out
}

// All returns the full list in the current sort order.
func (t *KeyPhraseTable) All() []domain.KeyPhrase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.KeyPhrase(nil), t.phrases...)
}

// Categories lists distinct categories in first-seen order of the original
// phrase list.
func (t *KeyPhraseTable) Categories() []string {
	return distinctCategories(t.loaded())
}

func (t *KeyPhraseTable) loaded() []domain.KeyPhrase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.KeyPhrase(nil), t.original...)
}

func distinctCategories(phrases []domain.KeyPhrase) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range phrases {
		cat := p.CategoryOrDefault()
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// WriteCSV exports every phrase, ignoring the filter.
func (t *KeyPhraseTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(KeyPhraseCSVHeader); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for i, p := range t.All() {
		row := []string{
			strconv.Itoa(phraseRank(p, i)),
			p.Phrase,
			p.CategoryOrDefault(),
			p.PhraseType,
			strconv.FormatFloat(p.RelevanceScore, 'f', -1, 64),
			strconv.Itoa(p.Frequency),
			strconv.FormatFloat(p.Importance, 'f', -1, 64),
			strconv.FormatFloat(optional(p.TFIDFScore), 'f', -1, 64),
			strconv.FormatFloat(optional(p.PositionScore), 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	return nil
}

// WriteJSON exports every phrase as an indented JSON array.
func (t *KeyPhraseTable) WriteJSON(w io.Writer) error {
	phrases := t.All()
	if phrases == nil {
		phrases = []domain.KeyPhrase{}
	}
	return service.WriteJSON(w, phrases)
}

// Text renders every phrase as "N. phrase (category, 0.123 relevance)" lines.
func (t *KeyPhraseTable) Text() string {
	var b strings.Builder
	for i, p := range t.All() {
		fmt.Fprintf(&b, "%d. %s (%s, %.3f relevance)\n", i+1, p.Phrase, p.CategoryOrDefault(), p.RelevanceScore)
	}
	return b.String()
}

// Stats summarizes the full list as loaded.
func (t *KeyPhraseTable) Stats() domain.KeyPhraseStats {
	return PhraseStats(t.loaded())
}

// PhraseStats summarizes a phrase list in backend rank order. TopCategory is
// the category of the first phrase, "general" when the list is empty.
func PhraseStats(phrases []domain.KeyPhrase) domain.KeyPhraseStats {
	stats := domain.KeyPhraseStats{
		TotalPhrases: len(phrases),
		Categories:   len(distinctCategories(phrases)),
		TopCategory:  "general",
	}
	if len(phrases) == 0 {
		return stats
	}
	relevance := make([]float64, len(phrases))
	for i, p := range phrases {
		relevance[i] = p.RelevanceScore
		stats.TotalFrequency += p.Frequency
	}
	stats.MeanRelevance = stat.Mean(relevance, nil)
	stats.TopCategory = phrases[0].CategoryOrDefault()
	return stats
}

func phraseRank(p domain.KeyPhrase, index int) int {
	if p.Rank != nil {
		return *p.Rank
	}
	return index + 1
}

func optional(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
