package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/domain"
)

func testPhrases() []domain.KeyPhrase {
	tfidf := 0.25
	rank := 7
	return []domain.KeyPhrase{
		{Phrase: "beta", Category: "technology", PhraseType: "compound", Frequency: 2, Importance: 90, RelevanceScore: 0.05},
		{Phrase: "Alpha", Category: "business", PhraseType: "single_word", Frequency: 9, Importance: 40, RelevanceScore: 0.2, TFIDFScore: &tfidf, Rank: &rank},
		{Phrase: "gamma", PhraseType: "named_entity", Frequency: 2, Importance: 60, RelevanceScore: 0.05},
		{Phrase: "delta", Category: "technology", PhraseType: "single_word", Frequency: 4, Importance: 10, RelevanceScore: 0.01},
	}
}

func phraseNames(list []domain.KeyPhrase) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Phrase
	}
	return out
}

func TestKeyPhraseTableSort(t *testing.T) {
	source := testPhrases()
	table := NewKeyPhraseTable()
	table.Load(source)

	assert.Equal(t, domain.SortByRelevance, table.SortKey())
	assert.Equal(t, []string{"Alpha", "beta", "gamma", "delta"}, phraseNames(table.All()))

	tests := []struct {
		key  domain.SortKey
		want []string
	}{
		{domain.SortByFrequency, []string{"Alpha", "delta", "beta", "gamma"}},
		{domain.SortByImportance, []string{"beta", "gamma", "Alpha", "delta"}},
		{domain.SortByAlphabetical, []string{"Alpha", "beta", "delta", "gamma"}},
		{domain.SortByRelevance, []string{"Alpha", "beta", "gamma", "delta"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			require.NoError(t, table.SortBy(tt.key))
			assert.Equal(t, tt.want, phraseNames(table.All()))
			require.NoError(t, table.SortBy(tt.key))
			assert.Equal(t, tt.want, phraseNames(table.All()), "sorting twice changes nothing")
		})
	}

	assert.Equal(t, "beta", source[0].Phrase, "caller slice is never reordered")
	assert.True(t, domain.IsCode(table.SortBy("length"), domain.ErrCodeInvalidInput))
}

func TestKeyPhraseTableSortIgnoresPreviousOrder(t *testing.T) {
	phrases := []domain.KeyPhrase{
		{Phrase: "a", RelevanceScore: 0.5, Frequency: 1},
		{Phrase: "b", RelevanceScore: 0.5, Frequency: 3},
		{Phrase: "c", RelevanceScore: 0.9, Frequency: 2},
	}
	fresh := NewKeyPhraseTable()
	fresh.Load(phrases)
	require.Equal(t, []string{"c", "a", "b"}, phraseNames(fresh.All()))

	table := NewKeyPhraseTable()
	table.Load(phrases)
	require.NoError(t, table.SortBy(domain.SortByFrequency))
	assert.Equal(t, []string{"b", "c", "a"}, phraseNames(table.All()))
	require.NoError(t, table.SortBy(domain.SortByRelevance))
	assert.Equal(t, phraseNames(fresh.All()), phraseNames(table.All()))
}

func TestKeyPhraseTableFilter(t *testing.T) {
	table := NewKeyPhraseTable()
	table.Load(testPhrases())

	assert.Equal(t, []string{"technology", "business", "general"}, table.Categories())

	table.Filter("technology")
	assert.Equal(t, []string{"beta", "delta"}, phraseNames(table.Visible()))

	table.Filter("general")
	assert.Equal(t, []string{"gamma"}, phraseNames(table.Visible()))

	table.Filter("legal")
	assert.Empty(t, table.Visible())

	table.Filter("")
	assert.Equal(t, domain.CategoryAll, table.Category())
	assert.Len(t, table.Visible(), 4)

	table.Filter("business")
	table.Load(testPhrases()[:1])
	assert.Equal(t, domain.CategoryAll, table.Category(), "loading resets the filter")
}

func TestKeyPhraseTableCSV(t *testing.T) {
	table := NewKeyPhraseTable()
	table.Load(testPhrases())
	table.Filter("technology")

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	want := "Rank,Phrase,Category,Type,Relevance Score,Frequency,Importance,TF-IDF,Position Score\n" +
		"7,Alpha,business,single_word,0.2,9,40,0.25,0\n" +
		"2,beta,technology,compound,0.05,2,90,0,0\n" +
		"3,gamma,general,named_entity,0.05,2,60,0,0\n" +
		"4,delta,technology,single_word,0.01,4,10,0,0\n"
	assert.Equal(t, want, buf.String(), "exports ignore the filter")
}

func TestKeyPhraseTableJSONAndText(t *testing.T) {
	table := NewKeyPhraseTable()

	var empty bytes.Buffer
	require.NoError(t, table.WriteJSON(&empty))
	assert.JSONEq(t, `[]`, empty.String())

	table.Load(testPhrases())
	require.NoError(t, table.SortBy(domain.SortByAlphabetical))

	var buf bytes.Buffer
	require.NoError(t, table.WriteJSON(&buf))
	var decoded []domain.KeyPhrase
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"Alpha", "beta", "delta", "gamma"}, phraseNames(decoded))

	assert.Equal(t,
		"1. Alpha (business, 0.200 relevance)\n"+
			"2. beta (technology, 0.050 relevance)\n"+
			"3. delta (technology, 0.010 relevance)\n"+
			"4. gamma (general, 0.050 relevance)\n",
		table.Text())
}

func TestPhraseStats(t *testing.T) {
	assert.Equal(t, domain.KeyPhraseStats{TopCategory: "general"}, PhraseStats(nil))

	table := NewKeyPhraseTable()
	table.Load(testPhrases())
	require.NoError(t, table.SortBy(domain.SortByFrequency))

	stats := table.Stats()
	assert.Equal(t, 4, stats.TotalPhrases)
	assert.Equal(t, 3, stats.Categories)
	assert.Equal(t, 17, stats.TotalFrequency)
	assert.InDelta(t, 0.0775, stats.MeanRelevance, 1e-9)
	assert.Equal(t, "technology", stats.TopCategory, "top category follows backend order, not the sort")
}
