package domain

import "strings"

// SortKey orders the key-phrase table.
type SortKey string

const (
	SortByRelevance    SortKey = "relevance"
	SortByFrequency    SortKey = "frequency"
	SortByImportance   SortKey = "importance"
	SortByAlphabetical SortKey = "alphabetical"
)

// SortKeys lists the sort keys in menu order.
var SortKeys = []SortKey{SortByRelevance, SortByFrequency, SortByImportance, SortByAlphabetical}

// CategoryAll is the filter value that shows every category.
const CategoryAll = "all"

// ParseSortKey validates a sort key name. An empty name selects relevance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByRelevance, SortByFrequency, SortByImportance, SortByAlphabetical:
		return k, nil
	case "":
		return SortByRelevance, nil
	default:
		return "", NewInvalidInputError("unknown sort key: "+s, nil)
	}
}

// KeyPhraseStats summarizes a key-phrase list.
type KeyPhraseStats struct {
	TotalPhrases   int     `json:"total_phrases" yaml:"total_phrases"`
	Categories     int     `json:"categories" yaml:"categories"`
	MeanRelevance  float64 `json:"mean_relevance" yaml:"mean_relevance"`
	TotalFrequency int     `json:"total_frequency" yaml:"total_frequency"`
	TopCategory    string  `json:"top_category" yaml:"top_category"`
}
