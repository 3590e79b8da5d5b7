package format

import (
	"fmt"
	"strings"
)

// CategoryProfile describes the audience and tone of a content category.
type CategoryProfile struct {
	Description string   `json:"description" yaml:"description"`
	Audience    string   `json:"audience" yaml:"audience"`
	Tone        string   `json:"tone" yaml:"tone"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

var categoryProfiles = map[string]CategoryProfile{
	"academic": {
		Description: "Scholarly and educational content",
		Audience:    "Students, researchers, academics",
		Tone:        "Formal and informative",
		Suggestions: []string{"Add more examples", "Include citations", "Consider peer review"},
	},
	"business": {
		Description: "Professional and commercial content",
		Audience:    "Business professionals, entrepreneurs",
		Tone:        "Professional and goal-oriented",
		Suggestions: []string{"Include metrics", "Add call-to-action", "Focus on ROI"},
	},
	"creative": {
		Description: "Artistic and imaginative content",
		Audience:    "Artists, writers, creative professionals",
		Tone:        "Expressive and inspiring",
		Suggestions: []string{"Enhance imagery", "Add emotional depth", "Include sensory details"},
	},
	"technical": {
		Description: "Specialized and detailed content",
		Audience:    "Engineers, developers, specialists",
		Tone:        "Precise and methodical",
		Suggestions: []string{"Add code examples", "Include diagrams", "Provide step-by-step guides"},
	},
	"casual": {
		Description: "Informal and conversational content",
		Audience:    "General public, friends, family",
		Tone:        "Relaxed and approachable",
		Suggestions: []string{"Use more contractions", "Add personal anecdotes", "Include humor"},
	},
}

var generalProfile = CategoryProfile{
	Description: "Mixed or general content",
	Audience:    "General audience",
	Tone:        "Varied",
	Suggestions: []string{"Consider your target audience", "Maintain consistency", "Clarify your purpose"},
}

// ProfileFor returns the profile of a primary category. The backend sends
// lower-case names, older payloads capitalized ones; both match.
func ProfileFor(category string) CategoryProfile {
	if p, ok := categoryProfiles[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return generalProfile
}

// WritingStyle summarizes how many categories the distribution spans.
func WritingStyle(primary string, categories int) string {
	name := strings.ToLower(primary)
	switch {
	case categories <= 1:
		return fmt.Sprintf("Highly focused %s writing style", name)
	case categories == 2:
		return fmt.Sprintf("Primarily %s with some variation", name)
	default:
		return "Diverse writing style spanning multiple categories"
	}
}

var languageNames = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"nl":    "Dutch",
	"ru":    "Russian",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"tr":    "Turkish",
	"pl":    "Polish",
	"sv":    "Swedish",
}

// LanguageName resolves an ISO code to a display name, falling back to the
// upper-cased code.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" || strings.EqualFold(code, "unknown") {
		return "Unknown"
	}
	return strings.ToUpper(code)
}
