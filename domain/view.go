package domain

import "strings"

// Screen is the top-level panel being shown.
type Screen string

const (
	ScreenLanding   Screen = "landing"
	ScreenAuth      Screen = "auth"
	ScreenDashboard Screen = "dashboard"
)

// AuthForm selects which form is visible on the auth screen.
type AuthForm string

const (
	AuthFormNone     AuthForm = ""
	AuthFormLogin    AuthForm = "login"
	AuthFormRegister AuthForm = "register"
)

// ViewState is derived from the session and the last navigation action.
type ViewState struct {
	Screen          Screen
	AuthForm        AuthForm
	CurrentAnalysis *AnalysisResult
}

// SectionID names a region of the dashboard a section renders into.
type SectionID string

const (
	SectionSentiment   SectionID = "sentiment"
	SectionReadability SectionID = "readability"
	SectionKeyPhrases  SectionID = "key_phrases"
	SectionEntities    SectionID = "entities"
	SectionLanguage    SectionID = "language"
	SectionCategory    SectionID = "category"
	SectionSummary     SectionID = "summary"
	SectionInsights    SectionID = "insights"

	SectionHistory  SectionID = "history"
	SectionAuthForm SectionID = "auth_form"
	SectionWelcome  SectionID = "welcome"
)

// ResultSections lists the analysis sections in display order.
var ResultSections = []SectionID{
	SectionSentiment,
	SectionReadability,
	SectionKeyPhrases,
	SectionEntities,
	SectionLanguage,
	SectionCategory,
	SectionSummary,
	SectionInsights,
}

// Mounts is the set of regions present in the target view.
type Mounts map[SectionID]bool

// AllMounts returns a Mounts value with every result section present.
func AllMounts() Mounts {
	m := make(Mounts, len(ResultSections))
	for _, id := range ResultSections {
		m[id] = true
	}
	return m
}

// ParseMounts builds Mounts from names like "sentiment,key_phrases".
func ParseMounts(names []string) (Mounts, error) {
	if len(names) == 0 {
		return AllMounts(), nil
	}
	m := make(Mounts, len(names))
	for _, raw := range names {
		name := SectionID(strings.TrimSpace(strings.ToLower(raw)))
		if name == "" {
			continue
		}
		if !isResultSection(name) {
			return nil, NewInvalidInputError("unknown section: "+raw, nil)
		}
		m[name] = true
	}
	return m, nil
}

// Has reports whether the section's region is present.
func (m Mounts) Has(id SectionID) bool {
	return m[id]
}

func isResultSection(id SectionID) bool {
	for _, s := range ResultSections {
		if s == id {
			return true
		}
	}
	return false
}

// BlockKind identifies how a block is drawn.
type BlockKind string

const (
	BlockGauge    BlockKind = "gauge"
	BlockBar      BlockKind = "bar"
	BlockBadge    BlockKind = "badge"
	BlockTags     BlockKind = "tags"
	BlockTable    BlockKind = "table"
	BlockKeyValue BlockKind = "key_value"
	BlockList     BlockKind = "list"
	BlockText     BlockKind = "text"
)

// ViewTree is the toolkit-independent description of a screen.
type ViewTree struct {
	Screen   Screen    `json:"screen" yaml:"screen"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section returns the section with the given id, or nil.
func (t ViewTree) Section(id SectionID) *Section {
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return &t.Sections[i]
		}
	}
	return nil
}

// Section is one independently rendered region.
type Section struct {
	ID     SectionID `json:"id" yaml:"id"`
	Title  string    `json:"title" yaml:"title"`
	Blocks []Block   `json:"blocks" yaml:"blocks"`
}

// Block is a single visual element. Only the fields relevant to Kind are set.
type Block struct {
	Kind    BlockKind `json:"kind" yaml:"kind"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Value   string    `json:"value,omitempty" yaml:"value,omitempty"`
	Detail  string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Percent float64   `json:"percent,omitempty" yaml:"percent,omitempty"`
	Color   string    `json:"color,omitempty" yaml:"color,omitempty"`
	Items   []Item    `json:"items,omitempty" yaml:"items,omitempty"`
	Table   *Table    `json:"table,omitempty" yaml:"table,omitempty"`
}

// Item is an entry of a tags, list or key-value block.
type Item struct {
	Label   string `json:"label" yaml:"label"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Primary bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Ref     int    `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Table is a simple column/row grid.
type Table struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Insight is a qualitative observation derived from an analysis.
type Insight struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Color       string `json:"color" yaml:"color"`
}

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message shown to the user after an operation.
type Notice struct {
	Level   NoticeLevel `json:"level" yaml:"level"`
	Message string      `json:"message" yaml:"message"`
	Code    string      `json:"code,omitempty" yaml:"code,omitempty"`
}
