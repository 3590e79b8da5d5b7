package app

import "github.com/ludo-technologies/textscope/domain"

// Event is a user action dispatched to the Application.
type Event interface {
	eventName() string
}

type (
	// ShowLogin opens the login form.
	ShowLogin struct{}
	// ShowRegister opens the registration form.
	ShowRegister struct{}
	// ShowLanding closes the auth forms.
	ShowLanding struct{}

	Login struct {
		Username string
		Password string
	}

	Register struct {
		Email    string
		Username string
		Password string
	}

	Logout struct{}

	// Submit analyzes Text. An empty Title becomes "Untitled Analysis".
	Submit struct {
		Text  string
		Title string
	}

	RefreshHistory struct{}

	// OpenAnalysis displays the analysis with ID, as listed in the history.
	OpenAnalysis struct{ ID int }

	// DeleteAnalysis removes the analysis with ID after confirmation.
	DeleteAnalysis struct{ ID int }

	SortPhrases struct{ Key domain.SortKey }

	FilterPhrases struct{ Category string }
)

func (ShowLogin) eventName() string      { return "show_login" }
func (ShowRegister) eventName() string   { return "show_register" }
func (ShowLanding) eventName() string    { return "show_landing" }
func (Login) eventName() string          { return "login" }
func (Register) eventName() string       { return "register" }
func (Logout) eventName() string         { return "logout" }
func (Submit) eventName() string         { return "submit" }
func (RefreshHistory) eventName() string { return "refresh_history" }
func (OpenAnalysis) eventName() string   { return "open_analysis" }
func (DeleteAnalysis) eventName() string { return "delete_analysis" }
func (SortPhrases) eventName() string    { return "sort_phrases" }
func (FilterPhrases) eventName() string  { return "filter_phrases" }
