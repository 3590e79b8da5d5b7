package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ludo-technologies/textscope/domain"
)

// DashboardHook runs each time the view enters the dashboard.
type DashboardHook func(ctx context.Context) error

// ViewController derives the visible screen from the session and the last
// navigation action, and holds the analysis currently on display.
type ViewController struct {
	session *Session
	logger  *slog.Logger

	mu          sync.Mutex
	authForm    domain.AuthForm
	current     *domain.AnalysisResult
	inDashboard bool
	onDashboard DashboardHook
}

// NewViewController creates a controller following session.
func NewViewController(session *Session, logger *slog.Logger) *ViewController {
	if logger == nil {
		logger = slog.Default()
	}
	v := &ViewController{session: session, logger: logger}
	session.Subscribe(v.onSessionChange)
	return v
}

// OnDashboard sets the hook run when the dashboard is entered.
func (v *ViewController) OnDashboard(hook DashboardHook) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onDashboard = hook
}

// State returns the current view state.
func (v *ViewController) State() domain.ViewState {
	authenticated := v.session.Snapshot().Authenticated()

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case authenticated:
		return domain.ViewState{Screen: domain.ScreenDashboard, CurrentAnalysis: v.current}
	case v.authForm != domain.AuthFormNone:
		return domain.ViewState{Screen: domain.ScreenAuth, AuthForm: v.authForm}
	default:
		return domain.ViewState{Screen: domain.ScreenLanding}
	}
}

// ShowLogin selects the login form.
func (v *ViewController) ShowLogin() {
	v.setForm(domain.AuthFormLogin)
}

// ShowRegister selects the registration form.
func (v *ViewController) ShowRegister() {
	v.setForm(domain.AuthFormRegister)
}

// ShowLanding hides the auth forms.
func (v *ViewController) ShowLanding() {
	v.setForm(domain.AuthFormNone)
}

func (v *ViewController) setForm(form domain.AuthForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.authForm = form
}

// SetCurrentAnalysis replaces what is displayed. nil clears it.
func (v *ViewController) SetCurrentAnalysis(result *domain.AnalysisResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = result
}

// CurrentAnalysis returns the displayed analysis, or nil.
func (v *ViewController) CurrentAnalysis() *domain.AnalysisResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// ClearCurrentIf clears the displayed analysis when it has the given id.
func (v *ViewController) ClearCurrentIf(id int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current != nil && v.current.ID == id {
		v.current = nil
		return true
	}
	return false
}

func (v *ViewController) onSessionChange(ctx context.Context, snap domain.SessionSnapshot) {
	v.mu.Lock()
	entering := snap.Authenticated() && !v.inDashboard
	leaving := !snap.Authenticated() && v.inDashboard && snap.Status == domain.SessionAnonymous
	hook := v.onDashboard
	if entering {
		v.inDashboard = true
		v.authForm = domain.AuthFormNone
	}
	if leaving {
		v.inDashboard = false
		v.current = nil
		v.authForm = domain.AuthFormNone
	}
	v.mu.Unlock()

	if leaving {
		v.logger.Debug("left dashboard")
	}
	if entering {
		v.logger.Debug("entered dashboard")
		if hook != nil {
			if err := hook(ctx); err != nil {
				v.logger.Warn("history reload failed", "error", err)
			}
		}
	}
}
