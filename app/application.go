package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/format"
)

// UnexpectedErrorMessage is the notice shown when an event handler panics.
const UnexpectedErrorMessage = "An unexpected error occurred. Please try again."

// Application wires the client components together and is the single entry
// point for user actions.
type Application struct {
	session  *Session
	view     *ViewController
	analyses *AnalysisClient
	phrases  *KeyPhraseTable
	renderer *ResultRenderer
	mounts   domain.Mounts
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	notices      []domain.Notice
	phrasesOwner *domain.AnalysisResult
}

// Start restores a persisted session. A missing or rejected token leaves the
// application on the landing screen and is not an error.
func (a *Application) Start(ctx context.Context) error {
	if err := a.session.Restore(ctx); err != nil {
		if domain.IsSessionExpired(err) {
			a.logger.Info("stored session is no longer valid")
			return nil
		}
		return err
	}
	snap := a.session.Snapshot()
	a.logger.Debug("application started", "status", snap.Status, "user", describeUser(snap.User))
	return nil
}

// Dispatch handles one event. Failures are returned and also queued as
// notices; a panic is recovered into a generic notice.
func (a *Application) Dispatch(ctx context.Context, ev Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("event handler panicked", "event", ev.eventName(), "panic", rec)
			err = domain.NewDomainError(domain.ErrCodeUnknown, UnexpectedErrorMessage, fmt.Errorf("panic: %v", rec))
			a.pushNotice(domain.Notice{Level: domain.NoticeError, Message: UnexpectedErrorMessage, Code: domain.ErrCodeUnknown})
		}
	}()

	a.logger.Debug("dispatch", "event", ev.eventName())
	if err = a.handle(ctx, ev); err != nil {
		if domain.IsCode(err, domain.ErrCodeCancelled) {
			a.logger.Debug("event cancelled", "event", ev.eventName())
			return err
		}
		a.logger.Warn("event failed", "event", ev.eventName(), "error", err)
		a.pushNotice(domain.Notice{Level: domain.NoticeError, Message: noticeMessage(ev, err), Code: domain.ErrorCode(err)})
	}
	return err
}

func (a *Application) handle(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case ShowLogin:
		a.view.ShowLogin()
	case ShowRegister:
		a.view.ShowRegister()
	case ShowLanding:
		a.view.ShowLanding()
	case Login:
		return a.session.Login(ctx, e.Username, e.Password)
	case Register:
		if _, err := a.session.Register(ctx, e.Email, e.Username, e.Password); err != nil {
			return err
		}
		a.view.ShowLogin()
		a.pushNotice(domain.Notice{Level: domain.NoticeInfo, Message: "Registration successful! Please login."})
	case Logout:
		a.session.Logout(ctx)
	case Submit:
		_, err := a.analyses.Submit(ctx, e.Text, e.Title)
		return err
	case RefreshHistory:
		_, err := a.analyses.List(ctx)
		return err
	case OpenAnalysis:
		_, err := a.analyses.Open(ctx, e.ID)
		return err
	case DeleteAnalysis:
		return a.analyses.Remove(ctx, e.ID)
	case SortPhrases:
		a.syncPhrases()
		return a.phrases.SortBy(e.Key)
	case FilterPhrases:
		a.syncPhrases()
		a.phrases.Filter(e.Category)
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("unknown event: %T", ev), nil)
	}
	return nil
}

func noticeMessage(ev Event, err error) string {
	switch domain.ErrorCode(err) {
	case domain.ErrCodeInvalidCredentials:
		return "Login failed. Please check your credentials."
	case domain.ErrCodeRegistrationRejected:
		return "Registration failed: " + domain.UserMessage(err)
	case domain.ErrCodeSessionExpired:
		return "Your session has expired. Please log in again."
	case domain.ErrCodeEmptyInput:
		return "Please enter some text to analyze."
	}
	switch ev.(type) {
	case Submit:
		return "Analysis failed: " + domain.UserMessage(err)
	case DeleteAnalysis:
		if domain.IsCode(err, domain.ErrCodeRequestFailed) {
			return "Failed to delete analysis. Please try again."
		}
	}
	return format.Capitalize(domain.UserMessage(err))
}

func (a *Application) pushNotice(n domain.Notice) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notices = append(a.notices, n)
}

// Notices returns and clears the pending notices.
func (a *Application) Notices() []domain.Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notices
	a.notices = nil
	return out
}

// syncPhrases reloads the key-phrase table when the displayed analysis has
// changed since the last load.
func (a *Application) syncPhrases() {
	current := a.view.CurrentAnalysis()
	a.mu.Lock()
	defer a.mu.Unlock()
	if current == a.phrasesOwner {
		return
	}
	a.phrasesOwner = current
	if current == nil {
		a.phrases.Load(nil)
		return
	}
	a.phrases.Load(current.KeyPhrases)
}

// ViewTree renders the current screen.
func (a *Application) ViewTree() domain.ViewTree {
	a.syncPhrases()
	state := a.view.State()
	var history []domain.AnalysisHistoryEntry
	var user *domain.UserProfile
	if state.Screen == domain.ScreenDashboard {
		history = a.analyses.History()
		user = a.session.Snapshot().User
	}
	return a.renderer.RenderScreen(state, history, user, a.mounts, a.phrases)
}

// RenderResult renders the result sections of an arbitrary analysis with the
// configured mounts and default phrase ordering.
func (a *Application) RenderResult(result *domain.AnalysisResult) domain.ViewTree {
	return a.renderer.Render(result, a.mounts)
}

// ExportDashboard returns the export document for the displayed analysis.
func (a *Application) ExportDashboard() (*domain.DashboardExport, error) {
	current := a.view.CurrentAnalysis()
	if current == nil {
		return nil, domain.NewNotFoundError("no analysis is displayed")
	}
	return ExportFor(current, a.now()), nil
}

// ExportFor builds the export document for result.
func ExportFor(result *domain.AnalysisResult, at time.Time) *domain.DashboardExport {
	return &domain.DashboardExport{
		Title:     "TextScope Dashboard Export",
		Timestamp: at.UTC(),
		Data:      result,
	}
}

// ExportFileName is the download name of an export taken at at.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("textscope-analysis-%d.json", at.UnixMilli())
}

// Now returns the application clock.
func (a *Application) Now() time.Time {
	return a.now()
}

// TextStats counts characters and words of input text.
func (a *Application) TextStats(text string) domain.TextStats {
	return format.CountText(text)
}

// KeyPhrases returns the key-phrase table of the displayed analysis.
func (a *Application) KeyPhrases() *KeyPhraseTable {
	a.syncPhrases()
	return a.phrases
}

// Session returns the session component.
func (a *Application) Session() *Session {
	return a.session
}

// View returns the view controller.
func (a *Application) View() *ViewController {
	return a.view
}

// Analyses returns the analysis client.
func (a *Application) Analyses() *AnalysisClient {
	return a.analyses
}

// Mounts returns the configured section mounts.
func (a *Application) Mounts() domain.Mounts {
	return a.mounts
}

// ApplicationBuilder provides a builder pattern for creating an Application
type ApplicationBuilder struct {
	authAPI      domain.AuthAPI
	analysisAPI  domain.AnalysisAPI
	store        domain.TokenStore
	confirmer    domain.Confirmer
	logger       *slog.Logger
	historyLimit int
	mounts       domain.Mounts
	now          func() time.Time
}

// NewApplicationBuilder creates a new builder
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{}
}

// WithAuthAPI sets the authentication backend
func (b *ApplicationBuilder) WithAuthAPI(api domain.AuthAPI) *ApplicationBuilder {
	b.authAPI = api
	return b
}

// WithAnalysisAPI sets the analysis backend
func (b *ApplicationBuilder) WithAnalysisAPI(api domain.AnalysisAPI) *ApplicationBuilder {
	b.analysisAPI = api
	return b
}

// WithTokenStore sets where the bearer token is persisted
func (b *ApplicationBuilder) WithTokenStore(store domain.TokenStore) *ApplicationBuilder {
	b.store = store
	return b
}

// WithConfirmer sets the confirmation prompt used before deletion
func (b *ApplicationBuilder) WithConfirmer(confirmer domain.Confirmer) *ApplicationBuilder {
	b.confirmer = confirmer
	return b
}

// WithLogger sets the logger
func (b *ApplicationBuilder) WithLogger(logger *slog.Logger) *ApplicationBuilder {
	b.logger = logger
	return b
}

// WithHistoryLimit sets the history page size
func (b *ApplicationBuilder) WithHistoryLimit(limit int) *ApplicationBuilder {
	b.historyLimit = limit
	return b
}

// WithMounts sets which result sections are rendered
func (b *ApplicationBuilder) WithMounts(mounts domain.Mounts) *ApplicationBuilder {
	b.mounts = mounts
	return b
}

// WithClock sets the time source of exports
func (b *ApplicationBuilder) WithClock(now func() time.Time) *ApplicationBuilder {
	b.now = now
	return b
}

// Build creates the Application with the configured dependencies
func (b *ApplicationBuilder) Build() (*Application, error) {
	if b.authAPI == nil {
		return nil, fmt.Errorf("auth API is required")
	}
	if b.analysisAPI == nil {
		return nil, fmt.Errorf("analysis API is required")
	}
	if b.store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if b.historyLimit < 0 || b.historyLimit > domain.MaxHistoryLimit {
		return nil, fmt.Errorf("history limit must be between 1 and %d", domain.MaxHistoryLimit)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	mounts := b.mounts
	if mounts == nil {
		mounts = domain.AllMounts()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	session := NewSession(b.authAPI, b.store, logger.With("component", "session"))
	view := NewViewController(session, logger.With("component", "view"))
	analyses := NewAnalysisClient(b.analysisAPI, session, view, b.confirmer, b.historyLimit, logger.With("component", "analysis"))

	view.OnDashboard(func(ctx context.Context) error {
		_, err := analyses.List(ctx)
		return err
	})
	session.Subscribe(func(_ context.Context, snap domain.SessionSnapshot) {
		if snap.Status == domain.SessionAnonymous {
			analyses.Reset()
		}
	})

	return &Application{
		session:  session,
		view:     view,
		analyses: analyses,
		phrases:  NewKeyPhraseTable(),
		renderer: NewResultRenderer(logger.With("component", "renderer")),
		mounts:   mounts,
		logger:   logger,
		now:      now,
	}, nil
}

func describeUser(u *domain.UserProfile) string {
	if u == nil {
		return "anonymous"
	}
	return strings.TrimSpace(u.Username)
}
