package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ludo-technologies/textscope/domain"
)

// AnalysisClient issues analysis requests with the session token and owns the
// in-memory history.
type AnalysisClient struct {
	api       domain.AnalysisAPI
	session   *Session
	view      *ViewController
	confirmer domain.Confirmer
	limit     int
	logger    *slog.Logger

	mu      sync.Mutex
	history []domain.AnalysisHistoryEntry
}

// NewAnalysisClient creates a client. confirmer may be nil, in which case
// every removal is confirmed.
func NewAnalysisClient(
	api domain.AnalysisAPI,
	session *Session,
	view *ViewController,
	confirmer domain.Confirmer,
	historyLimit int,
	logger *slog.Logger,
) *AnalysisClient {
	if historyLimit <= 0 {
		historyLimit = domain.DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisClient{
		api:       api,
		session:   session,
		view:      view,
		confirmer: confirmer,
		limit:     historyLimit,
		logger:    logger,
	}
}

// Submit analyzes text, shows the result and reloads the history. A failed
// reload is logged and does not fail the submission.
func (c *AnalysisClient) Submit(ctx context.Context, text, title string) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewEmptyInputError()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultAnalysisTitle
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.api.Analyze(ctx, token, domain.AnalysisRequest{Text: text, Title: title})
	if err != nil {
		return nil, c.checkSession(ctx, err)
	}
	c.logger.Info("analysis created", "id", result.ID, "title", result.Title, "words", result.WordCount)
	c.view.SetCurrentAnalysis(result)

	if _, err := c.List(ctx); err != nil {
		c.logger.Warn("history reload after submit failed", "error", err)
	}
	return result, nil
}

// List fetches the first page of history and replaces the cached list.
func (c *AnalysisClient) List(ctx context.Context) ([]domain.AnalysisHistoryEntry, error) {
	return c.ListPage(ctx, domain.ListOptions{Limit: c.limit})
}

// ListPage fetches one page of history and replaces the cached list.
func (c *AnalysisClient) ListPage(ctx context.Context, opts domain.ListOptions) ([]domain.AnalysisHistoryEntry, error) {
	if opts.Skip < 0 {
		return nil, domain.NewInvalidInputError("skip cannot be negative", nil)
	}
	if opts.Limit <= 0 {
		opts.Limit = c.limit
	}
	if opts.Limit > domain.MaxHistoryLimit {
		opts.Limit = domain.MaxHistoryLimit
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	results, err := c.api.ListAnalyses(ctx, token, opts)
	if err != nil {
		return nil, c.checkSession(ctx, err)
	}

	entries := make([]domain.AnalysisHistoryEntry, len(results))
	for i := range results {
		entries[i] = results[i].Entry()
	}

	c.mu.Lock()
	c.history = entries
	c.mu.Unlock()

	c.logger.Debug("history loaded", "entries", len(entries), "skip", opts.Skip, "limit", opts.Limit)
	return c.History(), nil
}

// Get fetches one analysis.
func (c *AnalysisClient) Get(ctx context.Context, id int) (*domain.AnalysisResult, error) {
	if id <= 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid analysis id: %d", id), nil)
	}
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	result, err := c.api.GetAnalysis(ctx, token, id)
	if err != nil {
		return nil, c.checkSession(ctx, err)
	}
	return result, nil
}

// Open fetches an analysis and displays it.
func (c *AnalysisClient) Open(ctx context.Context, id int) (*domain.AnalysisResult, error) {
	result, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.view.SetCurrentAnalysis(result)
	return result, nil
}

// Remove deletes an analysis after confirmation. A declined confirmation
// returns ErrCodeCancelled without contacting the backend.
func (c *AnalysisClient) Remove(ctx context.Context, id int) error {
	if id <= 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("invalid analysis id: %d", id), nil)
	}
	if c.confirmer != nil {
		ok, err := c.confirmer.Confirm(ctx, c.confirmPrompt(id))
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewCancelledError("deletion cancelled")
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	if err := c.api.DeleteAnalysis(ctx, token, id); err != nil {
		return c.checkSession(ctx, err)
	}

	c.mu.Lock()
	kept := c.history[:0:0]
	for _, e := range c.history {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.history = kept
	c.mu.Unlock()

	if c.view.ClearCurrentIf(id) {
		c.logger.Debug("cleared displayed analysis", "id", id)
	}
	c.logger.Info("analysis deleted", "id", id)
	return nil
}

// History returns a copy of the cached history.
func (c *AnalysisClient) History() []domain.AnalysisHistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AnalysisHistoryEntry(nil), c.history...)
}

// Lookup finds a cached history entry by id.
func (c *AnalysisClient) Lookup(id int) (domain.AnalysisHistoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.history {
		if e.ID == id {
			return e, true
		}
	}
	return domain.AnalysisHistoryEntry{}, false
}

// Reset drops the cached history.
func (c *AnalysisClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

func (c *AnalysisClient) confirmPrompt(id int) string {
	if e, ok := c.Lookup(id); ok && e.Title != "" {
		return fmt.Sprintf("Delete analysis %q?", e.Title)
	}
	return fmt.Sprintf("Delete analysis %d?", id)
}

func (c *AnalysisClient) token(ctx context.Context) (string, error) {
	token := c.session.Token()
	if token == "" {
		c.session.HandleUnauthorized(ctx)
		return "", domain.NewSessionExpiredError(nil)
	}
	return token, nil
}

func (c *AnalysisClient) checkSession(ctx context.Context, err error) error {
	if domain.IsSessionExpired(err) {
		c.session.HandleUnauthorized(ctx)
	}
	return err
}
