package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/fakebackend"
	"github.com/ludo-technologies/textscope/service"
)

type fixture struct {
	backend *fakebackend.Backend
	app     *app.Application
	server  *Server
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := fakebackend.New(t)
	backend.AddUser("ada", "ada@example.com", "secret")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := service.NewAPIClient(backend.URL, service.WithAPILogger(logger))
	require.NoError(t, err)

	application, err := app.NewApplicationBuilder().
		WithAuthAPI(client).
		WithAnalysisAPI(client).
		WithTokenStore(service.NewMemoryTokenStore("")).
		WithConfirmer(domain.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })).
		WithLogger(logger).
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }).
		Build()
	require.NoError(t, err)
	require.NoError(t, application.Start(context.Background()))

	return &fixture{
		backend: backend,
		app:     application,
		server:  NewServer(application, Options{Logger: logger}),
	}
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) event(t *testing.T, payload map[string]interface{}) (*httptest.ResponseRecorder, eventResponse) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	rec := f.do(t, http.MethodPost, "/api/events", bytes.NewReader(data), "application/json")
	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func (f *fixture) form(t *testing.T, action string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, "/actions/"+action, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	rec, resp := f.event(t, map[string]interface{}{"type": "login", "username": "ada", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, resp.OK)
}

func TestHealth(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestPage_LandingShowsEntryForms(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `action="/actions/show-login"`)
	assert.Contains(t, body, `action="/actions/show-register"`)
	assert.NotContains(t, body, `action="/actions/submit"`)
}

func TestActions_FormLoginRedirectsToDashboard(t *testing.T) {
	f := setup(t)

	rec := f.form(t, "show-login", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, f.do(t, http.MethodGet, "/", nil, "").Body.String(), `action="/actions/login"`)

	rec = f.form(t, "login", url.Values{"username": {"ada"}, "password": {"secret"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := f.do(t, http.MethodGet, "/", nil, "").Body.String()
	assert.Contains(t, page, "Welcome, ada")
	assert.Contains(t, page, `action="/actions/submit"`)
}

func TestActions_FailedLoginShowsNoticeOnce(t *testing.T) {
	f := setup(t)

	f.form(t, "login", url.Values{"username": {"ada"}, "password": {"wrong"}})

	page := f.do(t, http.MethodGet, "/", nil, "").Body.String()
	assert.Contains(t, page, "Login failed. Please check your credentials.")
	assert.Contains(t, page, "notice-error")

	page = f.do(t, http.MethodGet, "/", nil, "").Body.String()
	assert.NotContains(t, page, "Login failed")
}

func TestActions_RejectsBadInput(t *testing.T) {
	f := setup(t)

	assert.Equal(t, http.StatusBadRequest, f.form(t, "open", url.Values{"id": {"abc"}}).Code)
	assert.Equal(t, http.StatusBadRequest, f.form(t, "explode", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.form(t, "delete", url.Values{"id": {"1"}}).Code)
}

func TestEvents_SubmitRendersResultAndExport(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec, resp := f.event(t, map[string]interface{}{
		"type":  "submit",
		"title": "Notes",
		"text":  "Machine learning helps. Data matters!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.OK)
	assert.Empty(t, resp.Notices)
	assert.Equal(t, domain.ScreenDashboard, resp.View.Screen)
	require.NotNil(t, resp.View.Section(domain.SectionSentiment))
	require.NotNil(t, resp.View.Section(domain.SectionHistory))

	export := f.do(t, http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Contains(t, export.Header().Get("Content-Disposition"), "textscope-analysis-1714564800000.json")

	var doc domain.DashboardExport
	require.NoError(t, json.Unmarshal(export.Body.Bytes(), &doc))
	assert.Equal(t, "TextScope Dashboard Export", doc.Title)
	require.NotNil(t, doc.Data)
	assert.Equal(t, "Notes", doc.Data.Title)

	var history struct {
		History []domain.AnalysisHistoryEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(f.do(t, http.MethodGet, "/api/history", nil, "").Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "Notes", history.History[0].Title)
}

func TestEvents_Errors(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantCode   string
		wantNotice string
	}{
		{
			name:       "bad credentials",
			payload:    map[string]interface{}{"type": "login", "username": "ada", "password": "nope"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   domain.ErrCodeInvalidCredentials,
			wantNotice: "Login failed. Please check your credentials.",
		},
		{
			name:       "duplicate registration",
			payload:    map[string]interface{}{"type": "register", "email": "x@example.com", "username": "ada", "password": "pw"},
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrCodeRegistrationRejected,
			wantNotice: "Registration failed: Username already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := f.event(t, tt.payload)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.OK)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			require.Len(t, resp.Notices, 1)
			assert.Equal(t, tt.wantNotice, resp.Notices[0].Message)
		})
	}
}

func TestEvents_MalformedRequests(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/events", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.ErrCodeInvalidInput)

	rec, _ = f.event(t, map[string]interface{}{"type": "sort", "key": "length"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhrases(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/phrases", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, resp := f.event(t, map[string]interface{}{"type": "submit", "text": "Machine learning helps."})
	require.True(t, resp.OK)

	_, resp = f.event(t, map[string]interface{}{"type": "sort", "key": "alphabetical"})
	require.True(t, resp.OK)
	_, resp = f.event(t, map[string]interface{}{"type": "filter", "category": "general"})
	require.True(t, resp.OK)

	var table phrasesResponse
	require.NoError(t, json.Unmarshal(f.do(t, http.MethodGet, "/api/phrases", nil, "").Body.Bytes(), &table))
	assert.Equal(t, domain.SortByAlphabetical, table.SortKey)
	assert.Equal(t, "general", table.Category)
	assert.Equal(t, []string{"technology", "general"}, table.Categories)
	require.Len(t, table.Phrases, 1)
	assert.Equal(t, "data", table.Phrases[0].Phrase)
	assert.Equal(t, 2, table.Stats.TotalPhrases)

	csvRec := f.do(t, http.MethodGet, "/api/phrases?format=csv", nil, "")
	require.Equal(t, http.StatusOK, csvRec.Code)
	assert.Equal(t, "text/csv", csvRec.Header().Get("Content-Type"))
	assert.Contains(t, csvRec.Header().Get("Content-Disposition"), app.KeyPhraseCSVFileName)
	assert.True(t, strings.HasPrefix(csvRec.Body.String(), "Rank,Phrase,Category,Type,Relevance Score,Frequency,Importance,TF-IDF,Position Score\n"))

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/phrases?format=xml", nil, "").Code)
}

func TestDeleteAnalysis(t *testing.T) {
	f := setup(t)
	f.login(t)
	_, resp := f.event(t, map[string]interface{}{"type": "submit", "text": "Short text."})
	require.True(t, resp.OK)

	rec := f.do(t, http.MethodDelete, "/api/analyses/1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.backend.Analyses("ada"), 1)

	rec = f.do(t, http.MethodDelete, "/api/analyses/1?confirm=true", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.backend.Analyses("ada"))
	assert.Empty(t, f.app.Analyses().History())
	assert.Nil(t, f.app.View().CurrentAnalysis())

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/export", nil, "").Code)
}

func TestStats(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodPost, "/api/stats", strings.NewReader(`{"text":"one two  three"}`), "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.TextStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, domain.TextStats{Characters: 14, Words: 3}, stats)
}

func TestCORSAllowsDashboardOrigin(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/view", nil)
	req.Header.Set("Origin", "http://"+domain.DefaultDashboardAddr)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://"+domain.DefaultDashboardAddr, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCrossOriginWritesRejected(t *testing.T) {
	f := setup(t)
	f.login(t)
	_, resp := f.event(t, map[string]interface{}{"type": "submit", "text": "Short text."})
	require.True(t, resp.OK)

	send := func(method, target string, body io.Reader, contentType string, header http.Header) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
		for k, v := range header {
			req.Header[k] = v
		}
		rec := httptest.NewRecorder()
		f.server.Handler().ServeHTTP(rec, req)
		return rec
	}
	deleteForm := url.Values{"id": {"1"}, "confirm": {"true"}}.Encode()

	tests := []struct {
		name   string
		header http.Header
	}{
		{"foreign origin", http.Header{"Origin": {"https://evil.example"}}},
		{"foreign referer", http.Header{"Referer": {"https://evil.example/page"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(http.MethodPost, "/actions/delete", strings.NewReader(deleteForm), "application/x-www-form-urlencoded", tt.header)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = send(http.MethodDelete, "/api/analyses/1?confirm=true", nil, "", tt.header)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
	assert.Len(t, f.backend.Analyses("ada"), 1)

	rec := send(http.MethodPost, "/api/events", strings.NewReader(`{"type":"logout"}`), "text/plain", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.True(t, f.app.Session().Snapshot().Authenticated())

	rec = send(http.MethodPost, "/actions/delete", strings.NewReader(deleteForm), "application/x-www-form-urlencoded",
		http.Header{"Origin": {"http://" + domain.DefaultDashboardAddr}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, f.backend.Analyses("ada"))
}

func TestRunStopsOnCancel(t *testing.T) {
	f := setup(t)
	srv := NewServer(f.app, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
