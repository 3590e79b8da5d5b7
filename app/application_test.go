package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/fakebackend"
	"github.com/ludo-technologies/textscope/service"
)

type appFixture struct {
	app       *Application
	auth      *mockAuthAPI
	analyses  *mockAnalysisAPI
	confirmer *mockConfirmer
	store     *service.MemoryTokenStore
}

func setupApplication(t *testing.T, token string) *appFixture {
	t.Helper()
	f := &appFixture{
		auth:      &mockAuthAPI{},
		analyses:  &mockAnalysisAPI{},
		confirmer: &mockConfirmer{},
		store:     service.NewMemoryTokenStore(token),
	}
	app, err := NewApplicationBuilder().
		WithAuthAPI(f.auth).
		WithAnalysisAPI(f.analyses).
		WithTokenStore(f.store).
		WithConfirmer(f.confirmer).
		WithLogger(discardLogger()).
		WithHistoryLimit(10).
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }).
		Build()
	require.NoError(t, err)
	f.app = app
	return f
}

func TestApplicationBuilderValidation(t *testing.T) {
	_, err := NewApplicationBuilder().Build()
	assert.Error(t, err)

	_, err = NewApplicationBuilder().WithAuthAPI(&mockAuthAPI{}).WithAnalysisAPI(&mockAnalysisAPI{}).Build()
	assert.Error(t, err)

	_, err = NewApplicationBuilder().
		WithAuthAPI(&mockAuthAPI{}).
		WithAnalysisAPI(&mockAnalysisAPI{}).
		WithTokenStore(service.NewMemoryTokenStore("")).
		WithHistoryLimit(domain.MaxHistoryLimit + 1).
		Build()
	assert.Error(t, err)
}

func TestApplicationStartWithStoredToken(t *testing.T) {
	f := setupApplication(t, "tok")
	f.auth.On("Profile", mock.Anything, "tok").Return(testUser, nil)
	f.analyses.On("ListAnalyses", mock.Anything, "tok", domain.ListOptions{Limit: 10}).Return(sampleResults(2, 1), nil).Once()

	require.NoError(t, f.app.Start(context.Background()))

	tree := f.app.ViewTree()
	assert.Equal(t, domain.ScreenDashboard, tree.Screen)
	history := tree.Section(domain.SectionHistory)
	require.NotNil(t, history)
	assert.Len(t, history.Blocks[0].Items, 2)
	f.analyses.AssertExpectations(t)
}

func TestApplicationStartWithStaleToken(t *testing.T) {
	f := setupApplication(t, "stale")
	f.auth.On("Profile", mock.Anything, "stale").Return(nil, domain.NewSessionExpiredError(nil))

	require.NoError(t, f.app.Start(context.Background()))
	assert.Equal(t, domain.ScreenLanding, f.app.ViewTree().Screen)
	stored, _ := f.store.Load()
	assert.Empty(t, stored)
}

func TestApplicationLoginFlow(t *testing.T) {
	ctx := context.Background()
	f := setupApplication(t, "")
	require.NoError(t, f.app.Start(ctx))

	require.NoError(t, f.app.Dispatch(ctx, ShowLogin{}))
	assert.Equal(t, domain.ScreenAuth, f.app.ViewTree().Screen)

	f.auth.On("Login", mock.Anything, "ada", "wrong").Return(nil, domain.NewInvalidCredentialsError(nil))
	err := f.app.Dispatch(ctx, Login{Username: "ada", Password: "wrong"})
	assert.Error(t, err)
	notices := f.app.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Login failed. Please check your credentials.", notices[0].Message)
	assert.Empty(t, f.app.Notices(), "notices are drained")

	f.auth.On("Login", mock.Anything, "ada", "secret").Return(&domain.TokenResponse{AccessToken: "tok"}, nil)
	f.auth.On("Profile", mock.Anything, "tok").Return(testUser, nil)
	f.analyses.On("ListAnalyses", mock.Anything, "tok", mock.Anything).Return([]domain.AnalysisResult{}, nil)

	require.NoError(t, f.app.Dispatch(ctx, Login{Username: "ada", Password: "secret"}))
	tree := f.app.ViewTree()
	assert.Equal(t, domain.ScreenDashboard, tree.Screen)
	assert.Equal(t, "Welcome, ada", tree.Title)

	require.NoError(t, f.app.Dispatch(ctx, Logout{}))
	assert.Equal(t, domain.ScreenLanding, f.app.ViewTree().Screen)
	assert.Empty(t, f.app.Analyses().History())
}

func TestApplicationRegister(t *testing.T) {
	ctx := context.Background()
	f := setupApplication(t, "")
	f.auth.On("Register", mock.Anything, mock.MatchedBy(func(r domain.Registration) bool { return r.Username == "ada" })).
		Return(testUser, nil)
	f.auth.On("Register", mock.Anything, mock.MatchedBy(func(r domain.Registration) bool { return r.Username == "bob" })).
		Return(nil, domain.NewRegistrationRejectedError("Email already registered", nil))

	require.NoError(t, f.app.Dispatch(ctx, ShowRegister{}))
	require.NoError(t, f.app.Dispatch(ctx, Register{Email: "ada@example.com", Username: "ada", Password: "pw"}))

	state := f.app.View().State()
	assert.Equal(t, domain.AuthFormLogin, state.AuthForm)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeInfo, Message: "Registration successful! Please login."}}, f.app.Notices())

	require.Error(t, f.app.Dispatch(ctx, Register{Email: "ada@example.com", Username: "bob", Password: "pw"}))
	notices := f.app.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Registration failed: Email already registered", notices[0].Message)
	assert.Equal(t, domain.ErrCodeRegistrationRejected, notices[0].Code)
}

func loggedIn(t *testing.T) *appFixture {
	t.Helper()
	f := setupApplication(t, "tok")
	f.auth.On("Profile", mock.Anything, "tok").Return(testUser, nil)
	f.analyses.On("ListAnalyses", mock.Anything, "tok", mock.Anything).Return(sampleResults(1), nil)
	require.NoError(t, f.app.Start(context.Background()))
	return f
}

func TestApplicationSubmitAndPhrases(t *testing.T) {
	ctx := context.Background()
	f := loggedIn(t)

	require.Error(t, f.app.Dispatch(ctx, Submit{Text: "   "}))
	assert.Equal(t, "Please enter some text to analyze.", f.app.Notices()[0].Message)

	created := fakebackend.Sample(2, "Notes", "Machine learning and data.")
	f.analyses.On("Analyze", mock.Anything, "tok", domain.AnalysisRequest{Text: "Machine learning and data.", Title: "Notes"}).
		Return(&created, nil)
	require.NoError(t, f.app.Dispatch(ctx, Submit{Text: "Machine learning and data.", Title: "Notes"}))

	tree := f.app.ViewTree()
	assert.Equal(t, domain.SectionHistory, tree.Sections[0].ID)
	require.NotNil(t, tree.Section(domain.SectionSentiment))

	require.NoError(t, f.app.Dispatch(ctx, SortPhrases{Key: domain.SortByFrequency}))
	require.NoError(t, f.app.Dispatch(ctx, FilterPhrases{Category: "general"}))
	visible := f.app.KeyPhrases().Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "data", visible[0].Phrase)

	require.Error(t, f.app.Dispatch(ctx, SortPhrases{Key: "random"}))
	assert.Equal(t, domain.ErrCodeInvalidInput, f.app.Notices()[0].Code)

	export, err := f.app.ExportDashboard()
	require.NoError(t, err)
	assert.Equal(t, "TextScope Dashboard Export", export.Title)
	assert.Equal(t, 2, export.Data.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), export.Timestamp)
}

func TestApplicationSubmitFailureNotice(t *testing.T) {
	ctx := context.Background()
	f := loggedIn(t)
	f.analyses.On("Analyze", mock.Anything, "tok", mock.Anything).Return(nil, domain.NewRequestFailedError("", nil))

	require.Error(t, f.app.Dispatch(ctx, Submit{Text: "hello"}))
	assert.Equal(t, "Analysis failed: "+domain.GenericRequestFailure, f.app.Notices()[0].Message)
}

func TestApplicationDeleteFlow(t *testing.T) {
	ctx := context.Background()
	f := loggedIn(t)

	opened := fakebackend.Sample(1, "Doc", "x")
	f.analyses.On("GetAnalysis", mock.Anything, "tok", 1).Return(&opened, nil)
	require.NoError(t, f.app.Dispatch(ctx, OpenAnalysis{ID: 1}))
	_, err := f.app.ExportDashboard()
	require.NoError(t, err)

	f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false, nil).Once()
	err = f.app.Dispatch(ctx, DeleteAnalysis{ID: 1})
	assert.True(t, domain.IsCode(err, domain.ErrCodeCancelled))
	assert.Empty(t, f.app.Notices(), "a declined confirmation is silent")

	f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.analyses.On("DeleteAnalysis", mock.Anything, "tok", 1).Return(nil)
	require.NoError(t, f.app.Dispatch(ctx, DeleteAnalysis{ID: 1}))

	_, err = f.app.ExportDashboard()
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	tree := f.app.ViewTree()
	assert.Len(t, tree.Sections, 1)
	assert.Equal(t, "No analyses yet. Submit some text to get started.", tree.Sections[0].Blocks[0].Value)
}

func TestApplicationSessionExpiryReturnsToLanding(t *testing.T) {
	ctx := context.Background()
	f := loggedIn(t)
	f.analyses.On("GetAnalysis", mock.Anything, "tok", 5).Return(nil, domain.NewSessionExpiredError(nil))

	require.Error(t, f.app.Dispatch(ctx, OpenAnalysis{ID: 5}))
	assert.Equal(t, "Your session has expired. Please log in again.", f.app.Notices()[0].Message)
	assert.Equal(t, domain.ScreenLanding, f.app.ViewTree().Screen)
}

func TestApplicationRecoversFromPanic(t *testing.T) {
	ctx := context.Background()
	f := loggedIn(t)
	f.confirmer.On("Confirm", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("nil map write")
	})

	err := f.app.Dispatch(ctx, DeleteAnalysis{ID: 1})
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknown))
	notices := f.app.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, UnexpectedErrorMessage, notices[0].Message)
	assert.Len(t, f.app.Analyses().History(), 1)
}

func TestApplicationTextStats(t *testing.T) {
	f := setupApplication(t, "")
	stats := f.app.TextStats("héllo  wide world")
	assert.Equal(t, domain.TextStats{Characters: 17, Words: 3}, stats)
}
