package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/fakebackend"
)

type analysisFixture struct {
	session   *Session
	view      *ViewController
	client    *AnalysisClient
	api       *mockAnalysisAPI
	confirmer *mockConfirmer
}

func setupAnalysisClient(t *testing.T) *analysisFixture {
	t.Helper()
	session, view, _ := newAuthenticatedView(t)
	api := &mockAnalysisAPI{}
	confirmer := &mockConfirmer{}
	client := NewAnalysisClient(api, session, view, confirmer, 10, discardLogger())
	return &analysisFixture{session: session, view: view, client: client, api: api, confirmer: confirmer}
}

func sampleResults(ids ...int) []domain.AnalysisResult {
	out := make([]domain.AnalysisResult, len(ids))
	for i, id := range ids {
		out[i] = fakebackend.Sample(id, "Doc", "Some text. More text.")
	}
	return out
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("blank text makes no request", func(t *testing.T) {
		f := setupAnalysisClient(t)
		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := f.client.Submit(ctx, text, "title")
			assert.True(t, domain.IsCode(err, domain.ErrCodeEmptyInput))
		}
		f.api.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("result becomes current and history reloads", func(t *testing.T) {
		f := setupAnalysisClient(t)
		created := fakebackend.Sample(5, "Untitled Analysis", "Hello world.")
		f.api.On("Analyze", mock.Anything, "tok", domain.AnalysisRequest{Text: "Hello world.", Title: "Untitled Analysis"}).
			Return(&created, nil).Once()
		f.api.On("ListAnalyses", mock.Anything, "tok", domain.ListOptions{Limit: 10}).
			Return(sampleResults(5, 4), nil).Once()

		result, err := f.client.Submit(ctx, "Hello world.", "  ")
		require.NoError(t, err)
		assert.Equal(t, 5, result.ID)
		assert.Same(t, result, f.view.CurrentAnalysis())

		history := f.client.History()
		require.Len(t, history, 2)
		assert.Equal(t, 5, history[0].ID)
		f.api.AssertExpectations(t)
	})

	t.Run("failed reload does not fail the submission", func(t *testing.T) {
		f := setupAnalysisClient(t)
		created := fakebackend.Sample(5, "t", "x")
		f.api.On("Analyze", mock.Anything, "tok", mock.Anything).Return(&created, nil)
		f.api.On("ListAnalyses", mock.Anything, "tok", mock.Anything).Return(nil, domain.NewNetworkError(errors.New("reset")))

		_, err := f.client.Submit(ctx, "x", "t")
		assert.NoError(t, err)
		assert.NotNil(t, f.view.CurrentAnalysis())
	})

	t.Run("server detail is surfaced", func(t *testing.T) {
		f := setupAnalysisClient(t)
		f.api.On("Analyze", mock.Anything, "tok", mock.Anything).
			Return(nil, domain.NewRequestFailedError("Text cannot be empty", nil))

		_, err := f.client.Submit(ctx, "x", "t")
		assert.Equal(t, "Text cannot be empty", domain.UserMessage(err))
		assert.Nil(t, f.view.CurrentAnalysis())
		f.api.AssertNotCalled(t, "ListAnalyses", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("401 logs the session out", func(t *testing.T) {
		f := setupAnalysisClient(t)
		f.api.On("Analyze", mock.Anything, "tok", mock.Anything).Return(nil, domain.NewSessionExpiredError(nil))

		_, err := f.client.Submit(ctx, "x", "t")
		assert.True(t, domain.IsSessionExpired(err))
		assert.Equal(t, domain.SessionAnonymous, f.session.Snapshot().Status)
		assert.Equal(t, domain.ScreenLanding, f.view.State().Screen)
	})

	t.Run("no token short-circuits", func(t *testing.T) {
		f := setupAnalysisClient(t)
		f.session.Logout(ctx)

		_, err := f.client.Submit(ctx, "x", "t")
		assert.True(t, domain.IsSessionExpired(err))
		f.api.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListPage(t *testing.T) {
	ctx := context.Background()
	f := setupAnalysisClient(t)

	_, err := f.client.ListPage(ctx, domain.ListOptions{Skip: -1})
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))

	f.api.On("ListAnalyses", mock.Anything, "tok", domain.ListOptions{Skip: 20, Limit: domain.MaxHistoryLimit}).
		Return(sampleResults(3), nil).Once()
	entries, err := f.client.ListPage(ctx, domain.ListOptions{Skip: 20, Limit: 5000})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entry, ok := f.client.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, "Doc", entry.Title)
	_, ok = f.client.Lookup(99)
	assert.False(t, ok)

	f.client.Reset()
	assert.Empty(t, f.client.History())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	f := setupAnalysisClient(t)

	_, err := f.client.Open(ctx, 0)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))

	result := fakebackend.Sample(8, "Report", "text")
	f.api.On("GetAnalysis", mock.Anything, "tok", 8).Return(&result, nil)
	f.api.On("GetAnalysis", mock.Anything, "tok", 9).Return(nil, domain.NewRequestFailedError("Analysis not found", nil))

	opened, err := f.client.Open(ctx, 8)
	require.NoError(t, err)
	assert.Same(t, opened, f.view.CurrentAnalysis())

	_, err = f.client.Open(ctx, 9)
	assert.Equal(t, "Analysis not found", domain.UserMessage(err))
	assert.Equal(t, 8, f.view.CurrentAnalysis().ID, "a failed open keeps the displayed analysis")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	load := func(t *testing.T, f *analysisFixture) {
		f.api.On("ListAnalyses", mock.Anything, "tok", mock.Anything).Return(sampleResults(3, 2, 1), nil).Once()
		_, err := f.client.List(ctx)
		require.NoError(t, err)
	}

	t.Run("deleting the displayed analysis clears it", func(t *testing.T) {
		f := setupAnalysisClient(t)
		load(t, f)
		current := fakebackend.Sample(2, "Doc", "x")
		f.view.SetCurrentAnalysis(&current)
		f.confirmer.On("Confirm", mock.Anything, `Delete analysis "Doc"?`).Return(true, nil)
		f.api.On("DeleteAnalysis", mock.Anything, "tok", 2).Return(nil)

		require.NoError(t, f.client.Remove(ctx, 2))

		var ids []int
		for _, e := range f.client.History() {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []int{3, 1}, ids)
		assert.Nil(t, f.view.CurrentAnalysis())
	})

	t.Run("deleting another analysis keeps the display", func(t *testing.T) {
		f := setupAnalysisClient(t)
		load(t, f)
		current := fakebackend.Sample(2, "Doc", "x")
		f.view.SetCurrentAnalysis(&current)
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
		f.api.On("DeleteAnalysis", mock.Anything, "tok", 3).Return(nil)

		require.NoError(t, f.client.Remove(ctx, 3))
		assert.Len(t, f.client.History(), 2)
		assert.Equal(t, 2, f.view.CurrentAnalysis().ID)
	})

	t.Run("declined confirmation is a no-op", func(t *testing.T) {
		f := setupAnalysisClient(t)
		load(t, f)
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false, nil)

		err := f.client.Remove(ctx, 2)
		assert.True(t, domain.IsCode(err, domain.ErrCodeCancelled))
		assert.Len(t, f.client.History(), 3)
		f.api.AssertNotCalled(t, "DeleteAnalysis", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed delete keeps history", func(t *testing.T) {
		f := setupAnalysisClient(t)
		load(t, f)
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
		f.api.On("DeleteAnalysis", mock.Anything, "tok", 2).Return(domain.NewRequestFailedError("", nil))

		err := f.client.Remove(ctx, 2)
		assert.True(t, domain.IsCode(err, domain.ErrCodeRequestFailed))
		assert.Len(t, f.client.History(), 3)
	})

	t.Run("unknown id uses numeric prompt", func(t *testing.T) {
		f := setupAnalysisClient(t)
		f.confirmer.On("Confirm", mock.Anything, "Delete analysis 42?").Return(false, nil)

		err := f.client.Remove(ctx, 42)
		assert.True(t, domain.IsCode(err, domain.ErrCodeCancelled))
		f.confirmer.AssertExpectations(t)
	})
}
