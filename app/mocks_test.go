package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/ludo-technologies/textscope/domain"
)

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenResponse), args.Error(1)
}

func (m *mockAuthAPI) Register(ctx context.Context, reg domain.Registration) (*domain.UserProfile, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *mockAuthAPI) Profile(ctx context.Context, token string) (*domain.UserProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

type mockAnalysisAPI struct {
	mock.Mock
}

func (m *mockAnalysisAPI) Analyze(ctx context.Context, token string, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *mockAnalysisAPI) ListAnalyses(ctx context.Context, token string, opts domain.ListOptions) ([]domain.AnalysisResult, error) {
	args := m.Called(ctx, token, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalysisResult), args.Error(1)
}

func (m *mockAnalysisAPI) GetAnalysis(ctx context.Context, token string, id int) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *mockAnalysisAPI) DeleteAnalysis(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Load() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockTokenStore) Save(token string) error {
	return m.Called(token).Error(0)
}

func (m *mockTokenStore) Clear() error {
	return m.Called().Error(0)
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testUser = &domain.UserProfile{ID: 1, Email: "ada@example.com", Username: "ada", IsActive: true}
