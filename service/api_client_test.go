package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/fakebackend"
)

func newTestClient(t *testing.T, baseURL string) *APIClient {
	t.Helper()
	client, err := NewAPIClient(baseURL)
	require.NoError(t, err)
	return client
}

func TestNewAPIClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://bad"} {
		_, err := NewAPIClient(raw)
		require.Error(t, err, raw)
		assert.True(t, domain.IsCode(err, domain.ErrCodeConfigError), raw)
	}
}

func TestAPIClient_Login(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddUser("ada", "ada@example.com", "secret")
	client := newTestClient(t, backend.URL)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		token, err := client.Login(ctx, "ada", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, "ada", "nope")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidCredentials))
	})
}

func TestAPIClient_Register(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddUser("ada", "ada@example.com", "secret")
	client := newTestClient(t, backend.URL)
	ctx := context.Background()

	user, err := client.Register(ctx, domain.Registration{Email: "bob@example.com", Username: "bob", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.True(t, user.IsActive)
	assert.False(t, user.CreatedAt.IsZero(), "zoneless created_at should decode")

	_, err = client.Register(ctx, domain.Registration{Email: "ada@example.com", Username: "ada2", Password: "pw"})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeRegistrationRejected))
	assert.Equal(t, "Email already registered", domain.UserMessage(err))

	_, err = client.Register(ctx, domain.Registration{Email: "not-an-email", Username: "carl", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "email: value is not a valid email address", domain.UserMessage(err))
}

func TestAPIClient_AnalysisLifecycle(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddUser("ada", "ada@example.com", "secret")
	token := backend.IssueToken("ada")
	client := newTestClient(t, backend.URL)
	ctx := context.Background()

	result, err := client.Analyze(ctx, token, domain.AnalysisRequest{Text: "Machine learning is great. Data helps.", Title: "ML"})
	require.NoError(t, err)
	assert.Equal(t, "ML", result.Title)
	assert.Equal(t, "high", string(result.LanguageConfidence))
	require.Len(t, result.ProfessionalScores, 4)
	assert.Equal(t, "clarity", result.ProfessionalScores[0].Name)

	second, err := client.Analyze(ctx, token, domain.AnalysisRequest{Text: "Another one.", Title: "Two"})
	require.NoError(t, err)

	list, err := client.ListAnalyses(ctx, token, domain.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	page, err := client.ListAnalyses(ctx, token, domain.ListOptions{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, result.ID, page[0].ID)

	got, err := client.GetAnalysis(ctx, token, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Text, got.Text)

	require.NoError(t, client.DeleteAnalysis(ctx, token, result.ID))

	_, err = client.GetAnalysis(ctx, token, result.ID)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeRequestFailed))
	assert.Equal(t, "Analysis not found", domain.UserMessage(err))
}

func TestAPIClient_UnauthorizedMapsToSessionExpired(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddUser("ada", "ada@example.com", "secret")
	token := backend.IssueToken("ada")
	client := newTestClient(t, backend.URL)
	ctx := context.Background()

	backend.ExpireSessions()

	_, err := client.Profile(ctx, token)
	assert.True(t, domain.IsSessionExpired(err))
	_, err = client.ListAnalyses(ctx, token, domain.ListOptions{})
	assert.True(t, domain.IsSessionExpired(err))
	_, err = client.Analyze(ctx, token, domain.AnalysisRequest{Text: "x"})
	assert.True(t, domain.IsSessionExpired(err))
	assert.True(t, domain.IsSessionExpired(client.DeleteAnalysis(ctx, token, 1)))
}

func TestAPIClient_ServerErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListAnalyses(context.Background(), "tok", domain.ListOptions{})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeRequestFailed))
	assert.Equal(t, domain.GenericRequestFailure, domain.UserMessage(err))
}

func TestAPIClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeRequestFailed))
	assert.Equal(t, domain.GenericRequestFailure, domain.UserMessage(err))
}

func TestAPIClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "not-a-number"`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetAnalysis(context.Background(), "tok", 1)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeParseFailure))
}

func TestAPIClient_RequestHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.AnalysisResult{})
	}))
	defer server.Close()

	client, err := NewAPIClient(server.URL+"/", WithUserAgent("textscope-test"))
	require.NoError(t, err)
	_, err = client.ListAnalyses(context.Background(), "tok", domain.ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", captured.Get("Authorization"))
	assert.Equal(t, "textscope-test", captured.Get("User-Agent"))
	assert.Equal(t, "application/json", captured.Get("Accept"))
	assert.NotEmpty(t, captured.Get("X-Request-ID"))
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Text too long"}`, "Text too long"},
		{"validation list", `{"detail":[{"loc":["body","text"],"msg":"field required"},{"loc":["query","limit"],"msg":"too big"}]}`, "text: field required; limit: too big"},
		{"body only location", `{"detail":[{"loc":["body"],"msg":"bad json"}]}`, "bad json"},
		{"no detail", `{"error":"x"}`, ""},
		{"not json", `oops`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDetail([]byte(tt.body)))
		})
	}
}
