// Package fakebackend is an in-memory stand-in for the TextScope REST backend,
// served over httptest for client and end-to-end tests.
package fakebackend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ludo-technologies/textscope/domain"
)

var signingKey = []byte("fakebackend-secret")

type account struct {
	profile  domain.UserProfile
	password string
}

// Backend is a running fake server.
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account
	revoked   map[string]bool
	analyses  map[string][]domain.AnalysisResult
	nextUser  int
	nextID    int
	calls     map[string]int
	failNext  map[string]int
	now       func() time.Time
	expireAll bool
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := NewUnstarted()
	b.Start()
	t.Cleanup(b.Close)
	return b
}

// NewUnstarted builds a backend whose server has not been started.
func NewUnstarted() *Backend {
	b := &Backend{
		accounts: make(map[string]*account),
		revoked:  make(map[string]bool),
		analyses: make(map[string][]domain.AnalysisResult),
		calls:    make(map[string]int),
		failNext: make(map[string]int),
		nextUser: 1,
		nextID:   1,
		now:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	b.Server = httptest.NewUnstartedServer(b.routes())
	return b
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.count)

	r.Post("/token", b.handleToken)
	r.Post("/users/", b.handleRegister)
	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/users/me/", b.handleMe)
		r.Post("/analyze/", b.handleAnalyze)
		r.Get("/analyses/", b.handleList)
		r.Get("/analyses/{id}", b.handleGet)
		r.Delete("/analyses/{id}", b.handleDelete)
	})
	return r
}

// AddUser registers an account directly.
func (b *Backend) AddUser(username, email, password string) domain.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password)
}

func (b *Backend) addUserLocked(username, email, password string) domain.UserProfile {
	profile := domain.UserProfile{
		ID:        b.nextUser,
		Email:     email,
		Username:  username,
		IsActive:  true,
		CreatedAt: domain.Timestamp{Time: b.now()},
	}
	b.nextUser++
	b.accounts[username] = &account{profile: profile, password: password}
	return profile
}

// IssueToken returns a valid bearer token for username.
func (b *Backend) IssueToken(username string) string {
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

// Seed stores a finished analysis for username and returns it with its id set.
func (b *Backend) Seed(username, title, text string) domain.AnalysisResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storeLocked(username, title, text)
}

// ExpireSessions makes every subsequent authenticated call return 401.
func (b *Backend) ExpireSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireAll = true
}

// FailNext makes the next n requests matching "METHOD /path" return 500.
func (b *Backend) FailNext(route string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[route] = n
}

// Calls returns how many requests hit "METHOD /path" (the route pattern, e.g.
// "GET /analyses/{id}").
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls returns the number of requests served.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// Analyses returns a copy of the analyses stored for username, newest first.
func (b *Backend) Analyses(username string) []domain.AnalysisResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.AnalysisResult(nil), b.analyses[username]...)
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + routeKey(r.URL.Path)
		b.mu.Lock()
		b.calls[key]++
		fail := b.failNext[key] > 0
		if fail {
			b.failNext[key]--
		}
		b.mu.Unlock()
		if fail {
			writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(path string) string {
	if strings.HasPrefix(path, "/analyses/") && path != "/analyses/" {
		return "/analyses/{id}"
	}
	return path
}

type ctxUser struct{}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		b.mu.Lock()
		acct := b.accounts[claims.Subject]
		expired := b.expireAll || b.revoked[raw]
		b.mu.Unlock()

		if err != nil || acct == nil || expired {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, claims.Subject)))
	})
}

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	b.mu.Lock()
	acct := b.accounts[username]
	b.mu.Unlock()
	if acct == nil || acct.password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, domain.TokenResponse{AccessToken: b.IssueToken(username), TokenType: "bearer"})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if !strings.Contains(reg.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]interface{}{
				{"loc": []string{"body", "email"}, "msg": "value is not a valid email address", "type": "value_error"},
			},
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[reg.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	for _, acct := range b.accounts {
		if acct.profile.Email == reg.Email {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	profile := b.addUserLocked(reg.Username, reg.Email, reg.Password)
	writeJSON(w, http.StatusOK, zonelessUser(profile))
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	acct := b.accounts[userFrom(r)]
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, zonelessUser(acct.profile))
}

func (b *Backend) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeDetail(w, http.StatusBadRequest, "Text cannot be empty")
		return
	}
	b.mu.Lock()
	result := b.storeLocked(userFrom(r), req.Title, req.Text)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, result)
}

func (b *Backend) handleList(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit := domain.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	b.mu.Lock()
	all := b.analyses[userFrom(r)]
	b.mu.Unlock()

	page := []domain.AnalysisResult{}
	if skip < len(all) {
		end := skip + limit
		if end > len(all) {
			end = len(all)
		}
		page = append(page, all[skip:end]...)
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.analyses[userFrom(r)] {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Analysis not found")
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	username := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.analyses[username]
	for i, a := range list {
		if a.ID == id {
			b.analyses[username] = append(list[:i:i], list[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Analysis deleted successfully"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Analysis not found")
}

func (b *Backend) storeLocked(username, title, text string) domain.AnalysisResult {
	if title == "" {
		title = domain.DefaultAnalysisTitle
	}
	result := Sample(b.nextID, title, text)
	result.CreatedAt = domain.Timestamp{Time: b.now().Add(time.Duration(b.nextID) * time.Minute)}
	if acct := b.accounts[username]; acct != nil {
		result.UserID = acct.profile.ID
	}
	b.nextID++
	list := append([]domain.AnalysisResult{result}, b.analyses[username]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt.Time) })
	b.analyses[username] = list
	return result
}

// Sample returns a deterministic analysis of text.
func Sample(id int, title, text string) domain.AnalysisResult {
	words := len(strings.Fields(text))
	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		sentences = 1
	}
	rank1, rank2 := 1, 2
	tfidf := 0.42
	return domain.AnalysisResult{
		ID:                  id,
		Title:               title,
		Text:                text,
		Sentiment:           "positive",
		Polarity:            0.45,
		Subjectivity:        0.55,
		SentimentConfidence: 0.85,
		Tone:                "optimistic",
		ProfessionalMetrics: domain.ProfessionalMetrics{
			PassiveVoiceCount: 1,
			LongSentences:     0,
			ComplexWords:      3,
			RepetitiveWords:   6,
			ClarityScore:      82.5,
		},
		FleschScore:       65.2,
		AvgSentenceLength: float64(words) / float64(sentences),
		WordCount:         words,
		SentenceCount:     sentences,
		SyllableCount:     words * 3 / 2,
		DifficultyLevel:   "Standard",
		ProfessionalScores: domain.OrderedScores{
			{Name: "clarity", Score: 82.5},
			{Name: "conciseness", Score: 74},
			{Name: "objectivity", Score: 45},
			{Name: "vocabulary_diversity", Score: 68.3},
		},
		WritingImprovements: []string{"Consider varying sentence length."},
		KeyPhrases: []domain.KeyPhrase{
			{Phrase: "machine learning", Category: "technology", PhraseType: "compound", Frequency: 3, Importance: 85, RelevanceScore: 0.12, TFIDFScore: &tfidf, Rank: &rank1},
			{Phrase: "data", Category: "general", PhraseType: "single_word", Frequency: 5, Importance: 55, RelevanceScore: 0.06, Rank: &rank2},
		},
		NamedEntities:      map[string][]string{"ORG": {"Acme"}, "PERSON": {"Ada Lovelace"}},
		LanguageCode:       "en",
		LanguageConfidence: "high",
		ContentCategory:    "technology",
		CategoryConfidence: 0.78,
		CategoryDistribution: domain.OrderedScores{
			{Name: "technology", Score: 0.78},
			{Name: "business", Score: 0.15},
			{Name: "general", Score: 0.07},
		},
		Summary: firstSentence(text),
	}
}

func firstSentence(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return strings.TrimSpace(text[:i+1])
	}
	return strings.TrimSpace(text)
}

// zonelessUser mimics the backend's naive datetime serialization.
func zonelessUser(p domain.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID,
		"email":      p.Email,
		"username":   p.Username,
		"is_active":  p.IsActive,
		"created_at": p.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000"),
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("fakebackend: encode response: %v", err))
	}
}

// Revoke invalidates one token.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

func withUser(r *http.Request, username string) context.Context {
	return context.WithValue(r.Context(), ctxUser{}, username)
}

func userFrom(r *http.Request) string {
	username, _ := r.Context().Value(ctxUser{}).(string)
	return username
}
