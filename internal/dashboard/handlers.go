package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/version"
	"github.com/ludo-technologies/textscope/service"
)

const maxBodyBytes = 1 << 20

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type eventResponse struct {
	OK      bool            `json:"ok"`
	Error   *apiError       `json:"error,omitempty"`
	View    domain.ViewTree `json:"view"`
	Notices []domain.Notice `json:"notices"`
}

type phrasesResponse struct {
	SortKey    domain.SortKey        `json:"sort_key"`
	Category   string                `json:"category"`
	Categories []string              `json:"categories"`
	Stats      domain.KeyPhraseStats `json:"stats"`
	Phrases    []domain.KeyPhrase    `json:"phrases"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Short()})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	tree := s.app.ViewTree()
	state := s.app.View().State()
	controls := service.PageControls{
		Notices:   s.app.Notices(),
		AuthForm:  state.AuthForm,
		HasResult: state.CurrentAnalysis != nil,
		SortKeys:  domain.SortKeys,
		SortKey:   s.app.KeyPhrases().SortKey(),
	}

	var buf bytes.Buffer
	if err := s.html.RenderServed(&buf, tree, controls); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleAction runs a form post and redirects back to the page, where the
// outcome shows up as a notice.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := formEvent(chi.URLParam(r, "action"), r)
	if err != nil {
		http.Error(w, domain.UserMessage(err), http.StatusBadRequest)
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		http.Error(w, domain.UserMessage(err), http.StatusBadRequest)
		return
	}
	_ = s.app.Dispatch(r.Context(), ev)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.ViewTree())
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, nonNilNotices(s.app.Notices()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.app.Analyses().History()
	if entries == nil {
		entries = []domain.AnalysisHistoryEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, domain.NewInvalidInputError("malformed event body", err))
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	resp := eventResponse{OK: true}
	if err := s.app.Dispatch(r.Context(), ev); err != nil {
		resp.OK = false
		resp.Error = &apiError{Code: domain.ErrorCode(err), Message: domain.UserMessage(err)}
		status = statusFor(err)
	}
	resp.View = s.app.ViewTree()
	resp.Notices = nonNilNotices(s.app.Notices())
	respondJSON(w, status, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.app.ExportDashboard()
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.ExportFileName(export.Timestamp)))
	respondJSON(w, http.StatusOK, export)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		respondError(w, domain.NewInvalidInputError("malformed stats body", err))
		return
	}
	respondJSON(w, http.StatusOK, s.app.TextStats(body.Text))
}

func (s *Server) handlePhrases(w http.ResponseWriter, r *http.Request) {
	if s.app.View().CurrentAnalysis() == nil {
		respondError(w, domain.NewNotFoundError("no analysis is displayed"))
		return
	}
	table := s.app.KeyPhrases()

	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		s.download(w, "text/csv", app.KeyPhraseCSVFileName, table.WriteCSV)
	case "json":
		s.download(w, "application/json", app.KeyPhraseJSONFileName, table.WriteJSON)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, table.Text())
	case "":
		phrases := table.Visible()
		if phrases == nil {
			phrases = []domain.KeyPhrase{}
		}
		respondJSON(w, http.StatusOK, phrasesResponse{
			SortKey:    table.SortKey(),
			Category:   table.Category(),
			Categories: table.Categories(),
			Stats:      table.Stats(),
			Phrases:    phrases,
		})
	default:
		respondError(w, domain.NewUnsupportedFormatError(format))
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.NewInvalidInputError("invalid analysis id", err))
		return
	}
	ev, err := eventRequest{Type: "delete", ID: id, Confirm: r.URL.Query().Get("confirm") == "true"}.toEvent()
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.app.Dispatch(r.Context(), ev); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) download(w http.ResponseWriter, contentType, filename string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch domain.ErrorCode(err) {
	case domain.ErrCodeInvalidInput, domain.ErrCodeEmptyInput,
		domain.ErrCodeRegistrationRejected, domain.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case domain.ErrCodeInvalidCredentials, domain.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeBusy, domain.ErrCodeCancelled:
		return http.StatusConflict
	case domain.ErrCodeRequestFailed, domain.ErrCodeParseFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func nonNilNotices(n []domain.Notice) []domain.Notice {
	if n == nil {
		return []domain.Notice{}
	}
	return n
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	if code == "" {
		code = domain.ErrCodeUnknown
	}
	respondJSON(w, statusFor(err), map[string]apiError{"error": {Code: code, Message: domain.UserMessage(err)}})
}
