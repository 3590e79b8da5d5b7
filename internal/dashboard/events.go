package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
)

// eventRequest is the wire form of an app.Event, shared by the HTML forms and
// POST /api/events.
type eventRequest struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
	Text     string `json:"text,omitempty"`
	Title    string `json:"title,omitempty"`
	ID       int    `json:"id,omitempty"`
	Key      string `json:"key,omitempty"`
	Category string `json:"category,omitempty"`
	Confirm  bool   `json:"confirm,omitempty"`
}

func (e eventRequest) toEvent() (app.Event, error) {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case "show-login":
		return app.ShowLogin{}, nil
	case "show-register":
		return app.ShowRegister{}, nil
	case "show-landing":
		return app.ShowLanding{}, nil
	case "login":
		return app.Login{Username: e.Username, Password: e.Password}, nil
	case "register":
		return app.Register{Email: e.Email, Username: e.Username, Password: e.Password}, nil
	case "logout":
		return app.Logout{}, nil
	case "submit":
		return app.Submit{Text: e.Text, Title: e.Title}, nil
	case "refresh":
		return app.RefreshHistory{}, nil
	case "open":
		return app.OpenAnalysis{ID: e.ID}, nil
	case "delete":
		if !e.Confirm {
			return nil, domain.NewInvalidInputError("deleting an analysis requires confirm=true", nil)
		}
		return app.DeleteAnalysis{ID: e.ID}, nil
	case "sort":
		key, err := domain.ParseSortKey(e.Key)
		if err != nil {
			return nil, err
		}
		return app.SortPhrases{Key: key}, nil
	case "filter":
		return app.FilterPhrases{Category: e.Category}, nil
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown event type: %q", e.Type), nil)
	}
}

// formEvent reads an HTML form post for action.
func formEvent(action string, r *http.Request) (eventRequest, error) {
	if err := r.ParseForm(); err != nil {
		return eventRequest{}, domain.NewInvalidInputError("malformed form", err)
	}
	req := eventRequest{
		Type:     action,
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Email:    r.PostForm.Get("email"),
		Text:     r.PostForm.Get("text"),
		Title:    r.PostForm.Get("title"),
		Key:      r.PostForm.Get("key"),
		Category: r.PostForm.Get("category"),
		Confirm:  r.PostForm.Get("confirm") == "true",
	}
	if raw := r.PostForm.Get("id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return eventRequest{}, domain.NewInvalidInputError(fmt.Sprintf("invalid analysis id: %q", raw), err)
		}
		req.ID = id
	}
	return req, nil
}
