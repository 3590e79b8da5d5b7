package service

import (
	"html/template"
	"io"
	"time"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/version"
)

// HTMLRenderer writes a ViewTree as a standalone HTML dashboard.
type HTMLRenderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewHTMLRenderer creates a new HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	funcMap := template.FuncMap{
		"isKind": func(b domain.Block, kind string) bool { return string(b.Kind) == kind },
		"width":  func(p float64) float64 { return clampPercentage(p) },
	}
	return &HTMLRenderer{
		tmpl: template.Must(template.New("dashboard").Funcs(funcMap).Parse(dashboardHTMLTemplate)),
		now:  time.Now,
	}
}

// PageControls turns a rendered page into the interactive dashboard. Forms
// post to /actions/<name> on the serving host.
type PageControls struct {
	Notices   []domain.Notice
	AuthForm  domain.AuthForm
	HasResult bool
	SortKeys  []domain.SortKey
	SortKey   domain.SortKey
}

type htmlPage struct {
	Tree        domain.ViewTree
	GeneratedAt string
	Version     string
	Controls    *PageControls
}

// Render writes a static page to w.
func (r *HTMLRenderer) Render(w io.Writer, tree domain.ViewTree) error {
	return r.execute(w, tree, nil)
}

// RenderServed writes the page with the dashboard forms and notices.
func (r *HTMLRenderer) RenderServed(w io.Writer, tree domain.ViewTree, controls PageControls) error {
	return r.execute(w, tree, &controls)
}

func (r *HTMLRenderer) execute(w io.Writer, tree domain.ViewTree, controls *PageControls) error {
	page := htmlPage{
		Tree:        tree,
		GeneratedAt: r.now().Format("2006-01-02 15:04:05"),
		Version:     version.Short(),
		Controls:    controls,
	}
	if err := r.tmpl.Execute(w, page); err != nil {
		return domain.NewOutputError("failed to render HTML", err)
	}
	return nil
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

const dashboardHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>TextScope{{if .Tree.Title}} - {{.Tree.Title}}{{end}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .header h1 { color: #667eea; margin-bottom: 10px; }
        .header p { color: #666; font-size: 14px; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(340px, 1fr));
            gap: 20px;
        }
        .card {
            background: white;
            border-radius: 10px;
            padding: 24px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .card h2 { color: #667eea; font-size: 18px; margin-bottom: 14px; }
        .block { margin-bottom: 12px; }
        .label { color: #666; font-size: 13px; }
        .value { font-weight: bold; }
        .detail { color: #888; font-size: 12px; font-style: italic; }
        .track { background: #eee; border-radius: 6px; height: 10px; overflow: hidden; margin: 4px 0; }
        .fill { height: 100%; border-radius: 6px; }
        .badge { display: inline-block; padding: 2px 10px; border-radius: 50px; color: white; font-size: 12px; }
        .tag { display: inline-block; padding: 2px 8px; margin: 2px; border-radius: 4px; background: #f5f5f5; font-size: 12px; }
        .primary { font-weight: bold; }
        table { width: 100%; border-collapse: collapse; font-size: 13px; }
        th, td { padding: 6px 8px; text-align: left; border-bottom: 1px solid #eee; }
        th { background: #f8f9fa; }
        ul { list-style: none; }
        li { padding: 4px 0; }
        .footer { text-align: center; color: white; font-size: 12px; margin-top: 20px; }
        .notice { border-radius: 6px; padding: 10px 14px; margin-bottom: 10px; color: white; }
        .notice-info { background: #10B981; }
        .notice-error { background: #EF4444; }
        .controls form { display: inline-block; margin: 4px 8px 4px 0; }
        .controls input, .controls textarea, .controls select { padding: 6px; border: 1px solid #ddd; border-radius: 4px; font: inherit; }
        .controls textarea { width: 100%; min-height: 140px; }
        button { padding: 6px 14px; border: none; border-radius: 4px; background: #667eea; color: white; cursor: pointer; }
        button.danger { background: #EF4444; }
        li form { display: inline; margin-left: 6px; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>TextScope</h1>
        {{if .Tree.Title}}<p>{{.Tree.Title}}</p>{{end}}
        {{if not .Controls}}<p>Generated {{.GeneratedAt}}</p>{{end}}
    </div>
    {{with .Controls}}
    {{range .Notices}}<div class="notice notice-{{.Level}}">{{.Message}}</div>{{end}}
    <div class="card controls" style="margin-bottom: 20px">
    {{if eq (print $.Tree.Screen) "landing"}}
        <form method="post" action="/actions/show-login"><button>Sign In</button></form>
        <form method="post" action="/actions/show-register"><button>Create Account</button></form>
    {{else if eq (print $.Tree.Screen) "auth"}}
        {{if eq (print .AuthForm) "register"}}
        <form method="post" action="/actions/register">
            <input name="email" type="email" placeholder="Email" required>
            <input name="username" placeholder="Username" required>
            <input name="password" type="password" placeholder="Password" required>
            <button>Register</button>
        </form>
        <form method="post" action="/actions/show-login"><button>Have an account? Sign in</button></form>
        {{else}}
        <form method="post" action="/actions/login">
            <input name="username" placeholder="Username" required>
            <input name="password" type="password" placeholder="Password" required>
            <button>Login</button>
        </form>
        <form method="post" action="/actions/show-register"><button>Need an account? Register</button></form>
        {{end}}
        <form method="post" action="/actions/show-landing"><button>Back</button></form>
    {{else}}
        <form method="post" action="/actions/submit" style="display: block">
            <input name="title" placeholder="Title (optional)">
            <textarea name="text" placeholder="Paste text to analyze"></textarea>
            <button>Analyze</button>
        </form>
        <form method="post" action="/actions/refresh"><button>Refresh history</button></form>
        {{if .HasResult}}
        <form method="post" action="/actions/sort">
            <select name="key">{{$current := .SortKey}}{{range .SortKeys}}<option value="{{.}}"{{if eq . $current}} selected{{end}}>{{.}}</option>{{end}}</select>
            <button>Sort phrases</button>
        </form>
        <form method="post" action="/actions/filter">
            <input name="category" placeholder="Category (empty for all)">
            <button>Filter phrases</button>
        </form>
        <form method="get" action="/api/export"><button>Export JSON</button></form>
        {{end}}
        <form method="post" action="/actions/logout"><button class="danger">Logout</button></form>
    {{end}}
    </div>
    {{end}}
    <div class="grid">
    {{range .Tree.Sections}}
        <div class="card" id="section-{{.ID}}">
            <h2>{{.Title}}</h2>
            {{range .Blocks}}
            <div class="block">
                {{if or (isKind . "gauge") (isKind . "bar")}}
                    <div class="label">{{.Label}} <span class="value" style="color: {{.Color}}">{{.Value}}</span></div>
                    <div class="track"><div class="fill" style="width: {{width .Percent}}%; background: {{.Color}}"></div></div>
                    {{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}
                {{else if isKind . "badge"}}
                    <span class="label">{{.Label}}</span> <span class="badge" style="background: {{.Color}}">{{.Value}}</span>
                    {{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}
                {{else if isKind . "tags"}}
                    {{if .Label}}<div class="label">{{.Label}}</div>{{end}}
                    {{range .Items}}<span class="tag" style="color: {{.Color}}">{{.Label}}{{if .Value}} {{.Value}}{{end}}</span>{{end}}
                {{else if isKind . "key_value"}}
                    {{if .Label}}<div class="label">{{.Label}}</div>{{end}}
                    <table>
                    {{range .Items}}<tr><td>{{.Label}}</td><td class="value" style="color: {{.Color}}">{{.Value}}</td><td class="detail">{{.Detail}}</td></tr>{{end}}
                    </table>
                {{else if isKind . "list"}}
                    {{if .Label}}<div class="label">{{.Label}}</div>{{end}}
                    <ul>
                    {{range .Items}}<li{{if .Primary}} class="primary"{{end}}><span style="color: {{.Color}}">{{.Label}}{{if .Value}}: {{.Value}}{{end}}</span>{{if and $.Controls .Ref}}<form method="post" action="/actions/open"><input type="hidden" name="id" value="{{.Ref}}"><button>Open</button></form><form method="post" action="/actions/delete" onsubmit="return confirm('Delete this analysis?')"><input type="hidden" name="id" value="{{.Ref}}"><input type="hidden" name="confirm" value="true"><button class="danger">Delete</button></form>{{end}}{{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}</li>{{end}}
                    </ul>
                {{else if isKind . "table"}}
                    {{with .Table}}
                    <table>
                        <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
                        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
                    </table>
                    {{end}}
                {{else}}
                    {{if .Label}}<span class="label">{{.Label}}</span>{{end}}
                    <p>{{.Value}}</p>
                    {{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}
                {{end}}
            </div>
            {{end}}
        </div>
    {{end}}
    </div>
    <div class="footer">textscope {{.Version}}</div>
</div>
</body>
</html>
`
