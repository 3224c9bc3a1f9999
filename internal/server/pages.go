package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"stash/internal/core"
	"stash/internal/render"
)

var pageFuncs = template.FuncMap{
	"age": func(t time.Time) string {
		return render.RelativeTime(t, time.Now())
	},
	"joinTags": func(tags []string) string {
		return strings.Join(tags, ", ")
	},
}

var homeTemplate = template.Must(template.New("home").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>stash</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { width: 100%; border-collapse: collapse; }
td, th { padding: 0.4rem 0.6rem; text-align: left; border-bottom: 1px solid #eee; }
a { color: #1a5fb4; text-decoration: none; }
.meta { color: #777; font-size: 0.85em; }
.star { color: #c90; }
</style>
</head>
<body>
<h1>stash</h1>
<p class="meta">{{len .Articles}} articles{{if .Scope}} — {{.Scope}}{{end}}</p>
<table>
<tr><th></th><th>Title</th><th>Site</th><th>Saved</th><th>Tags</th></tr>
{{range .Articles}}
<tr>
<td>{{if .Starred}}<span class="star">★</span>{{end}}{{if .Read}}✓{{end}}</td>
<td><a href="/articles/{{.ID}}">{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}</a></td>
<td>{{.Site}}</td>
<td class="meta">{{age .SavedAt}}</td>
<td class="meta">{{joinTags .Tags}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

var articleTemplate = template.Must(template.New("article").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}} — stash</title>
<style>
body { font-family: sans-serif; max-width: 45rem; margin: 2rem auto; padding: 0 1rem; }
a { color: #1a5fb4; }
.meta { color: #777; font-size: 0.9em; }
pre.content { white-space: pre-wrap; font-family: inherit; line-height: 1.5; }
blockquote.note { border-left: 3px solid #c90; margin-left: 0; padding-left: 1rem; color: #555; }
</style>
</head>
<body>
<p><a href="/">← back</a></p>
<h1>{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}</h1>
<p class="meta"><a href="{{.URL}}">{{.URL}}</a><br>
{{.Site}} — saved {{age .SavedAt}}{{if .Tags}} — {{joinTags .Tags}}{{end}}</p>
{{if .Note}}<blockquote class="note">{{.Note}}</blockquote>{{end}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .ContentMarkdown}}<pre class="content">{{.ContentMarkdown}}</pre>{{end}}
</body>
</html>
`))

type homeData struct {
	Articles []core.Article
	Scope    string
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	articles, err := s.store.Articles(opts)
	if err != nil {
		s.log.Error("failed to render home page", "error", err)
		http.Error(w, "failed to load articles", http.StatusInternalServerError)
		return
	}

	var scope string
	if opts.Archived {
		scope = "archive"
	} else if !opts.All {
		scope = "inbox"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, homeData{Articles: articles, Scope: scope}); err != nil {
		s.log.Error("failed to execute home template", "error", err)
	}
}

func (s *Server) handleArticlePage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid article id", http.StatusBadRequest)
		return
	}

	article, err := s.store.FindByID(id)
	if err != nil {
		s.log.Error("failed to load article page", "error", err, "id", id)
		http.Error(w, "failed to load article", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := articleTemplate.Execute(w, article); err != nil {
		s.log.Error("failed to execute article template", "error", err, "id", id)
	}
}
