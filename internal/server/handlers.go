package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stash/internal/core"
	"stash/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listOptionsFromQuery maps the listing query parameters onto store filters.
// Unknown parameters are ignored.
func listOptionsFromQuery(r *http.Request) store.ListOptions {
	q := r.URL.Query()

	opts := store.ListOptions{
		All:      q.Get("all") == "true",
		Archived: q.Get("archived") == "true",
		Starred:  q.Get("starred") == "true",
		Sort:     q.Get("sort"),
		Reverse:  q.Get("reverse") == "true",
		Limit:    store.NoLimit,
	}
	if tags, ok := q["tag"]; ok {
		opts.Tags = tags
	}
	if limit, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	var articles []core.Article
	var err error
	if match := r.URL.Query().Get("q"); match != "" {
		articles, err = s.store.Search(match, opts)
	} else {
		articles, err = s.store.Articles(opts)
	}
	if err != nil {
		s.log.Error("failed to list articles", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list articles"})
		return
	}
	if articles == nil {
		articles = []core.Article{}
	}

	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid article id"})
		return
	}

	article, err := s.store.FindByID(id)
	if err != nil {
		s.log.Error("failed to load article", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load article"})
		return
	}
	if article == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.TagCounts()
	if err != nil {
		s.log.Error("failed to list tags", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tags"})
		return
	}

	type tagEntry struct {
		Tag   string `json:"tag"`
		Count int    `json:"count"`
	}
	entries := make([]tagEntry, 0, len(counts))
	for _, c := range counts {
		entries = append(entries, tagEntry{Tag: c.Tag, Count: c.Count})
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
