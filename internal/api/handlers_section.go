package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bookvoice/bookvoice/internal/summarize"
	"github.com/bookvoice/bookvoice/internal/toc"
	"github.com/go-chi/chi/v5"
)

// handleSelect activates a TOC leaf: resolves its page text and makes it
// the session's current section.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	var sel toc.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		jsonError(w, "invalid selection: "+err.Error(), http.StatusBadRequest)
		return
	}
	if sel.Title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}

	text, err := book.PageText(sel.Page)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	sess := s.sessions.ForBook(book.ID)
	sess.SetSelection(sel, text)

	current, _ := sess.Current()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(current)
}

// handleSection returns the session's current section.
func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	current, ok := s.sessions.ForBook(book.ID).Current()
	if !ok {
		jsonError(w, "no section selected", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(current)
}

// handleSummary summarizes the current section's text and attaches the
// summary to the session.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	sess := s.sessions.ForBook(book.ID)
	current, ok := sess.Current()
	if !ok {
		jsonError(w, "no section selected", http.StatusNotFound)
		return
	}
	if current.Summary != "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(current)
		return
	}

	summary, err := summarize.WithRetries(r.Context(), s.summarizer, current.Text)
	if err != nil {
		s.log.Error("summarization failed",
			"book_id", book.ID,
			"section", current.Title,
			"error", err,
		)
		jsonError(w, "summarization failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	sess.SetSummary(summary)

	current, _ = sess.Current()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(current)
}

// handleNarrate synthesizes narration for the current section and streams
// the audio back.
func (s *Server) handleNarrate(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	var req struct {
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Voice == "" {
		req.Voice = s.cfg.Voices[0]
	}
	if !s.cfg.IsVoice(req.Voice) {
		jsonError(w, "unknown voice: "+req.Voice, http.StatusBadRequest)
		return
	}

	sess := s.sessions.ForBook(book.ID)
	current, ok := sess.Current()
	if !ok {
		jsonError(w, "no section selected", http.StatusNotFound)
		return
	}
	sess.SetVoice(req.Voice)

	audio, err := s.narrator.Narrate(r.Context(), current.Text, req.Voice)
	if err != nil {
		s.log.Error("narration failed",
			"book_id", book.ID,
			"section", current.Title,
			"voice", req.Voice,
			"error", err,
		)
		jsonError(w, "narration failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", audio.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.Write(audio.Data)
}

// handleAddBookmark saves the posted selection in the book's session.
func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	var sel toc.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		jsonError(w, "invalid bookmark: "+err.Error(), http.StatusBadRequest)
		return
	}
	if sel.Title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}

	sess := s.sessions.ForBook(book.ID)
	sess.AddBookmark(sel)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"bookmarks": sess.Bookmarks()})
}

// handleListBookmarks returns the session's saved selections.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	bookmarks := s.sessions.ForBook(book.ID).Bookmarks()
	if bookmarks == nil {
		bookmarks = []toc.Selection{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"bookmarks": bookmarks})
}
