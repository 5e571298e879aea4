package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bookvoice/bookvoice/internal/outline"
	"github.com/bookvoice/bookvoice/internal/speech"
	"github.com/bookvoice/bookvoice/internal/toc"
	"github.com/go-chi/chi/v5"
)

// handleUpload accepts a book as a multipart upload, extracts its
// outline, and builds the TOC forest for browsing.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !outline.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	book, err := s.books.Add(filename, data)
	if err != nil {
		jsonError(w, "failed to ingest book: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.log.Info("book uploaded",
		"book_id", book.ID,
		"filename", book.Filename,
		"pages", book.PageCount,
		"chapters", book.Chapters,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

// handleDeleteBook evicts a book and its reading session.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	if s.books.Get(bookID) == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}
	s.books.Delete(bookID)
	s.sessions.Delete(bookID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": bookID})
}

// handleTOC returns the nested TOC forest.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id": book.ID,
		"title":   book.Title,
		"toc":     book.TOC,
	})
}

// handleTOCFlat returns the outline as pre-order flat entries.
func (s *Server) handleTOCFlat(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	entries := toc.Flatten(book.TOC)
	if entries == nil {
		entries = []toc.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id": book.ID,
		"entries": entries,
	})
}

// handlePage returns the extracted text of a single page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	book := s.books.Get(chi.URLParam(r, "bookID"))
	if book == nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		jsonError(w, "invalid page number", http.StatusBadRequest)
		return
	}
	text, err := book.PageText(page)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id": book.ID,
		"page":    page,
		"text":    text,
	})
}

// handleVoices lists the narration voices and their intro samples.
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	type voiceInfo struct {
		Name   string `json:"name"`
		Sample string `json:"sample"`
	}
	voices := make([]voiceInfo, 0, len(s.cfg.Voices))
	for _, v := range s.cfg.Voices {
		voices = append(voices, voiceInfo{
			Name:   v,
			Sample: speech.SamplePath(s.cfg.VoiceSampleDir, v),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"voices": voices})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
