package session

import (
	"sync"
	"time"

	"github.com/bookvoice/bookvoice/internal/toc"
	gocache "github.com/patrickmn/go-cache"
)

// Section is the reader's current selection with its resolved text and,
// once requested, its summary.
type Section struct {
	Title   string `json:"title"`
	Page    int    `json:"page"`
	Text    string `json:"text"`
	Summary string `json:"summary,omitempty"`
}

// Session is the mutable reading state for one book: current section,
// bookmarks, and chosen narration voice. The TOC forest itself lives in
// the library and is never mutated here.
type Session struct {
	mu sync.Mutex

	bookID    string
	current   *Section
	bookmarks []toc.Selection
	voice     string
}

// SetSelection records a leaf activation with its resolved page text.
// Any previous summary is discarded: it described a different section.
func (s *Session) SetSelection(sel toc.Selection, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Section{Title: sel.Title, Page: sel.Page, Text: text}
}

// Current returns a copy of the current section, if any.
func (s *Session) Current() (Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Section{}, false
	}
	return *s.current, true
}

// SetSummary attaches a summary to the current section.
func (s *Session) SetSummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Summary = summary
	}
}

// AddBookmark saves a selection for later. Duplicates are ignored.
func (s *Session) AddBookmark(sel toc.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks {
		if b == sel {
			return
		}
	}
	s.bookmarks = append(s.bookmarks, sel)
}

// Bookmarks returns the saved selections in insertion order.
func (s *Session) Bookmarks() []toc.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]toc.Selection, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// SetVoice records the chosen narration voice.
func (s *Session) SetVoice(voice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voice = voice
}

// Voice returns the chosen narration voice, empty if none picked yet.
func (s *Session) Voice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

// Store keeps one session per book ID, evicted after the TTL.
type Store struct {
	sessions *gocache.Cache
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: gocache.New(ttl, 10*time.Minute),
	}
}

// ForBook returns the session for a book, creating it on first use.
func (st *Store) ForBook(bookID string) *Session {
	if v, ok := st.sessions.Get(bookID); ok {
		return v.(*Session)
	}
	s := &Session{bookID: bookID}
	st.sessions.Set(bookID, s, gocache.DefaultExpiration)
	return s
}

// Delete removes a book's session.
func (st *Store) Delete(bookID string) {
	st.sessions.Delete(bookID)
}
