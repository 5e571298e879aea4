package session

import (
	"testing"
	"time"

	"github.com/bookvoice/bookvoice/internal/toc"
)

func TestSession_SelectionLifecycle(t *testing.T) {
	s := &Session{}

	if _, ok := s.Current(); ok {
		t.Fatal("fresh session should have no selection")
	}

	s.SetSelection(toc.Selection{Title: "Intro", Page: 3}, "intro text")
	cur, ok := s.Current()
	if !ok {
		t.Fatal("expected a current section")
	}
	if cur.Title != "Intro" || cur.Page != 3 || cur.Text != "intro text" {
		t.Fatalf("unexpected section %+v", cur)
	}

	s.SetSummary("a summary")
	cur, _ = s.Current()
	if cur.Summary != "a summary" {
		t.Errorf("expected summary to stick, got %q", cur.Summary)
	}

	// A new selection discards the old summary.
	s.SetSelection(toc.Selection{Title: "Next", Page: 4}, "next text")
	cur, _ = s.Current()
	if cur.Summary != "" {
		t.Errorf("summary should be cleared on reselection, got %q", cur.Summary)
	}
}

func TestSession_SummaryWithoutSelection(t *testing.T) {
	s := &Session{}
	s.SetSummary("orphan") // must not panic
	if _, ok := s.Current(); ok {
		t.Error("still no selection expected")
	}
}

func TestSession_Bookmarks(t *testing.T) {
	s := &Session{}
	a := toc.Selection{Title: "A", Page: 1}
	b := toc.Selection{Title: "B", Page: 2}

	s.AddBookmark(a)
	s.AddBookmark(b)
	s.AddBookmark(a) // duplicate

	got := s.Bookmarks()
	if len(got) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Errorf("bookmark order wrong: %+v", got)
	}
}

func TestStore_ForBookReturnsSameSession(t *testing.T) {
	st := NewStore(time.Hour)

	s1 := st.ForBook("book1")
	s1.SetVoice("Puck")

	s2 := st.ForBook("book1")
	if s2.Voice() != "Puck" {
		t.Error("expected same session for same book ID")
	}

	other := st.ForBook("book2")
	if other.Voice() != "" {
		t.Error("different book should get a fresh session")
	}

	st.Delete("book1")
	if st.ForBook("book1").Voice() != "" {
		t.Error("deleted session should be recreated fresh")
	}
}
