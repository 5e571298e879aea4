package outline

import (
	"strings"
	"testing"

	"github.com/bookvoice/bookvoice/internal/toc"
)

func TestMarkdownExtractor_HeadingOutline(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownExtractor{}
	book, err := p.Extract(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", book.Title)
	}

	want := []toc.Entry{
		{Level: 1, Title: "Title", Page: 1},
		{Level: 2, Title: "Section A", Page: 2},
		{Level: 3, Title: "Subsection A1", Page: 3},
		{Level: 2, Title: "Section B", Page: 4},
	}
	if len(book.Outline) != len(want) {
		t.Fatalf("expected %d outline entries, got %d: %+v", len(want), len(book.Outline), book.Outline)
	}
	for i := range want {
		if book.Outline[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], book.Outline[i])
		}
	}

	// Each entry's page resolves to exactly its section text.
	text, err := book.PageText(2)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if text != "Section A content." {
		t.Errorf("page 2: expected %q, got %q", "Section A content.", text)
	}

	// The outline builds into the expected forest shape.
	forest := toc.BuildTree(book.Outline)
	if len(forest) != 1 {
		t.Fatalf("expected 1 top-level chapter, got %d", len(forest))
	}
	if len(forest[0].Children) != 2 {
		t.Errorf("expected 2 sections under the title, got %d", len(forest[0].Children))
	}
}

func TestMarkdownExtractor_ParagraphAppearsOnce(t *testing.T) {
	input := "# A\n\nHello world paragraph.\n"
	p := &MarkdownExtractor{}
	book, err := p.Extract(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := book.PageText(1)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if text != "Hello world paragraph." {
		t.Errorf("page 1: expected %q, got %q", "Hello world paragraph.", text)
	}
	if n := strings.Count(text, "Hello world paragraph."); n != 1 {
		t.Errorf("paragraph appears %d times, want 1", n)
	}
}

func TestMarkdownExtractor_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph.\n"
	p := &MarkdownExtractor{}
	book, err := p.Extract(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(book.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", book.Outline)
	}
	if len(book.Pages) != 1 {
		t.Fatalf("expected 1 preamble page, got %d", len(book.Pages))
	}
	if book.Pages[0] != "Just some plain text.\n\nAnother paragraph." {
		t.Errorf("page 1: got %q", book.Pages[0])
	}
}

func TestMarkdownExtractor_EmptySectionKeepsAlignment(t *testing.T) {
	input := `# A

## A.1

body

# B
`
	p := &MarkdownExtractor{}
	book, err := p.Extract(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "# A" has no body of its own but must still own a page so that
	// later entries stay aligned with their text.
	if len(book.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(book.Pages))
	}
	for i, e := range book.Outline {
		if e.Page != i+1 {
			t.Errorf("entry %q: expected page %d, got %d", e.Title, i+1, e.Page)
		}
	}
}
