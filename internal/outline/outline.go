package outline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bookvoice/bookvoice/internal/toc"
)

// Book is the extracted form of an uploaded document: page text in
// document order plus the flat, level-annotated outline. The outline is
// what toc.BuildTree turns into the browsable forest; an empty outline
// just means the book has no chapters to browse.
type Book struct {
	Title   string
	Pages   []string
	Outline []toc.Entry
}

// PageText returns the text of a 1-based page number.
func (b *Book) PageText(page int) (string, error) {
	if page < 1 || page > len(b.Pages) {
		return "", fmt.Errorf("page %d not found (book has %d pages)", page, len(b.Pages))
	}
	return b.Pages[page-1], nil
}

// Extractor converts raw document bytes into a Book.
type Extractor interface {
	Extract(r io.Reader, filename string) (*Book, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".txt":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// sectionBuilder accumulates heading-structured formats (markdown, html,
// docx) into a Book: every heading opens a new synthetic page and emits
// an outline entry pointing at it. Text before the first heading lands
// on a preamble page without an entry.
type sectionBuilder struct {
	book    *Book
	current strings.Builder
	open    bool
}

func newSectionBuilder(title string) *sectionBuilder {
	return &sectionBuilder{book: &Book{Title: title}}
}

// Heading closes the current page and starts a new one for the given
// heading, recording the outline entry.
func (sb *sectionBuilder) Heading(level int, title string) {
	sb.flush()
	sb.open = true
	sb.book.Outline = append(sb.book.Outline, toc.Entry{
		Level: level,
		Title: title,
		Page:  len(sb.book.Pages) + 1,
	})
}

// Text appends body text to the current page.
func (sb *sectionBuilder) Text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if sb.current.Len() > 0 {
		sb.current.WriteString("\n\n")
	}
	sb.current.WriteString(s)
	sb.open = true
}

func (sb *sectionBuilder) flush() {
	if !sb.open {
		return
	}
	sb.book.Pages = append(sb.book.Pages, sb.current.String())
	sb.current.Reset()
	sb.open = false
}

// Book finalizes and returns the accumulated book.
func (sb *sectionBuilder) Book() *Book {
	sb.flush()
	return sb.book
}
