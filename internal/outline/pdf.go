package outline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bookvoice/bookvoice/internal/toc"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files: per-page plain text plus the
// document's bookmark outline flattened to level-annotated entries.
type PDFExtractor struct{}

// Outline items beyond this count are ignored; guards against malformed
// documents with cyclic Next chains.
const maxOutlineItems = 10000

func (p *PDFExtractor) Extract(r io.Reader, filename string) (*Book, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "bookvoice-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	book := &Book{
		Title: strings.TrimSuffix(filename, ".pdf"),
	}

	numPages := reader.NumPage()
	pageIndex := make(map[string]int, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			book.Pages = append(book.Pages, "")
			continue
		}
		// Page dicts are distinguished by their content-stream references,
		// so the printed dict is a usable identity for destination lookup.
		pageIndex[page.V.String()] = i

		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		book.Pages = append(book.Pages, text)
	}

	// A missing or unreadable outline is not an error: the book simply
	// has no chapters to browse.
	book.Outline = extractOutline(reader, pageIndex)

	return book, nil
}

// extractOutline walks the catalog's /Outlines First/Next chains and
// flattens them into document-order entries. Destinations that cannot
// be resolved to a page keep their entry with page 0.
func extractOutline(reader *pdflib.Reader, pageIndex map[string]int) []toc.Entry {
	catalog := reader.Trailer().Key("Root")
	if catalog.IsNull() {
		return nil
	}
	outlines := catalog.Key("Outlines")
	if outlines.IsNull() {
		return nil
	}

	var entries []toc.Entry
	walkOutlineItems(outlines.Key("First"), 1, pageIndex, &entries)
	return entries
}

func walkOutlineItems(item pdflib.Value, level int, pageIndex map[string]int, entries *[]toc.Entry) {
	for !item.IsNull() && len(*entries) < maxOutlineItems {
		title := item.Key("Title").Text()
		*entries = append(*entries, toc.Entry{
			Level: level,
			Title: title,
			Page:  resolveDestPage(item, pageIndex),
		})

		walkOutlineItems(item.Key("First"), level+1, pageIndex, entries)
		item = item.Key("Next")
	}
}

// resolveDestPage maps an outline item's destination to a 1-based page
// number. Handles direct /Dest arrays and /A GoTo actions; named
// destinations resolve to 0.
func resolveDestPage(item pdflib.Value, pageIndex map[string]int) int {
	dest := item.Key("Dest")
	if dest.IsNull() {
		action := item.Key("A")
		if !action.IsNull() {
			dest = action.Key("D")
		}
	}
	if dest.Kind() != pdflib.Array || dest.Len() == 0 {
		return 0
	}
	target := dest.Index(0)
	if target.Kind() != pdflib.Dict {
		return 0
	}
	return pageIndex[target.String()]
}
