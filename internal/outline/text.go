package outline

import (
	"bufio"
	"io"
	"strings"
)

// TextExtractor handles plain text files. Plain text carries no
// structure, so the whole file becomes a single page with no outline.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (*Book, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	book := &Book{
		Title: strings.TrimSuffix(filename, ".txt"),
	}
	if len(paragraphs) > 0 {
		book.Pages = []string{strings.Join(paragraphs, "\n\n")}
	}
	return book, nil
}
