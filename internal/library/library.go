package library

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bookvoice/bookvoice/internal/outline"
	"github.com/bookvoice/bookvoice/internal/toc"
	gocache "github.com/patrickmn/go-cache"
)

// Book is an uploaded document held for the lifetime of its reading
// session: the extracted source plus the TOC forest built once from its
// outline. The forest is immutable after construction.
type Book struct {
	ID          string    `json:"book_id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash"`
	PageCount   int       `json:"page_count"`
	Chapters    int       `json:"chapters"`
	UploadedAt  time.Time `json:"uploaded_at"`

	Source *outline.Book `json:"-"`
	TOC    []*toc.Node   `json:"-"`
}

// PageText resolves a 1-based page number to its extracted text.
func (b *Book) PageText(page int) (string, error) {
	return b.Source.PageText(page)
}

// Store holds uploaded books, evicted after the session TTL. The raw
// upload is also persisted under the cache directory, keyed by content
// hash, so a re-upload of the same file is recognized.
type Store struct {
	cacheDir string
	books    *gocache.Cache
}

// NewStore creates a book store backed by cacheDir.
func NewStore(cacheDir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{
		cacheDir: cacheDir,
		books:    gocache.New(ttl, 10*time.Minute),
	}, nil
}

// Add extracts an uploaded document, builds its TOC forest, and
// registers the book. Uploading identical content returns the already
// registered book.
func (s *Store) Add(filename string, data []byte) (*Book, error) {
	hash := ContentHashHex(data)
	id := hash[:16]

	if existing, ok := s.books.Get(id); ok {
		return existing.(*Book), nil
	}

	ex, err := outline.ForFile(filename)
	if err != nil {
		return nil, err
	}
	src, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}

	forest := toc.BuildTree(src.Outline)

	book := &Book{
		ID:          id,
		Filename:    filename,
		Title:       src.Title,
		ContentHash: hash,
		PageCount:   len(src.Pages),
		Chapters:    len(forest),
		UploadedAt:  time.Now(),
		Source:      src,
		TOC:         forest,
	}

	if err := s.persist(hash, filename, data); err != nil {
		return nil, err
	}

	s.books.Set(id, book, gocache.DefaultExpiration)
	return book, nil
}

// Get returns a book by ID, or nil if unknown or expired.
func (s *Store) Get(id string) *Book {
	if v, ok := s.books.Get(id); ok {
		return v.(*Book)
	}
	return nil
}

// Delete evicts a book and removes its cached upload.
func (s *Store) Delete(id string) {
	if v, ok := s.books.Get(id); ok {
		book := v.(*Book)
		os.Remove(s.uploadPath(book.ContentHash, book.Filename))
	}
	s.books.Delete(id)
}

func (s *Store) persist(hash, filename string, data []byte) error {
	path := s.uploadPath(hash, filename)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist upload: %w", err)
	}
	return nil
}

func (s *Store) uploadPath(hash, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return filepath.Join(s.cacheDir, hash[:16]+ext)
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
