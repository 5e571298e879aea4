package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleBook = `# Guide

Welcome.

## Getting Started

Start here.

## Reference

Look things up.
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestStore_AddAndGet(t *testing.T) {
	s := newTestStore(t)

	book, err := s.Add("guide.md", []byte(sampleBook))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if book.Title != "guide" {
		t.Errorf("expected title %q, got %q", "guide", book.Title)
	}
	if book.Chapters != 1 {
		t.Errorf("expected 1 top-level chapter, got %d", book.Chapters)
	}
	if book.PageCount != 3 {
		t.Errorf("expected 3 pages, got %d", book.PageCount)
	}
	if len(book.ID) != 16 {
		t.Errorf("expected 16-char book ID, got %q", book.ID)
	}

	got := s.Get(book.ID)
	if got == nil || got.ID != book.ID {
		t.Fatalf("get after add returned %+v", got)
	}

	text, err := got.PageText(2)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty page text")
	}
}

func TestStore_DuplicateUploadReturnsSameBook(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add("guide.md", []byte(sampleBook))
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := s.Add("guide.md", []byte(sampleBook))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if first != second {
		t.Error("identical content should return the registered book")
	}
}

func TestStore_PersistsUpload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	book, err := s.Add("guide.md", []byte(sampleBook))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	path := filepath.Join(dir, book.ID+".md")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cached upload at %s: %v", path, err)
	}

	s.Delete(book.ID)
	if s.Get(book.ID) != nil {
		t.Error("book should be gone after delete")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cached upload should be removed on delete")
	}
}

func TestStore_UnsupportedExtension(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("book.epub", []byte("data")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s := newTestStore(t)
	if s.Get("nope") != nil {
		t.Error("unknown ID should return nil")
	}
}
