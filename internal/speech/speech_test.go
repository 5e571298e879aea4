package speech

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("A short paragraph.", 3000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "A short paragraph." {
		t.Errorf("unexpected chunk %q", chunks[0])
	}
}

func TestSplitText_Empty(t *testing.T) {
	if got := SplitText("", 3000); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := SplitText("   \n\n  ", 3000); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestSplitText_ParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 20)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := SplitText(text, 120)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 120 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(c))
		}
	}

	// No text lost.
	joined := strings.Join(chunks, " ")
	if strings.Count(joined, "word") != 60 {
		t.Errorf("expected 60 words preserved, got %d", strings.Count(joined, "word"))
	}
}

func TestSplitText_OversizedParagraphSplitsAtSentences(t *testing.T) {
	text := strings.Repeat("This is a sentence. ", 50)
	chunks := SplitText(text, 100)

	if len(chunks) < 5 {
		t.Fatalf("expected many chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(c))
		}
		if !strings.HasSuffix(strings.TrimSpace(c), ".") {
			t.Errorf("chunk %d should end at a sentence boundary: %q", i, c)
		}
	}
}

func TestSplitText_SentenceLongerThanLimit(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := SplitText(text, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 hard-cut chunks, got %d", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total != 250 {
		t.Errorf("expected all 250 chars preserved, got %d", total)
	}
}

func TestSplitText_HardCutKeepsRunesIntact(t *testing.T) {
	// 100 two-byte runes with no sentence or paragraph boundaries; an
	// odd byte limit would land mid-rune on a naive cut.
	text := strings.Repeat("é", 100)
	chunks := SplitText(text, 33)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	var joined strings.Builder
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
		joined.WriteString(c)
	}
	if joined.String() != text {
		t.Error("chunks do not reassemble the input")
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := EncodeWAV(pcm, 1, 24000, 16)

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if string(wav[12:16]) != "fmt " {
		t.Fatal("missing fmt chunk")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", rate)
	}
	if channels := binary.LittleEndian.Uint16(wav[22:24]); channels != 1 {
		t.Errorf("expected 1 channel, got %d", channels)
	}
	if string(wav[36:40]) != "data" {
		t.Fatal("missing data chunk")
	}
	if dataLen := binary.LittleEndian.Uint32(wav[40:44]); dataLen != 4 {
		t.Errorf("expected data length 4, got %d", dataLen)
	}
	if string(wav[44:]) != string(pcm) {
		t.Error("pcm payload mismatch")
	}
	if riffLen := binary.LittleEndian.Uint32(wav[4:8]); int(riffLen) != len(wav)-8 {
		t.Errorf("riff length %d does not match file size %d", riffLen, len(wav)-8)
	}
}

func TestCacheKey_StableAndVoiceSensitive(t *testing.T) {
	a := CacheKey("hello", "Puck")
	b := CacheKey("hello", "Puck")
	if a != b {
		t.Error("cache key should be deterministic")
	}
	if CacheKey("hello", "Leda") == a {
		t.Error("different voice should produce a different key")
	}
	if CacheKey("other", "Puck") == a {
		t.Error("different text should produce a different key")
	}
	if !strings.HasSuffix(a, "_Puck") {
		t.Errorf("key should carry the voice suffix, got %q", a)
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	key := CacheKey("text", "Puck")
	if _, ok := cache.Get(key); ok {
		t.Fatal("empty cache should miss")
	}

	wav := &Audio{Data: []byte("wav-bytes"), MIME: MIMEWav}
	if err := cache.Put(key, wav); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.MIME != MIMEWav || string(got.Data) != "wav-bytes" {
		t.Errorf("unexpected cached audio %+v", got)
	}

	mp3Key := CacheKey("text", FallbackVoice)
	mp3 := &Audio{Data: []byte("mp3-bytes"), MIME: MIMEMpeg}
	if err := cache.Put(mp3Key, mp3); err != nil {
		t.Fatalf("put mp3: %v", err)
	}
	got, ok = cache.Get(mp3Key)
	if !ok || got.MIME != MIMEMpeg {
		t.Fatalf("expected mp3 hit, got %+v ok=%v", got, ok)
	}
}

func TestCache_PrefersWavWhenBothExist(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	key := CacheKey("text", "Puck")
	if err := cache.Put(key, &Audio{Data: []byte("mp3-bytes"), MIME: MIMEMpeg}); err != nil {
		t.Fatalf("put mp3: %v", err)
	}
	if err := cache.Put(key, &Audio{Data: []byte("wav-bytes"), MIME: MIMEWav}); err != nil {
		t.Fatalf("put wav: %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.MIME != MIMEWav || string(got.Data) != "wav-bytes" {
		t.Errorf("expected the wav container to win, got %+v", got)
	}
}

// fakeSynth returns PCM clips, optionally failing every call.
type fakeSynth struct {
	fail  bool
	calls int
	mime  string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("engine down")
	}
	mime := f.mime
	if mime == "" {
		mime = mimePCM
	}
	return &Audio{Data: []byte(text), MIME: mime}, nil
}

func (f *fakeSynth) Close() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNarrator_SynthesizesAndCaches(t *testing.T) {
	cache, _ := NewCache(t.TempDir())
	primary := &fakeSynth{}
	n := NewNarrator(primary, &fakeSynth{}, cache, 3000, testLogger())

	audio, err := n.Narrate(context.Background(), "hello world", "Puck")
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if audio.MIME != MIMEWav {
		t.Errorf("pcm output should be wrapped as wav, got %s", audio.MIME)
	}
	if primary.calls != 1 {
		t.Errorf("expected 1 synthesis call, got %d", primary.calls)
	}

	// Second narration of the same text must come from the cache.
	if _, err := n.Narrate(context.Background(), "hello world", "Puck"); err != nil {
		t.Fatalf("cached narrate: %v", err)
	}
	if primary.calls != 1 {
		t.Errorf("expected cache hit, engine called %d times", primary.calls)
	}
}

func TestNarrator_FallsBackOnPrimaryFailure(t *testing.T) {
	cache, _ := NewCache(t.TempDir())
	primary := &fakeSynth{fail: true}
	fallback := &fakeSynth{mime: MIMEMpeg}
	n := NewNarrator(primary, fallback, cache, 3000, testLogger())

	audio, err := n.Narrate(context.Background(), "hello", "Puck")
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if audio.MIME != MIMEMpeg {
		t.Errorf("expected fallback mp3 audio, got %s", audio.MIME)
	}
	if fallback.calls != 1 {
		t.Errorf("expected fallback used once, got %d calls", fallback.calls)
	}
}

func TestNarrator_ChunksLongText(t *testing.T) {
	cache, _ := NewCache(t.TempDir())
	primary := &fakeSynth{}
	n := NewNarrator(primary, &fakeSynth{}, cache, 50, testLogger())

	text := strings.Repeat("One sentence here. ", 20)
	if _, err := n.Narrate(context.Background(), text, "Puck"); err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if primary.calls < 2 {
		t.Errorf("expected chunked synthesis, got %d calls", primary.calls)
	}
}

func TestNarrator_EmptyText(t *testing.T) {
	cache, _ := NewCache(t.TempDir())
	n := NewNarrator(&fakeSynth{}, &fakeSynth{fail: true}, cache, 3000, testLogger())
	if _, err := n.Narrate(context.Background(), "   ", "Puck"); err == nil {
		t.Fatal("expected error for empty text")
	}
}
