package speech

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CacheKey derives a stable identifier for a (text, voice) pair: a
// version-5 UUID over the DNS namespace, suffixed with the voice for
// readability on disk.
func CacheKey(text, voice string) string {
	id := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(text+voice))
	return fmt.Sprintf("%s_%s", id, voice)
}

// Cache stores finished narration audio on disk, one file per key. A
// file's existence gates re-synthesis; there is no eviction policy.
type Cache struct {
	dir string
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Get returns cached audio for a key, checking both container types.
// WAV wins when both exist for a key.
func (c *Cache) Get(key string) (*Audio, bool) {
	for _, cand := range []struct {
		ext  string
		mime string
	}{
		{".wav", MIMEWav},
		{".mp3", MIMEMpeg},
	} {
		data, err := os.ReadFile(filepath.Join(c.dir, key+cand.ext))
		if err == nil {
			return &Audio{Data: data, MIME: cand.mime}, true
		}
	}
	return nil, false
}

// Put writes audio under the key with an extension matching its
// container.
func (c *Cache) Put(key string, audio *Audio) error {
	ext := ".wav"
	if audio.MIME == MIMEMpeg {
		ext = ".mp3"
	}
	return os.WriteFile(filepath.Join(c.dir, key+ext), audio.Data, 0o644)
}

// SamplePath returns the location of a voice's pre-recorded intro clip.
func SamplePath(sampleDir, voice string) string {
	return filepath.Join(sampleDir, voice+"-intro.wav")
}
