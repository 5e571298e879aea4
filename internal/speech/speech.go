package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Audio is a synthesized clip. PCM clips are wrapped into a WAV
// container by the narrator once all chunks are joined.
type Audio struct {
	Data []byte
	MIME string
}

const (
	mimePCM  = "audio/pcm"
	MIMEWav  = "audio/wav"
	MIMEMpeg = "audio/mpeg"
)

// Synthesizer converts text to audio with a named voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*Audio, error)
	Close()
}

// DefaultVoices are the prebuilt narration voices offered to readers.
var DefaultVoices = []string{"Zephyr", "Puck", "Leda", "Laomedeia", "Alnilam", "Sadaltager"}

// FallbackVoice is used when the primary engine is unavailable.
const FallbackVoice = "en-US-GuyNeural"

// Narrator reads section text aloud: it splits the text into chunks the
// engines accept, synthesizes each, joins the result, and caches the
// finished audio by (text, voice). A primary engine failure falls back
// to the secondary engine with its own voice.
type Narrator struct {
	primary  Synthesizer
	fallback Synthesizer
	cache    *Cache
	limit    int
	log      *slog.Logger
}

func NewNarrator(primary, fallback Synthesizer, cache *Cache, chunkLimit int, log *slog.Logger) *Narrator {
	if chunkLimit <= 0 {
		chunkLimit = DefaultChunkLimit
	}
	return &Narrator{
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		limit:    chunkLimit,
		log:      log,
	}
}

// Narrate returns the audio for the given text and voice, synthesizing
// it if the cache has no entry yet.
func (n *Narrator) Narrate(ctx context.Context, text, voice string) (*Audio, error) {
	key := CacheKey(text, voice)
	if audio, ok := n.cache.Get(key); ok {
		return audio, nil
	}

	audio, err := n.synthesize(ctx, n.primary, text, voice)
	if err != nil {
		n.log.Warn("primary tts failed, falling back", "voice", voice, "error", err)
		key = CacheKey(text, FallbackVoice)
		if cached, ok := n.cache.Get(key); ok {
			return cached, nil
		}
		audio, err = n.synthesize(ctx, n.fallback, text, FallbackVoice)
		if err != nil {
			return nil, fmt.Errorf("fallback tts: %w", err)
		}
	}

	if err := n.cache.Put(key, audio); err != nil {
		n.log.Warn("audio cache write failed", "error", err)
	}
	return audio, nil
}

// synthesize runs the engine chunk by chunk and joins the clips. PCM
// output is wrapped into a single WAV container at the end.
func (n *Narrator) synthesize(ctx context.Context, s Synthesizer, text, voice string) (*Audio, error) {
	chunks := SplitText(text, n.limit)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to narrate")
	}

	var joined []byte
	var mime string
	for i, chunk := range chunks {
		clip, err := s.Synthesize(ctx, chunk, voice)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if mime == "" {
			mime = clip.MIME
		}
		joined = append(joined, clip.Data...)
	}

	if strings.HasPrefix(mime, mimePCM) {
		return &Audio{Data: EncodeWAV(joined, 1, 24000, 16), MIME: MIMEWav}, nil
	}
	return &Audio{Data: joined, MIME: mime}, nil
}
