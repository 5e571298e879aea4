package speech

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// narrationFraming is prepended to every chunk sent to the TTS model.
const narrationFraming = "Read in a bold, confident and a corporate professional tone:\n\n"

// GeminiTTS synthesizes speech with a Gemini TTS model and one of its
// prebuilt voices. Output is raw 24 kHz 16-bit mono PCM.
type GeminiTTS struct {
	client *genai.Client
	model  string
}

func NewGeminiTTS(ctx context.Context, apiKey, model string) (*GeminiTTS, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing google api key")
	}
	if model == "" {
		model = "gemini-2.5-pro-preview-tts"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiTTS{client: c, model: model}, nil
}

func (g *GeminiTTS) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{
			genai.NewContentFromText(narrationFraming+text, genai.RoleUser),
		},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: voice,
					},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("gemini tts: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini tts: empty response")
	}
	part := res.Candidates[0].Content.Parts[0]
	if part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil, fmt.Errorf("gemini tts: no audio data in response")
	}

	return &Audio{Data: part.InlineData.Data, MIME: mimePCM}, nil
}

// Close releases resources.
func (g *GeminiTTS) Close() {}
