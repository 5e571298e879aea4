package speech

import (
	"context"
	"encoding/binary"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// EdgeTTS synthesizes speech with the Microsoft Edge read-aloud
// service over a websocket. It needs no API key and serves as the
// fallback engine. Output is MP3.
type EdgeTTS struct {
	endpoint string
	dialer   *websocket.Dialer
}

const (
	edgeEndpoint = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeToken    = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeFormat   = "audio-24khz-48kbitrate-mono-mp3"
)

func NewEdgeTTS() *EdgeTTS {
	return &EdgeTTS{
		endpoint: edgeEndpoint,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
	}
}

func (e *EdgeTTS) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	connID := strings.ReplaceAll(uuid.NewString(), "-", "")
	url := fmt.Sprintf("%s?TrustedClientToken=%s&ConnectionId=%s", e.endpoint, edgeToken, connID)

	header := http.Header{}
	header.Set("Origin", "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold")
	header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	conn, _, err := e.dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("edge tts dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	timestamp := time.Now().UTC().Format(time.RFC1123)

	speechConfig := `{"context":{"synthesis":{"audio":{"metadataoptions":` +
		`{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},` +
		`"outputFormat":"` + edgeFormat + `"}}}}`
	configMsg := "X-Timestamp:" + timestamp + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" + speechConfig
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return nil, fmt.Errorf("edge tts config: %w", err)
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>`+
			`<voice name='%s'>%s</voice></speak>`,
		voice, html.EscapeString(text))
	ssmlMsg := "X-RequestId:" + connID + "\r\n" +
		"X-Timestamp:" + timestamp + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"Path:ssml\r\n\r\n" + ssml
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return nil, fmt.Errorf("edge tts ssml: %w", err)
	}

	var audio []byte
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("edge tts read: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if len(audio) == 0 {
					return nil, fmt.Errorf("edge tts: no audio received")
				}
				return &Audio{Data: audio, MIME: MIMEMpeg}, nil
			}
		case websocket.BinaryMessage:
			// First two bytes are the big-endian header length; the MP3
			// payload follows the header.
			if len(data) < 2 {
				continue
			}
			headerLen := int(binary.BigEndian.Uint16(data[:2]))
			if len(data) < 2+headerLen {
				continue
			}
			if !strings.Contains(string(data[2:2+headerLen]), "Path:audio") {
				continue
			}
			audio = append(audio, data[2+headerLen:]...)
		}
	}
}

// Close releases resources.
func (e *EdgeTTS) Close() {}
