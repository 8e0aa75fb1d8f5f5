package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/services"
)

const speechPath = "/dev/captioned_speech"

// HTTPDoer describes the HTTP client used by the TTS client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type speechRequest struct {
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
	LangCode       string  `json:"lang_code"`
}

// KokoroClient requests recordings from a Kokoro-compatible TTS server.
type KokoroClient struct {
	baseURL  string
	apiKey   string
	voice    string
	language string
	speed    float64
	format   string
	client   HTTPDoer
}

// NewKokoroClient builds a client from the narration section of cfg. A nil
// client uses an http.Client with the configured timeout.
func NewKokoroClient(cfg *config.Config, client HTTPDoer) *KokoroClient {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	n := cfg.Narration
	if client == nil {
		client = &http.Client{Timeout: time.Duration(n.TimeoutSeconds) * time.Second}
	}
	return &KokoroClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(n.BaseURL), "/"),
		apiKey:   strings.TrimSpace(n.APIKey),
		voice:    n.Voice,
		language: n.Language,
		speed:    n.Speed,
		format:   n.ResponseFormat,
		client:   client,
	}
}

// Speak records text and writes the response body to w.
func (c *KokoroClient) Speak(ctx context.Context, text string, w io.Writer) error {
	payload, err := json.Marshal(speechRequest{
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: c.format,
		Speed:          c.speed,
		LangCode:       c.language,
	})
	if err != nil {
		return fmt.Errorf("encode speech request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "narration", "speech request", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrExternalTool, "narration", "speech request",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "narration", "read speech", "", err)
	}
	if n == 0 {
		return services.Wrap(services.ErrExternalTool, "narration", "read speech", "empty response body", nil)
	}
	return nil
}
