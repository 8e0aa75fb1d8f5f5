package fetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"

	"slidecast/internal/services"
)

const (
	defaultTimeout = 30 * time.Second
	maxImageBytes  = 32 << 20
	userAgent      = "slidecast/1.0"
)

// HTTPDoer describes the HTTP client used to download images.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads images over HTTP(S).
type Fetcher struct {
	client HTTPDoer

	mu    sync.Mutex
	cache map[string]image.Image
}

// New constructs a Fetcher. A nil client uses an http.Client with a 30s timeout.
func New(client HTTPDoer) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{client: client, cache: make(map[string]image.Image)}
}

// Fetch downloads and decodes the image at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, services.Wrap(services.ErrValidation, "fetch", "image", "empty url", nil)
	}
	f.mu.Lock()
	if img, ok := f.cache[url]; ok {
		f.mu.Unlock()
		return img, nil
	}
	f.mu.Unlock()

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "fetch", "decode", url, err)
	}

	f.mu.Lock()
	f.cache[url] = img
	f.mu.Unlock()
	return img, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "fetch", "build request", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "fetch", "get", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, "fetch", "get", fmt.Sprintf("%s returned %d", url, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "fetch", "read body", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, services.Wrap(services.ErrValidation, "fetch", "read body", fmt.Sprintf("%s exceeds %d bytes", url, maxImageBytes), nil)
	}
	return data, nil
}
