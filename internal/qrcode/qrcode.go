package qrcode

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Generator renders a payload into a scannable image via a public QR image
// service. The remote call is best effort: on any failure or timeout an
// inline SVG placeholder is returned instead, so payload generation never
// waits longer than the configured timeout and never fails on the image.
type Generator struct {
	baseURL string
	size    int
	timeout time.Duration
	client  *http.Client
	group   singleflight.Group
}

func NewGenerator(baseURL string, size int, timeout time.Duration) *Generator {
	return &Generator{
		baseURL: baseURL,
		size:    size,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Image holds both renderings of a payload: the data URI to embed directly
// and the remote service URL kept as a reference for clients that prefer it.
type Image struct {
	DataURI   string
	RemoteURL string
}

// Generate returns the image for payload. Concurrent calls for the same
// payload share one remote request.
func (g *Generator) Generate(ctx context.Context, payload string) Image {
	remoteURL := g.remoteURL(payload)

	v, _, _ := g.group.Do(payload, func() (any, error) {
		dataURI, err := g.fetch(ctx, remoteURL)
		if err != nil {
			log.Warn().Err(err).Msg("qr image fetch failed, using fallback")
			dataURI = fallbackSVG(g.size)
		}
		return dataURI, nil
	})

	return Image{DataURI: v.(string), RemoteURL: remoteURL}
}

func (g *Generator) remoteURL(payload string) string {
	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", g.size, g.size))
	q.Set("data", payload)
	return g.baseURL + "?" + q.Encode()
}

func (g *Generator) fetch(ctx context.Context, remoteURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch qr image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("qr service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read qr image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// fallbackSVG is the local placeholder shown when the remote service is
// unreachable: the copy-paste code still works, only the scannable image is
// degraded.
func fallbackSVG(size int) string {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#fff" stroke="#000" stroke-width="4"/>`+
			`<text x="50%%" y="45%%" text-anchor="middle" font-family="sans-serif" font-size="24">PIX</text>`+
			`<text x="50%%" y="60%%" text-anchor="middle" font-family="sans-serif" font-size="12">use o codigo copia e cola</text>`+
			`</svg>`,
		size, size, size, size)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
