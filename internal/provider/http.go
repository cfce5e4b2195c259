package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder for response bodies
	"io"
	"net/http"
	"time"
)

// HTTPConfig configures an HTTPProvider. It matches the external contract
// in the pipeline's configuration: a base URL, an opaque bearer token, and
// a model identifier, but is not wired to any specific vendor's request
// shape beyond the generic {prompt, width, height} -> PNG bytes contract.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// HTTPProvider calls a remote text-to-image endpoint over HTTP. It makes a
// single attempt per call; retry policy is left to the caller, matching the
// external contract's "the core issues exactly one generation call" rule.
type HTTPProvider struct {
	cfg HTTPConfig
}

// NewHTTPProvider builds an HTTPProvider from config, defaulting to
// http.DefaultClient when none is supplied.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &HTTPProvider{cfg: cfg}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Model  string `json:"model,omitempty"`
}

// Generate issues a single POST to cfg.BaseURL with the prompt and target
// dimensions, and decodes the response body as an image. The timeout
// argument bounds the request independently of ctx's own deadline, so a
// caller-supplied per-request budget and an overall pipeline deadline both
// apply.
func (p *HTTPProvider) Generate(ctx context.Context, prompt string, width, height int, timeout time.Duration) (image.Image, error) {
	if p.cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider: no base URL configured")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt, Width: width, Height: height, Model: p.cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("provider: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("provider: status %d: %s", resp.StatusCode, string(data))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("provider: decode image: %w", err)
	}
	return img, nil
}
