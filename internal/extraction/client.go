package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookly/backend/internal/domain"
)

// ErrDisabled is returned when no extraction endpoint is configured.
var ErrDisabled = errors.New("extraction is not configured")

type Input struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type Extractor interface {
	Extract(ctx context.Context, input Input, catalog []domain.Product) (*Payload, error)
}

// catalogHint gives the extraction endpoint the product names and prices
// it should try to match against.
type catalogHint struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Category   string `json:"category,omitempty"`
}

type extractRequest struct {
	Text        string        `json:"text"`
	ImageBase64 string        `json:"image_base64,omitempty"`
	Catalog     []catalogHint `json:"catalog"`
}

type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, input Input, catalog []domain.Product) (*Payload, error) {
	hints := make([]catalogHint, 0, len(catalog))
	for _, p := range catalog {
		hints = append(hints, catalogHint{Name: p.Name, PriceCents: p.PriceCents, Category: p.Category})
	}
	body, err := json.Marshal(extractRequest{
		Text:        input.Text,
		ImageBase64: input.ImageBase64,
		Catalog:     hints,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extraction endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	if payload.Intent == "" {
		return nil, errors.New("extraction response has no intent")
	}
	return &payload, nil
}

// Disabled is the extractor wired when no endpoint is configured. Manual
// entry and pre-parsed commits keep working without it.
type Disabled struct{}

func (Disabled) Extract(_ context.Context, _ Input, _ []domain.Product) (*Payload, error) {
	return nil, ErrDisabled
}
