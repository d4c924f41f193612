// Package collab contains the production adapters behind the collaborator
// ports: an HTTP client for the model-scoring service and a plain fetcher for
// remote images. Failures come back as normalized collaborator errors so the
// pipeline can downgrade the affected check to skipped.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sello/internal/provider/models"
	"sello/internal/verification/ports"
)

// ScorerClient calls the model-scoring service over HTTP. One service hosts
// all scorers; the path selects the model.
type ScorerClient struct {
	baseURL string
	client  *http.Client
}

func NewScorerClient(baseURL string) *ScorerClient {
	return &ScorerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var _ ports.TextExtractor = (*ScorerClient)(nil)
var _ ports.ImageAnalyzer = (*ScorerClient)(nil)
var _ ports.FaceComparer = (*ScorerClient)(nil)
var _ ports.ImageModerator = (*ScorerClient)(nil)

func (c *ScorerClient) ExtractText(ctx context.Context, image models.ImageRef) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "ocr", "/v1/ocr", scoreRequest{Image: image.Bytes()}, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *ScorerClient) AnalyzeImage(ctx context.Context, image models.ImageRef) (ports.ImageMetrics, error) {
	var out ports.ImageMetrics
	if err := c.post(ctx, "analyzer", "/v1/analyze", scoreRequest{Image: image.Bytes()}, &out); err != nil {
		return ports.ImageMetrics{}, err
	}
	return out, nil
}

func (c *ScorerClient) CompareFaces(ctx context.Context, a, b models.ImageRef) (ports.FaceComparison, error) {
	var out ports.FaceComparison
	req := scoreRequest{Image: a.Bytes(), Reference: b.Bytes()}
	if err := c.post(ctx, "faces", "/v1/faces/compare", req, &out); err != nil {
		return ports.FaceComparison{}, err
	}
	return out, nil
}

func (c *ScorerClient) ModerateImage(ctx context.Context, image models.ImageRef) (ports.ModerationResult, error) {
	var out ports.ModerationResult
	if err := c.post(ctx, "moderator", "/v1/moderate", scoreRequest{Image: image.Bytes()}, &out); err != nil {
		return ports.ModerationResult{}, err
	}
	return out, nil
}

type scoreRequest struct {
	Image     []byte `json:"image"`
	Reference []byte `json:"reference,omitempty"`
}

func (c *ScorerClient) post(ctx context.Context, collaborator, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return ports.NewCollaboratorError(ports.ErrorInternal, collaborator, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return ports.NewCollaboratorError(ports.ErrorInternal, collaborator, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ports.NewCollaboratorError(ports.ErrorTimeout, collaborator, "request timed out", err)
		}
		return ports.NewCollaboratorError(ports.ErrorOutage, collaborator, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ports.NewCollaboratorError(ports.ErrorRateLimited, collaborator, "rate limited", nil)
	case resp.StatusCode >= 500:
		return ports.NewCollaboratorError(ports.ErrorOutage, collaborator,
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return ports.NewCollaboratorError(ports.ErrorBadData, collaborator,
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ports.NewCollaboratorError(ports.ErrorBadData, collaborator, "decode response", err)
	}
	return nil
}

// HTTPFetcher resolves remote image refs with a plain GET.
type HTTPFetcher struct {
	client  *http.Client
	maxSize int64
}

var _ ports.ImageFetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		maxSize: 16 << 20,
	}
}

func (f *HTTPFetcher) FetchImage(ctx context.Context, image models.ImageRef) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, image.URL(), nil)
	if err != nil {
		return nil, ports.NewCollaboratorError(ports.ErrorInternal, "fetcher", "build request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ports.NewCollaboratorError(ports.ErrorTimeout, "fetcher", "fetch timed out", err)
		}
		return nil, ports.NewCollaboratorError(ports.ErrorOutage, "fetcher", "fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ports.NewCollaboratorError(ports.ErrorBadData, "fetcher",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize))
	if err != nil {
		return nil, ports.NewCollaboratorError(ports.ErrorBadData, "fetcher", "read body", err)
	}
	return data, nil
}
