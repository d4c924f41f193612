package collab_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sello/internal/provider/models"
	"sello/internal/verification/collab"
	"sello/internal/verification/ports"
)

func TestScorerClientExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ocr", r.URL.Path)
		var req struct {
			Image []byte `json:"image"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []byte("front"), req.Image)

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "APELLIDOS: GARCIA"})
	}))
	defer srv.Close()

	client := collab.NewScorerClient(srv.URL)
	text, err := client.ExtractText(context.Background(), models.LocalImage([]byte("front")))
	require.NoError(t, err)
	assert.Equal(t, "APELLIDOS: GARCIA", text)
}

func TestScorerClientErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		category  ports.ErrorCategory
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, ports.ErrorRateLimited, true},
		{"server error", http.StatusInternalServerError, ports.ErrorOutage, true},
		{"client error", http.StatusBadRequest, ports.ErrorBadData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := collab.NewScorerClient(srv.URL)
			_, err := client.AnalyzeImage(context.Background(), models.LocalImage([]byte("x")))

			require.Error(t, err)
			assert.Equal(t, tt.category, ports.GetCategory(err))
			assert.Equal(t, tt.retryable, ports.IsRetryable(err))
		})
	}
}

func TestScorerClientUnreachable(t *testing.T) {
	client := collab.NewScorerClient("http://127.0.0.1:1")
	_, err := client.ModerateImage(context.Background(), models.LocalImage([]byte("x")))

	require.Error(t, err)
	assert.Equal(t, ports.ErrorOutage, ports.GetCategory(err))
	assert.True(t, ports.IsRetryable(err))
}

func TestScorerClientCompareFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/faces/compare", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]float64{"Similarity": 0.87})
	}))
	defer srv.Close()

	client := collab.NewScorerClient(srv.URL)
	comparison, err := client.CompareFaces(context.Background(),
		models.LocalImage([]byte("selfie")), models.LocalImage([]byte("card")))
	require.NoError(t, err)
	assert.InDelta(t, 0.87, comparison.Similarity, 1e-9)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	fetcher := collab.NewHTTPFetcher()

	data, err := fetcher.FetchImage(context.Background(), models.RemoteImage(srv.URL+"/photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestHTTPFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	fetcher := collab.NewHTTPFetcher()
	_, err := fetcher.FetchImage(context.Background(), models.RemoteImage(srv.URL+"/missing.jpg"))

	require.Error(t, err)
	assert.Equal(t, ports.ErrorBadData, ports.GetCategory(err))
}
