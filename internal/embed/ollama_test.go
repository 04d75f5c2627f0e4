package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

func fakeOllama(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embed":
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			v := make([]float32, dims)
			v[0] = 1.0
			_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{v}})
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOllamaProvider_DetectsDimensions(t *testing.T) {
	srv := fakeOllama(t, 384)
	defer srv.Close()

	p, err := NewOllamaProvider(context.Background(), OllamaConfig{Host: srv.URL})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.Equal(t, 384, p.Dimensions())
	assert.True(t, p.Available(context.Background()))
}

func TestOllamaProvider_EmbedTextNormalized(t *testing.T) {
	srv := fakeOllama(t, 8)
	defer srv.Close()

	p, err := NewOllamaProvider(context.Background(), OllamaConfig{Host: srv.URL, SkipHealthCheck: true})
	require.NoError(t, err)

	v, err := p.EmbedText(context.Background(), "ceramics")
	require.NoError(t, err)
	require.Len(t, v, 8)
	assert.InDelta(t, 1.0, float64(v[0]), 1e-6)
}

func TestOllamaProvider_UnreachableIsRetryable(t *testing.T) {
	p, err := NewOllamaProvider(context.Background(), OllamaConfig{
		Host:            "http://127.0.0.1:1",
		SkipHealthCheck: true,
	})
	require.NoError(t, err)

	_, err = p.EmbedText(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, folioerrors.IsRetryable(err))
}

func TestOllamaProvider_ServerErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(context.Background(), OllamaConfig{Host: srv.URL, SkipHealthCheck: true})
	require.NoError(t, err)

	_, err = p.EmbedText(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, folioerrors.ErrCodeProviderUnavailable, folioerrors.GetCode(err))
}
