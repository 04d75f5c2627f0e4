package embed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	folioerrors "github.com/atelierhq/folio/internal/errors"
	"github.com/atelierhq/folio/internal/vec"
)

// Ollama defaults.
const (
	DefaultOllamaHost     = "http://localhost:11434"
	DefaultOllamaModel    = "all-minilm"
	DefaultOllamaImgModel = "llava"
	ollamaPoolSize        = 4
)

// OllamaConfig configures the Ollama provider.
type OllamaConfig struct {
	Host       string
	Model      string
	ImageModel string
	Timeout    time.Duration

	// SkipHealthCheck bypasses the startup availability probe (tests).
	SkipHealthCheck bool
}

// OllamaProvider generates embeddings via Ollama's HTTP API. Query text
// goes to the text model, uploaded images to the multimodal model.
type OllamaProvider struct {
	client    *http.Client
	transport *http.Transport
	config    OllamaConfig

	mu     sync.RWMutex
	closed bool
	dims   int
}

var _ Provider = (*OllamaProvider)(nil)

type embedRequest struct {
	Model  string   `json:"model"`
	Input  string   `json:"input"`
	Images []string `json:"images,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaProvider creates an Ollama provider and probes the endpoint
// unless SkipHealthCheck is set. Dimensions are detected from a probe
// embedding so snapshot and query vectors are guaranteed to agree.
func NewOllamaProvider(ctx context.Context, cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultOllamaImgModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        ollamaPoolSize,
		MaxIdleConnsPerHost: ollamaPoolSize,
		IdleConnTimeout:     10 * time.Second,
	}

	// No client-level timeout: per-request contexts carry the deadline so
	// the search timeout governs provider calls too.
	p := &OllamaProvider{
		client:    &http.Client{Transport: transport},
		transport: transport,
		config:    cfg,
	}

	if !cfg.SkipHealthCheck {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		probe, err := p.EmbedText(probeCtx, "dimension probe")
		if err != nil {
			transport.CloseIdleConnections()
			return nil, err
		}
		p.dims = len(probe)
	}

	return p, nil
}

// EmbedText generates an embedding for query text.
func (p *OllamaProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return p.embed(ctx, embedRequest{Model: p.config.Model, Input: text})
}

// EmbedImage generates an embedding for raw image bytes via the
// multimodal model.
func (p *OllamaProvider) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	return p.embed(ctx, embedRequest{
		Model:  p.config.ImageModel,
		Input:  "",
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
}

func (p *OllamaProvider) embed(ctx context.Context, reqBody embedRequest) ([]float32, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, errClosed()
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeInternal, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, folioerrors.New(folioerrors.ErrCodeProviderTimeout, "embedding request timed out", err)
		}
		return nil, folioerrors.ProviderError("ollama unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, folioerrors.ProviderError("ollama returned "+resp.Status+": "+string(msg), nil)
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, folioerrors.ProviderError("invalid ollama response", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, folioerrors.ProviderError("ollama returned no embedding", nil)
	}

	return vec.Normalize(result.Embeddings[0]), nil
}

// Dimensions returns the detected text embedding dimension.
func (p *OllamaProvider) Dimensions() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dims
}

// ModelName returns the text model identifier.
func (p *OllamaProvider) ModelName() string {
	return p.config.Model
}

// Available probes the Ollama endpoint.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Close releases connection pool resources.
func (p *OllamaProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.transport.CloseIdleConnections()
	return nil
}
