package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/migueleog01/partselect/internal/domain"
	"github.com/migueleog01/partselect/internal/port"
)

// OpenAIEmbedder talks to an OpenAI-compatible /embeddings endpoint. The API
// key is resolved lazily on first use, exactly once; a failed resolution is
// sticky and surfaced on every call rather than retried silently.
type OpenAIEmbedder struct {
	apiKeyEnv string
	model     string
	baseURL   string
	client    *http.Client

	initOnce sync.Once
	apiKey   string
	initErr  error
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOpenAIEmbedder(apiKeyEnv, model, baseURL string) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIEmbedder{
		apiKeyEnv: apiKeyEnv,
		model:     model,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewOllamaEmbedder targets a local Ollama server, which accepts any API key.
func NewOllamaEmbedder(model, baseURL string) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	e := &OpenAIEmbedder{
		model:   model,
		baseURL: baseURL,
		apiKey:  "ollama",
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	e.initOnce.Do(func() {})
	return e
}

func (e *OpenAIEmbedder) init() error {
	e.initOnce.Do(func() {
		key := os.Getenv(e.apiKeyEnv)
		if key == "" {
			e.initErr = fmt.Errorf("%w: API key not found in environment variable %s",
				domain.ErrEmbeddingUnavailable, e.apiKeyEnv)
			return
		}
		e.apiKey = key
	})
	return e.initErr
}

// Embed encodes the texts with the role prefix applied to each input, in
// batches, and unit-normalizes every returned vector.
func (e *OpenAIEmbedder) Embed(texts []string, role port.Role) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.init(); err != nil {
		return nil, err
	}

	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = string(role) + ": " + t
	}

	const maxBatch = 100
	var all [][]float32
	for i := 0; i < len(prefixed); i += maxBatch {
		end := i + maxBatch
		if end > len(prefixed) {
			end = len(prefixed)
		}
		vectors, err := e.embedBatch(prefixed[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}

	for i := range all {
		all[i] = Normalize(all[i])
	}
	return all, nil
}

func (e *OpenAIEmbedder) embedBatch(texts []string) ([][]float32, error) {
	reqBody := embeddingRequest{
		Input: texts,
		Model: e.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", e.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return nil, fmt.Errorf("failed to parse response (body: %s): %w", preview, err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s", embResp.Error.Message)
	}

	vectors := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index >= 0 && data.Index < len(vectors) {
			vectors[data.Index] = data.Embedding
		}
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embedding API returned no vector for input %d", i)
		}
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}
