package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

// Embedder 定义文本向量化接口
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Ready() bool
}

// NoopEmbedder 默认占位实现
type NoopEmbedder struct{}

func (n *NoopEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, apperrors.NewProviderError("embedding", errors.New("embedding provider not configured"))
}

func (n *NoopEmbedder) Dimensions() int {
	return 0
}

func (n *NoopEmbedder) Ready() bool {
	return false
}

var embeddingDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
}

// OpenAIEmbedder 使用OpenAI Embedding API
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	timeout    time.Duration
	limiter    sync.Mutex
}

// NewOpenAIEmbedder 创建OpenAI嵌入向量生成器，apiKey为空时返回占位实现
func NewOpenAIEmbedder(apiKey, model string, timeout time.Duration) Embedder {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopEmbedder{}
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := openai.NewClient(apiKey)
	dims, ok := embeddingDimensions[model]
	if !ok {
		dims = 1536
	}

	return &OpenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: dims,
		timeout:    timeout,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewProviderError("embedding", errors.New("text is empty"))
	}
	if e.client == nil {
		return nil, apperrors.NewProviderError("embedding", errors.New("openai client not initialized"))
	}

	e.limiter.Lock()
	defer e.limiter.Unlock()

	// 每次外部调用设置有界超时，避免流水线无限挂起
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, apperrors.NewProviderError("embedding", err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewProviderError("embedding", errors.New("embedding response empty"))
	}

	embedding := resp.Data[0].Embedding
	result := make([]float32, len(embedding))
	copy(result, embedding)
	return result, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}
