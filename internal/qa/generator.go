package qa

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

// Generator 定义答案生成接口，一次调用返回完整答案，不支持流式输出
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Ready() bool
}

// NoopGenerator 默认占位实现
type NoopGenerator struct{}

func (n *NoopGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", apperrors.NewGenerationError(errors.New("generation provider not configured"))
}

func (n *NoopGenerator) Ready() bool {
	return false
}

// OpenAIGenerator 使用OpenAI Chat Completion API生成答案
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewOpenAIGenerator 创建OpenAI答案生成器，apiKey为空时返回占位实现
func NewOpenAIGenerator(apiKey, model string, maxTokens int, temperature float64, timeout time.Duration) Generator {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopGenerator{}
	}
	if model == "" {
		model = openai.GPT4
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.NewGenerationError(errors.New("prompt is empty"))
	}
	if g.client == nil {
		return "", apperrors.NewGenerationError(errors.New("openai client not initialized"))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", apperrors.NewGenerationError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewGenerationError(errors.New("chat completion response empty"))
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) Ready() bool {
	return g.client != nil
}
