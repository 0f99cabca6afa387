package qa

import (
	"context"
	"strings"
	"sync"
)

// stubEmbedder 确定性向量化桩：按文本内容返回固定向量
type stubEmbedder struct {
	mu     sync.Mutex
	fail   error
	vecFor func(text string) []float32
	calls  int
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vecFor: func(text string) []float32 {
			// 基于首字符的简单确定性编码
			vec := []float32{1, 0, 0}
			if strings.HasPrefix(text, "b") {
				vec = []float32{0, 1, 0}
			}
			return vec
		},
	}
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	return s.vecFor(text), nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }
func (s *stubEmbedder) Ready() bool     { return true }

func (s *stubEmbedder) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// stubGenerator 生成桩：记录收到的提示词并返回固定答案
type stubGenerator struct {
	mu      sync.Mutex
	answer  string
	fail    error
	prompts []string
}

func newStubGenerator(answer string) *stubGenerator {
	return &stubGenerator{answer: answer}
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.prompts = append(s.prompts, prompt)
	return s.answer, nil
}

func (s *stubGenerator) Ready() bool { return true }

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}
