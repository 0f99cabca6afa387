package qa

import (
	"context"
	"strings"
)

// promptTemplate 进程级固定提示词模板，{context}与{question}各出现一次。
// 上下文块之间用空行分隔；块内容本身包含空行时不做转义
const promptTemplate = `You are a helpful assistant. Use the following context to answer the question.

Context:
{context}

Question:
{question}

Answer:`

// chunkDelimiter 上下文块之间的分隔符
const chunkDelimiter = "\n\n"

// Composer 答案合成器：拼装提示词并调用生成模型
type Composer struct {
	generator Generator
}

// NewComposer 创建答案合成器
func NewComposer(generator Generator) *Composer {
	return &Composer{generator: generator}
}

// BuildPrompt 纯函数：按检索顺序拼接上下文块并填充模板
func BuildPrompt(contextChunks []Chunk, question string) string {
	texts := make([]string, 0, len(contextChunks))
	for _, chunk := range contextChunks {
		texts = append(texts, chunk.Text)
	}
	contextBlock := strings.Join(texts, chunkDelimiter)

	replacer := strings.NewReplacer(
		"{context}", contextBlock,
		"{question}", question,
	)
	return replacer.Replace(promptTemplate)
}

// Compose 对一个问题生成完整答案，不重试、不缓存
func (c *Composer) Compose(ctx context.Context, question string, contextChunks []Chunk) (string, error) {
	prompt := BuildPrompt(contextChunks, question)
	return c.generator.Generate(ctx, prompt)
}
