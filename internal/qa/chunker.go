package qa

import (
	"fmt"
	"strings"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

// Chunk 表示分块后的文本片段，构建后不再修改
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Chunker 固定窗口文本分块器，相邻块之间保留overlap个字符的重叠
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker 创建分块器，参数非法时返回配置错误
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("chunk size must be positive, got %d", chunkSize))
	}
	if overlap < 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("chunk overlap must not be negative, got %d", overlap))
	}
	if overlap >= chunkSize {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize))
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: overlap,
	}, nil
}

// ChunkSize 返回分块窗口大小
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap 返回相邻块重叠字符数
func (c *Chunker) Overlap() int {
	return c.chunkOverlap
}

// Split 将文本切分为多个chunk。窗口按chunkSize-overlap步进，
// 末尾块可以短于chunkSize；空白文本返回nil
func (c *Chunker) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := c.chunkSize - c.chunkOverlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
