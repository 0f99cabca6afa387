package qa

import (
	"context"
	"fmt"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

// DefaultTopK 默认检索块数量
const DefaultTopK = 4

// Retriever 问题检索器。embedder与构建索引时使用的实例相同，
// 由Pipeline构造时绑定，保证查询向量与索引向量来自同一模型
type Retriever struct {
	store    VectorStore
	embedder Embedder
	topK     int
}

// NewRetriever 创建检索器，topK<=0时使用默认值
func NewRetriever(store VectorStore, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		store:    store,
		embedder: embedder,
		topK:     topK,
	}
}

// Retrieve 返回与问题最相关的topK个文本块，按相似度降序
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]Chunk, error) {
	return r.RetrieveK(ctx, question, r.topK)
}

// RetrieveK 按指定k检索，k<=0返回配置错误
func (r *Retriever) RetrieveK(ctx context.Context, question string, k int) ([]Chunk, error) {
	if k <= 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("top-k must be positive, got %d", k))
	}

	queryEmbedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, apperrors.NewProviderError("vector search", err)
	}

	chunks := make([]Chunk, 0, len(matches))
	for _, match := range matches {
		chunks = append(chunks, match.Chunk)
	}
	return chunks, nil
}
