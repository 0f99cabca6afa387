package qa

import (
	"context"
	"errors"
	"fmt"
)

// MemoryVectorStore 进程内向量存储，默认后端。
// Insert一次写满后只读，因此Search无需加锁
type MemoryVectorStore struct {
	chunks     []Chunk
	embeddings [][]float32
}

// NewMemoryVectorStore 创建内存向量存储
func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{}
}

func (s *MemoryVectorStore) Insert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks (%d) and embeddings (%d) length mismatch", len(chunks), len(embeddings))
	}
	if len(s.chunks) > 0 {
		return errors.New("memory vector store is write-once")
	}

	s.chunks = make([]Chunk, len(chunks))
	copy(s.chunks, chunks)
	s.embeddings = make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		vec := make([]float32, len(emb))
		copy(vec, emb)
		s.embeddings[i] = vec
	}
	return nil
}

func (s *MemoryVectorStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]ScoredChunk, error) {
	if len(queryEmbedding) == 0 {
		return nil, errors.New("query embedding is empty")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	queryNorm := vectorNorm(queryEmbedding)
	if queryNorm == 0 {
		return nil, errors.New("query embedding norm is zero")
	}

	results := make([]ScoredChunk, 0, len(s.chunks))
	for i, chunk := range s.chunks {
		score := cosineSimilarity(queryEmbedding, s.embeddings[i], queryNorm)
		results = append(results, ScoredChunk{Chunk: chunk, Score: score})
	}

	sortScoredChunks(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryVectorStore) Count() int {
	return len(s.chunks)
}

func (s *MemoryVectorStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryVectorStore) Ready() bool {
	return true
}
