package qa

import (
	"context"
	"math"
	"sort"
)

// ScoredChunk 检索命中的文本块及其相似度得分
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// VectorStore 向量存储抽象。一次摄取对应一个存储实例：
// Insert在构建阶段调用一次，发布后只读；快照被替换时调用Close释放资源
type VectorStore interface {
	Insert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]ScoredChunk, error)
	Count() int
	Close(ctx context.Context) error
	Ready() bool
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func cosineSimilarity(a, b []float32, normA float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot float64
	var normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (normA * math.Sqrt(normB))
}

// sortScoredChunks 按得分降序排序，得分相同时按块序号升序保证确定性
func sortScoredChunks(results []ScoredChunk) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
}
