package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

func buildTestStore(t *testing.T, chunks []Chunk, embeddings [][]float32) VectorStore {
	t.Helper()
	store := NewMemoryVectorStore()
	require.NoError(t, store.Insert(context.Background(), chunks, embeddings))
	return store
}

func TestRetriever_Retrieve(t *testing.T) {
	store := buildTestStore(t,
		[]Chunk{
			{Index: 0, Text: "about apples"},
			{Index: 1, Text: "bananas only"},
		},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
		})

	retriever := NewRetriever(store, newStubEmbedder(), 1)

	// 问题以"a"开头，向量与chunk 0一致
	chunks, err := retriever.Retrieve(context.Background(), "apples?")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "about apples", chunks[0].Text)
}

func TestRetriever_DefaultTopK(t *testing.T) {
	store := buildTestStore(t,
		[]Chunk{{Index: 0, Text: "a"}},
		[][]float32{{1, 0, 0}})

	retriever := NewRetriever(store, newStubEmbedder(), 0)
	assert.Equal(t, DefaultTopK, retriever.topK)
}

func TestRetriever_InvalidK(t *testing.T) {
	store := buildTestStore(t,
		[]Chunk{{Index: 0, Text: "a"}},
		[][]float32{{1, 0, 0}})
	retriever := NewRetriever(store, newStubEmbedder(), 4)

	for _, k := range []int{0, -3} {
		_, err := retriever.RetrieveK(context.Background(), "question", k)
		require.Error(t, err)
		assert.True(t, apperrors.IsConfigError(err))
	}
}

func TestRetriever_EmbedderFailure(t *testing.T) {
	store := buildTestStore(t,
		[]Chunk{{Index: 0, Text: "a"}},
		[][]float32{{1, 0, 0}})

	embedder := newStubEmbedder()
	embedder.setFail(apperrors.NewProviderError("embedding", errors.New("quota exceeded")))

	retriever := NewRetriever(store, embedder, 4)
	_, err := retriever.Retrieve(context.Background(), "question")
	require.Error(t, err)
	assert.True(t, apperrors.IsProviderError(err))
}
