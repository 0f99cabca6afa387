package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aihub/docqa-go/internal/config"
	apperrors "github.com/aihub/docqa-go/internal/errors"
)

func newTestManager(embedder Embedder, generator Generator) *Manager {
	return NewManager(embedder, generator, NewMemoryStoreFactory(), config.QAConfig{
		ChunkSize:    500,
		ChunkOverlap: 50,
		TopK:         4,
	})
}

func TestManager_AnswerBeforeIngest(t *testing.T) {
	manager := newTestManager(newStubEmbedder(), newStubGenerator("x"))

	assert.False(t, manager.Ready())
	_, err := manager.Answer(context.Background(), "anything?")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotReadyError(err))
}

func TestManager_IngestEmptyCorpus(t *testing.T) {
	manager := newTestManager(newStubEmbedder(), newStubGenerator("x"))

	for _, text := range []string{"", "   \n\t "} {
		_, err := manager.Ingest(context.Background(), text)
		require.Error(t, err)
		assert.True(t, apperrors.IsEmptyCorpusError(err))
		assert.False(t, manager.Ready())
	}
}

func TestManager_EndToEnd(t *testing.T) {
	embedder := newStubEmbedder()
	generator := newStubGenerator("Paris")
	manager := newTestManager(embedder, generator)

	text := "Paris is the capital of France.\n\nThe Eiffel Tower is in Paris."
	pipeline, err := manager.Ingest(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 1, pipeline.ChunkCount())
	assert.True(t, manager.Ready())

	exchange, err := manager.Answer(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", exchange.Answer)
	require.Len(t, exchange.Context, 1)
	assert.Equal(t, text, exchange.Context[0].Text)

	prompt := generator.lastPrompt()
	assert.Contains(t, prompt, text)
	assert.Contains(t, prompt, "What is the capital of France?")
}

func TestManager_DeterministicAnswers(t *testing.T) {
	embedder := newStubEmbedder()
	generator := newStubGenerator("same")
	manager := newTestManager(embedder, generator)

	text := "alpha beta gamma"
	_, err := manager.Ingest(context.Background(), text)
	require.NoError(t, err)
	first, err := manager.Answer(context.Background(), "a question")
	require.NoError(t, err)

	_, err = manager.Ingest(context.Background(), text)
	require.NoError(t, err)
	second, err := manager.Answer(context.Background(), "a question")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Context, second.Context)
}

func TestManager_FailedIngestPreservesPrevious(t *testing.T) {
	embedder := newStubEmbedder()
	manager := newTestManager(embedder, newStubGenerator("old answer"))

	_, err := manager.Ingest(context.Background(), "the original corpus")
	require.NoError(t, err)

	embedder.setFail(apperrors.NewProviderError("embedding", errors.New("timeout")))
	_, err = manager.Ingest(context.Background(), "replacement corpus")
	require.Error(t, err)
	assert.True(t, apperrors.IsIndexBuildError(err))

	// 旧快照保持可用
	embedder.setFail(nil)
	exchange, err := manager.Answer(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, "old answer", exchange.Answer)
	require.NotEmpty(t, exchange.Context)
	assert.Equal(t, "the original corpus", exchange.Context[0].Text)
}

func TestManager_ConcurrentIngestAtomicity(t *testing.T) {
	embedder := newStubEmbedder()
	manager := NewManager(embedder, newStubGenerator("x"), NewMemoryStoreFactory(), config.QAConfig{
		ChunkSize:    8,
		ChunkOverlap: 2,
		TopK:         10,
	})

	corpusA := strings.Repeat("a", 40)
	corpusB := strings.Repeat("b", 40)

	var wg sync.WaitGroup
	for _, corpus := range []string{corpusA, corpusB} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			_, err := manager.Ingest(context.Background(), text)
			assert.NoError(t, err)
		}(corpus)
	}
	wg.Wait()

	// 可见的快照必须完整来自其中一次摄取，不能混合
	exchange, err := manager.Answer(context.Background(), "a")
	require.NoError(t, err)
	require.NotEmpty(t, exchange.Context)

	letter := exchange.Context[0].Text[:1]
	for _, chunk := range exchange.Context {
		assert.Equal(t, strings.Repeat(letter, len(chunk.Text)), chunk.Text)
	}
}

func TestBuildPipeline_EmbedFailureDiscardsStore(t *testing.T) {
	embedder := newStubEmbedder()
	embedder.setFail(apperrors.NewProviderError("embedding", errors.New("boom")))

	chunker, err := NewChunker(10, 2)
	require.NoError(t, err)

	store := NewMemoryVectorStore()
	_, err = BuildPipeline(context.Background(), "some corpus text", PipelineOptions{
		Chunker:   chunker,
		Embedder:  embedder,
		Generator: newStubGenerator("x"),
		Store:     store,
		TopK:      4,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsIndexBuildError(err))
}

func TestPipeline_AnswerEmptyQuestion(t *testing.T) {
	manager := newTestManager(newStubEmbedder(), newStubGenerator("x"))
	_, err := manager.Ingest(context.Background(), "corpus")
	require.NoError(t, err)

	_, err = manager.Answer(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}
