package qa

import (
	"context"
	"strings"

	apperrors "github.com/aihub/docqa-go/internal/errors"
	"github.com/aihub/docqa-go/internal/logger"
	"go.uber.org/zap"
)

// Exchange 一次问答的完整记录，供持久化层使用
type Exchange struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Context  []Chunk `json:"context"`
}

// Pipeline 问答流水线快照：一个已构建的向量索引加上检索与合成配置。
// 发布后不可变，可被任意数量的并发Answer调用安全读取
type Pipeline struct {
	store      VectorStore
	retriever  *Retriever
	composer   *Composer
	chunkCount int
}

// PipelineOptions 流水线构建参数
type PipelineOptions struct {
	Chunker   *Chunker
	Embedder  Embedder
	Generator Generator
	Store     VectorStore
	TopK      int
}

// BuildPipeline 从原始文本构建流水线快照：分块、逐块向量化、写入索引。
// 任一块向量化失败则整体失败并释放已写入的存储，不保留半成品索引
func BuildPipeline(ctx context.Context, text string, opts PipelineOptions) (*Pipeline, error) {
	chunks := opts.Chunker.Split(text)
	if len(chunks) == 0 {
		return nil, apperrors.NewEmptyCorpusError()
	}

	embeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := opts.Embedder.Embed(ctx, chunk.Text)
		if err != nil {
			discardStore(opts.Store)
			return nil, apperrors.NewIndexBuildError(err)
		}
		embeddings = append(embeddings, vec)
	}

	if err := opts.Store.Insert(ctx, chunks, embeddings); err != nil {
		discardStore(opts.Store)
		return nil, apperrors.NewIndexBuildError(err)
	}

	logger.Info("qa pipeline built",
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", opts.Chunker.ChunkSize()),
		zap.Int("overlap", opts.Chunker.Overlap()))

	return &Pipeline{
		store:      opts.Store,
		retriever:  NewRetriever(opts.Store, opts.Embedder, opts.TopK),
		composer:   NewComposer(opts.Generator),
		chunkCount: len(chunks),
	}, nil
}

func discardStore(store VectorStore) {
	// 构建失败的存储与请求上下文解绑后清理，避免半成品索引泄漏
	if err := store.Close(context.Background()); err != nil {
		logger.Warn("failed to discard partial vector store", zap.Error(err))
	}
}

// Answer 对一个问题执行检索和答案合成
func (p *Pipeline) Answer(ctx context.Context, question string) (*Exchange, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.NewInvalidInputError("question", "must not be empty")
	}

	contextChunks, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	answer, err := p.composer.Compose(ctx, question, contextChunks)
	if err != nil {
		return nil, err
	}

	return &Exchange{
		Question: question,
		Answer:   answer,
		Context:  contextChunks,
	}, nil
}

// ChunkCount 返回快照中的文本块数量
func (p *Pipeline) ChunkCount() int {
	return p.chunkCount
}

// Close 释放快照持有的向量存储
func (p *Pipeline) Close(ctx context.Context) error {
	return p.store.Close(ctx)
}
