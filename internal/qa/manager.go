package qa

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/aihub/docqa-go/internal/config"
	apperrors "github.com/aihub/docqa-go/internal/errors"
	"github.com/aihub/docqa-go/internal/logger"
	"go.uber.org/zap"
)

// StoreFactory 为每次摄取创建一个新的向量存储实例
type StoreFactory func(ctx context.Context) (VectorStore, error)

// Manager 持有进程内唯一的活动流水线快照。
// 读端通过原子指针取快照，整个请求期间只使用这一个快照；
// 写端串行执行，新快照在旁路完整构建成功后才原子发布，
// 失败时已发布的快照保持不变
type Manager struct {
	current   atomic.Pointer[Pipeline]
	ingestMu  sync.Mutex
	embedder  Embedder
	generator Generator
	newStore  StoreFactory
	qaCfg     config.QAConfig
}

// NewManager 创建流水线管理器
func NewManager(embedder Embedder, generator Generator, newStore StoreFactory, qaCfg config.QAConfig) *Manager {
	return &Manager{
		embedder:  embedder,
		generator: generator,
		newStore:  newStore,
		qaCfg:     qaCfg,
	}
}

// NewMemoryStoreFactory 返回内存向量存储工厂
func NewMemoryStoreFactory() StoreFactory {
	return func(ctx context.Context) (VectorStore, error) {
		return NewMemoryVectorStore(), nil
	}
}

// Ready 是否存在可用的流水线快照
func (m *Manager) Ready() bool {
	return m.current.Load() != nil
}

// Ingest 用新语料整体替换当前流水线。并发摄取串行执行，后完成者生效；
// 构建失败时不触碰已发布的快照
func (m *Manager) Ingest(ctx context.Context, text string) (*Pipeline, error) {
	m.ingestMu.Lock()
	defer m.ingestMu.Unlock()

	chunker, err := NewChunker(m.qaCfg.ChunkSize, m.qaCfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	store, err := m.newStore(ctx)
	if err != nil {
		return nil, apperrors.NewIndexBuildError(err)
	}

	pipeline, err := BuildPipeline(ctx, text, PipelineOptions{
		Chunker:   chunker,
		Embedder:  m.embedder,
		Generator: m.generator,
		Store:     store,
		TopK:      m.qaCfg.TopK,
	})
	if err != nil {
		return nil, err
	}

	old := m.current.Swap(pipeline)
	if old != nil {
		// 旧快照整体废弃；进行中的Answer仍持有旧指针，读取不受影响
		if err := old.Close(context.Background()); err != nil {
			logger.Warn("failed to release replaced pipeline", zap.Error(err))
		}
	}

	logger.Info("qa pipeline published", zap.Int("chunks", pipeline.ChunkCount()))
	return pipeline, nil
}

// Answer 在当前快照上回答问题，无快照时返回未就绪错误
func (m *Manager) Answer(ctx context.Context, question string) (*Exchange, error) {
	pipeline := m.current.Load()
	if pipeline == nil {
		return nil, apperrors.NewNotReadyError()
	}
	return pipeline.Answer(ctx, question)
}
