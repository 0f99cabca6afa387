package bootstrap

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/aihub/docqa-go/internal/config"
	"github.com/aihub/docqa-go/internal/database"
	"github.com/aihub/docqa-go/internal/extract"
	"github.com/aihub/docqa-go/internal/logger"
	"github.com/aihub/docqa-go/internal/qa"
	"github.com/aihub/docqa-go/internal/services"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	QAService    *services.QAService
	cleanupTasks []func() error
}

// Shutdown releases all resources in reverse registration order.
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Warn("cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}

// Init bootstraps configuration, logger, optional storage backends and the
// QA pipeline manager required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load dynamic configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}

	// Optional Postgres for document/question logging.
	if cfg.Database.Enabled {
		if _, err := database.InitDB(); err != nil {
			logger.Warn("database unavailable, QA logging disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, database.CloseDB)
		}
	}

	// Optional Redis for ingest status caching.
	if cfg.Redis.Enabled {
		if _, err := database.InitRedis(); err != nil {
			logger.Warn("redis unavailable, status caching disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
		}
	}

	// Model providers.
	embedder := qa.NewOpenAIEmbedder(cfg.AI.OpenAIAPIKey, cfg.AI.EmbeddingModel, cfg.AI.RequestTimeout)
	generator := qa.NewOpenAIGenerator(cfg.AI.OpenAIAPIKey, cfg.AI.ChatModel,
		cfg.AI.MaxTokens, cfg.AI.Temperature, cfg.AI.RequestTimeout)
	if !embedder.Ready() || !generator.Ready() {
		logger.Warn("OPENAI_API_KEY not set, ingest and ask will fail until configured")
	}

	// Vector store backend.
	storeFactory := newStoreFactory(cfg, embedder)

	manager := qa.NewManager(embedder, generator, storeFactory, cfg.QA)

	// Extraction layer.
	ocrClient := extract.NewOCRClient(cfg.OCR.Endpoint, cfg.OCR.Timeout)
	if !ocrClient.Ready() {
		logger.Info("OCR endpoint not configured, image uploads will be skipped")
	}
	extractor := extract.DefaultManager(ocrClient)

	metrics := services.NewMetricsService(logrus.StandardLogger())
	app.QAService = services.NewQAService(manager, extractor, metrics, cfg)

	logger.Info("application bootstrapped",
		zap.String("env", cfg.Server.Env),
		zap.String("vector_store", cfg.QA.VectorStore.Provider))

	return app, nil
}

// newStoreFactory 按配置选择向量存储后端，默认使用进程内存储
func newStoreFactory(cfg *config.Config, embedder qa.Embedder) qa.StoreFactory {
	if cfg.QA.VectorStore.Provider != "milvus" {
		return qa.NewMemoryStoreFactory()
	}

	milvusCfg := cfg.QA.VectorStore.Milvus
	vectorSize := milvusCfg.VectorSize
	if embedder.Dimensions() > 0 {
		vectorSize = embedder.Dimensions()
	}
	return func(ctx context.Context) (qa.VectorStore, error) {
		return qa.NewMilvusVectorStore(ctx, qa.MilvusOptions{
			Address:          milvusCfg.Address,
			Username:         milvusCfg.Username,
			Password:         milvusCfg.Password,
			CollectionPrefix: milvusCfg.CollectionPrefix,
			Database:         milvusCfg.Database,
			UseTLS:           milvusCfg.TLS,
			VectorSize:       vectorSize,
		})
	}
}
