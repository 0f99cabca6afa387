package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aihub/docqa-go/internal/config"
	"github.com/aihub/docqa-go/internal/database"
	apperrors "github.com/aihub/docqa-go/internal/errors"
	"github.com/aihub/docqa-go/internal/extract"
	"github.com/aihub/docqa-go/internal/logger"
	"github.com/aihub/docqa-go/internal/models"
	"github.com/aihub/docqa-go/internal/qa"
)

// ingestStatusKey Redis中摄取状态的缓存键
const ingestStatusKey = "docqa:ingest:status"

var validate = validator.New()

// AskRequest 提问请求
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// AskResponse 提问响应
type AskResponse struct {
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Context  []qa.Chunk `json:"context,omitempty"`
}

// SkippedFile 被跳过的上传文件及原因
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// IngestResult 摄取结果
type IngestResult struct {
	Status    string        `json:"status"`
	Documents int           `json:"documents"`
	Chunks    int           `json:"chunks"`
	Skipped   []SkippedFile `json:"skipped,omitempty"`
}

// QAService 文档问答服务：文件提取、语料摄取与问答编排
type QAService struct {
	manager   *qa.Manager
	extractor *extract.Manager
	metrics   *MetricsService
	cfg       *config.Config

	// 当前语料对应的文档记录，用于问答日志关联
	docsMu     sync.Mutex
	activeDocs []models.Document
}

// NewQAService 创建问答服务
func NewQAService(manager *qa.Manager, extractor *extract.Manager, metrics *MetricsService, cfg *config.Config) *QAService {
	return &QAService{
		manager:   manager,
		extractor: extractor,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Ready 当前是否可以回答问题
func (s *QAService) Ready() bool {
	return s.manager.Ready()
}

// IngestFiles 提取上传文件的文本并整体重建问答流水线。
// 单个文件提取失败只跳过该文件；全部文本为空时摄取失败，
// 已发布的流水线（如有）保持不变
func (s *QAService) IngestFiles(ctx context.Context, files []*multipart.FileHeader) (*IngestResult, error) {
	start := time.Now()
	s.setIngestStatus("processing", 0)

	var texts []string
	var skipped []SkippedFile
	var ingested []models.Document

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			skipped = append(skipped, SkippedFile{Filename: header.Filename, Reason: err.Error()})
			continue
		}

		text, err := s.extractor.Extract(file, header.Filename)
		file.Close()
		if err != nil {
			logger.Warn("skipping file after extraction failure",
				zap.String("filename", header.Filename), zap.Error(err))
			skipped = append(skipped, SkippedFile{Filename: header.Filename, Reason: err.Error()})
			continue
		}

		texts = append(texts, text)
		ingested = append(ingested, models.Document{
			Filename:   header.Filename,
			UploadTime: time.Now(),
		})
	}

	combined := strings.Join(texts, "\n\n")
	if strings.TrimSpace(combined) == "" {
		err := apperrors.NewEmptyCorpusError()
		s.setIngestStatus("failed", 0)
		s.metrics.ObserveIngest(time.Since(start), 0, err)
		return nil, err
	}

	pipeline, err := s.manager.Ingest(ctx, combined)
	if err != nil {
		s.setIngestStatus("failed", 0)
		s.metrics.ObserveIngest(time.Since(start), 0, err)
		return nil, err
	}

	s.replaceActiveDocuments(ingested)
	s.setIngestStatus("ready", pipeline.ChunkCount())
	s.metrics.ObserveIngest(time.Since(start), pipeline.ChunkCount(), nil)

	logger.Info("corpus ingested",
		zap.Int("documents", len(ingested)),
		zap.Int("skipped", len(skipped)),
		zap.Int("chunks", pipeline.ChunkCount()))

	return &IngestResult{
		Status:    "ready",
		Documents: len(ingested),
		Chunks:    pipeline.ChunkCount(),
		Skipped:   skipped,
	}, nil
}

// Ask 回答一个问题并记录问答日志
func (s *QAService) Ask(ctx context.Context, req *AskRequest) (*AskResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.NewInvalidInputError("question", "must not be empty")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperrors.NewInvalidInputError("question", "must not be empty")
	}

	start := time.Now()
	exchange, err := s.manager.Answer(ctx, req.Question)
	s.metrics.ObserveQuestion(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.logExchange(exchange)

	return &AskResponse{
		Question: exchange.Question,
		Answer:   exchange.Answer,
		Context:  exchange.Context,
	}, nil
}

// replaceActiveDocuments 持久化新语料的文档记录并替换活动文档集
func (s *QAService) replaceActiveDocuments(docs []models.Document) {
	if database.DB != nil {
		for i := range docs {
			if err := database.DB.Create(&docs[i]).Error; err != nil {
				logger.Warn("failed to persist document record", zap.Error(err))
			}
		}
	}

	s.docsMu.Lock()
	s.activeDocs = docs
	s.docsMu.Unlock()
}

// logExchange 追加问答日志并关联当前语料的文档
func (s *QAService) logExchange(exchange *qa.Exchange) {
	if database.DB == nil {
		return
	}

	s.docsMu.Lock()
	docs := make([]models.Document, len(s.activeDocs))
	copy(docs, s.activeDocs)
	s.docsMu.Unlock()

	record := models.QuestionLog{
		Question:  exchange.Question,
		Answer:    exchange.Answer,
		Timestamp: time.Now(),
		Documents: docs,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		logger.Warn("failed to persist question log", zap.Error(err))
	}
}

// setIngestStatus 更新Redis中的摄取状态缓存
func (s *QAService) setIngestStatus(status string, chunks int) {
	if database.RedisClient == nil {
		return
	}

	ttl := time.Duration(s.cfg.Redis.TTL) * time.Second
	value := fmt.Sprintf(`{"status":%q,"chunks":%d,"updated_at":%q}`,
		status, chunks, time.Now().Format(time.RFC3339))
	if err := database.RedisClient.Set(context.Background(), ingestStatusKey, value, ttl).Err(); err != nil {
		logger.Warn("failed to cache ingest status", zap.Error(err))
	}
}
