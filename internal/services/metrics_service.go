package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// MetricsService 问答服务指标收集器
type MetricsService struct {
	logger *logrus.Logger

	ingestCounter    *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	questionsCounter *prometheus.CounterVec
	answerDuration   prometheus.Histogram
	corpusChunks     prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsInstance *MetricsService
)

// NewMetricsService 创建指标收集器，进程内单例（Prometheus指标不可重复注册）
func NewMetricsService(logger *logrus.Logger) *MetricsService {
	metricsOnce.Do(func() {
		if logger == nil {
			logger = logrus.New()
		}
		ms := &MetricsService{logger: logger}
		ms.registerMetrics()
		metricsInstance = ms
	})
	return metricsInstance
}

// registerMetrics 注册Prometheus指标
func (ms *MetricsService) registerMetrics() {
	ms.ingestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_ingests_total",
			Help: "Total number of corpus ingest attempts",
		},
		[]string{"status"}, // status: success, error
	)

	ms.ingestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_ingest_duration_seconds",
			Help:    "Duration of corpus ingestion including embedding",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	ms.questionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_questions_total",
			Help: "Total number of answered questions",
		},
		[]string{"status"}, // status: success, error
	)

	ms.answerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_answer_duration_seconds",
			Help:    "Duration of retrieval plus answer generation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	ms.corpusChunks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docqa_corpus_chunks",
			Help: "Number of chunks in the active corpus",
		},
	)
}

// ObserveIngest 记录一次摄取
func (ms *MetricsService) ObserveIngest(duration time.Duration, chunks int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ms.ingestCounter.WithLabelValues(status).Inc()
	ms.ingestDuration.Observe(duration.Seconds())
	if err == nil {
		ms.corpusChunks.Set(float64(chunks))
	}

	ms.logger.WithFields(logrus.Fields{
		"status":   status,
		"chunks":   chunks,
		"duration": duration,
	}).Debug("ingest observed")
}

// ObserveQuestion 记录一次问答
func (ms *MetricsService) ObserveQuestion(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ms.questionsCounter.WithLabelValues(status).Inc()
	ms.answerDuration.Observe(duration.Seconds())
}
