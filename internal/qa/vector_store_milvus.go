package qa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address          string
	Username         string
	Password         string
	CollectionPrefix string
	Database         string
	UseTLS           bool
	VectorSize       int
	Timeout          time.Duration
}

// MilvusVectorStore 基于Milvus的向量存储。
// 每次摄取创建一个带时间戳版本号的独立集合，快照被替换时整个集合删除，
// 与内存后端保持一致的"整体替换、无增量更新"语义
type MilvusVectorStore struct {
	milvusClient   client.Client
	collectionName string
	vectorSize     int
	count          int
	created        bool
	loaded         bool
}

// NewMilvusVectorStore 创建Milvus向量存储，集合在Insert时建立
func NewMilvusVectorStore(ctx context.Context, opts MilvusOptions) (*MilvusVectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.CollectionPrefix == "" {
		opts.CollectionPrefix = "docqa_chunks"
	}
	if opts.Database == "" {
		opts.Database = "default"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 1536
	}

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	return &MilvusVectorStore{
		milvusClient:   milvusClient,
		collectionName: fmt.Sprintf("%s_%d", opts.CollectionPrefix, time.Now().UnixNano()),
		vectorSize:     opts.VectorSize,
	}, nil
}

func (s *MilvusVectorStore) createCollection(ctx context.Context) error {
	schema := &entity.Schema{
		CollectionName: s.collectionName,
		Description:    "document QA corpus vectors",
		Fields: []*entity.Field{
			{
				Name:       "chunk_index",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     false,
			},
			{
				Name:     "content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", s.vectorSize),
				},
			},
		},
	}

	if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	s.created = true

	var index entity.Index
	index, err := entity.NewIndexHNSW(entity.COSINE, 8, 64)
	if err != nil {
		index, err = entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	if err := s.milvusClient.CreateIndex(ctx, s.collectionName, "vector", index, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func (s *MilvusVectorStore) Insert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks (%d) and embeddings (%d) length mismatch", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return errors.New("no chunks to insert")
	}
	if s.count > 0 {
		return errors.New("milvus vector store is write-once")
	}

	if err := s.createCollection(ctx); err != nil {
		return err
	}

	indexes := make([]int64, len(chunks))
	contents := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		if len(embeddings[i]) != s.vectorSize {
			return fmt.Errorf("embedding dimension %d does not match collection dimension %d",
				len(embeddings[i]), s.vectorSize)
		}
		indexes[i] = int64(chunk.Index)
		contents[i] = chunk.Text
		vectors[i] = embeddings[i]
	}

	indexColumn := entity.NewColumnInt64("chunk_index", indexes)
	contentColumn := entity.NewColumnVarChar("content", contents)
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, vectors)

	if _, err := s.milvusClient.Insert(ctx, s.collectionName, "", indexColumn, contentColumn, vectorColumn); err != nil {
		return fmt.Errorf("milvus insert failed: %w", err)
	}
	if err := s.milvusClient.Flush(ctx, s.collectionName, false); err != nil {
		return fmt.Errorf("milvus flush failed: %w", err)
	}
	if err := s.milvusClient.LoadCollection(ctx, s.collectionName, false); err != nil {
		return fmt.Errorf("milvus load collection failed: %w", err)
	}

	s.count = len(chunks)
	s.loaded = true
	return nil
}

func (s *MilvusVectorStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]ScoredChunk, error) {
	if len(queryEmbedding) == 0 {
		return nil, errors.New("query embedding is empty")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if !s.loaded {
		return nil, errors.New("milvus collection not built")
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	queryVector := entity.FloatVector(queryEmbedding)
	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collectionName,
		[]string{},
		"",
		[]string{"chunk_index", "content"},
		[]entity.Vector{queryVector},
		"vector",
		entity.COSINE,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}
	if len(searchResults) == 0 {
		return []ScoredChunk{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []ScoredChunk{}, nil
	}

	var indexes []int64
	var contents []string
	for _, field := range result.Fields {
		switch field.Name() {
		case "chunk_index":
			if col, ok := field.(*entity.ColumnInt64); ok {
				indexes = col.Data()
			}
		case "content":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				contents = col.Data()
			}
		}
	}

	results := make([]ScoredChunk, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		chunk := Chunk{}
		if i < len(indexes) {
			chunk.Index = int(indexes[i])
		}
		if i < len(contents) {
			chunk.Text = contents[i]
		}
		score := float64(0)
		if i < len(result.Scores) {
			score = float64(result.Scores[i])
		}
		results = append(results, ScoredChunk{Chunk: chunk, Score: score})
	}

	// Milvus按得分返回，重排一次统一并列时的确定性语义
	sortScoredChunks(results)
	return results, nil
}

func (s *MilvusVectorStore) Count() int {
	return s.count
}

// Close 删除本次摄取对应的集合
func (s *MilvusVectorStore) Close(ctx context.Context) error {
	if s.milvusClient == nil {
		return nil
	}
	if s.created {
		if err := s.milvusClient.DropCollection(ctx, s.collectionName); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", s.collectionName, err)
		}
	}
	return s.milvusClient.Close()
}

func (s *MilvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
