package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/admitkit/prospecta-cli/internal/core/domain"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driving"
	"github.com/admitkit/prospecta-cli/internal/logger"
	"github.com/admitkit/prospecta-cli/internal/postprocessors/chunker"
)

// Embedding API batching. One batch is one remote request; the limiter
// keeps bulk ingestion under the provider's request quota.
const (
	embedBatchSize        = 32
	embedRequestsPerSec   = 2.0
	embedRequestBurstSize = 2
)

var _ driving.Ingester = (*IngestService)(nil)

// IngestService runs the offline pipeline that turns extracted
// prospectus text into an indexed passage collection: chunk, classify,
// embed in rate-limited batches, persist. Unlike the online answer
// path, ingestion fails fast: a partial index is worse than no index.
type IngestService struct {
	chunker  *chunker.Processor
	embedder driven.EmbeddingService
	writer   driven.PassageWriter
	limiter  *rate.Limiter
	source   string
}

// NewIngestService creates an ingestion service. Source labels every
// passage's metadata with the document it came from.
func NewIngestService(proc *chunker.Processor, embedder driven.EmbeddingService, writer driven.PassageWriter, source string) *IngestService {
	if proc == nil {
		proc = chunker.New()
	}
	return &IngestService{
		chunker:  proc,
		embedder: embedder,
		writer:   writer,
		limiter:  rate.NewLimiter(rate.Limit(embedRequestsPerSec), embedRequestBurstSize),
		source:   source,
	}
}

// Ingest chunks the text, embeds every chunk and persists the resulting
// passages. It returns the number of passages written.
func (s *IngestService) Ingest(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("ingest: %w: document text is empty", domain.ErrInvalidInput)
	}
	if s.embedder == nil || s.writer == nil {
		return 0, fmt.Errorf("ingest: embedding service and passage writer are required")
	}

	logger.Section("Ingestion Pipeline")

	chunks := s.chunker.Process(text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("ingest: %w: no chunks produced", domain.ErrInvalidInput)
	}
	logger.Info("ingest: produced %d chunks", len(chunks))

	passages := make([]domain.Passage, len(chunks))
	for i, content := range chunks {
		passages[i] = domain.Passage{
			ID:       domain.PassageID(i),
			Content:  content,
			Metadata: domain.ClassifyPassage(content, s.source),
			Position: i,
		}
	}

	for start := 0; start < len(passages); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(passages) {
			end = len(passages)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("ingest: rate limiter: %w", err)
		}

		texts := make([]string, 0, end-start)
		for _, p := range passages[start:end] {
			texts = append(texts, p.Content)
		}

		logger.Info("ingest: embedding batch %d..%d", start, end-1)
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("ingest: %w: batch %d..%d: %v", domain.ErrEmbeddingFailed, start, end-1, err)
		}
		if len(vectors) != end-start {
			return 0, fmt.Errorf("ingest: %w: got %d embeddings for %d texts", domain.ErrEmbeddingFailed, len(vectors), end-start)
		}
		for i, v := range vectors {
			// A passage indexed at the wrong dimension would be skipped
			// by every retrieval, so a mismatch is fatal here.
			if want := s.embedder.Dimensions(); len(v) != want {
				return 0, fmt.Errorf("ingest: %w: passage %d has dimension %d, want %d",
					domain.ErrDimensionMismatch, start+i, len(v), want)
			}
			passages[start+i].Embedding = v
		}
	}

	if err := s.writer.CreateCollection(ctx); err != nil {
		return 0, fmt.Errorf("ingest: create collection: %w", err)
	}
	if err := s.writer.Add(ctx, passages); err != nil {
		return 0, fmt.Errorf("ingest: store passages: %w", err)
	}

	logger.Info("ingest: stored %d passages", len(passages))
	return len(passages), nil
}
