// Package memory provides an in-process vector store used in tests and
// for ephemeral corpora. It mirrors the SQLite adapter's retrieval
// semantics without touching disk.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/admitkit/prospecta-cli/internal/core/domain"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.Retriever     = (*Store)(nil)
	_ driven.PassageWriter = (*Store)(nil)
)

// Store holds passages in memory. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	passages []domain.Passage
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// CreateCollection is a no-op for the in-memory store.
func (s *Store) CreateCollection(_ context.Context) error {
	return nil
}

// Add appends passages to the store.
func (s *Store) Add(_ context.Context, passages []domain.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = append(s.passages, passages...)
	return nil
}

// Count returns the number of stored passages.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

// Retrieve returns the texts of the topK passages closest to the query
// embedding by cosine similarity, most-similar first.
func (s *Store) Retrieve(_ context.Context, embedding []float32, topK int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(embedding) == 0 {
		return []string{}, nil
	}

	type scored struct {
		content string
		score   float64
	}

	var results []scored
	for _, p := range s.passages {
		if len(p.Embedding) != len(embedding) {
			continue
		}
		results = append(results, scored{
			content: p.Content,
			score:   cosineSimilarity(embedding, p.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.content
	}
	return texts, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
