package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
)

// mockEmbedder is a configurable EmbeddingService for pipeline tests.
type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vector, m.err
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return out, m.err
}

func (m *mockEmbedder) Dimensions() int { return len(m.vector) }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error { return nil }

// mockRetriever records the embedding and topK it was called with.
type mockRetriever struct {
	passages []string
	err      error
	calls    int
	gotTopK  int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ []float32, topK int) ([]string, error) {
	m.calls++
	m.gotTopK = topK
	return m.passages, m.err
}

func (m *mockRetriever) Close() error { return nil }

// mockGenerator records the prompt it was asked to complete.
type mockGenerator struct {
	answer    string
	err       error
	calls     int
	gotPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	return m.answer, m.err
}

func (m *mockGenerator) History() []driven.ChatMessage { return nil }
func (m *mockGenerator) ModelName() string { return "mock-llm" }
func (m *mockGenerator) Close() error { return nil }

// mockPromptStore serves a single template for any name.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.template, m.err }
func (m *mockPromptStore) Reload()                       {}

func TestAnswer_EmptyQuery(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{answer: "never"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	for _, query := range []string{"", "   ", "\t\n  "} {
		got := svc.Answer(context.Background(), query)
		assert.Equal(t, MsgEmptyQuery, got)
	}

	// Nothing downstream runs for blank input.
	assert.Zero(t, embedder.calls)
	assert.Zero(t, retriever.calls)
	assert.Zero(t, generator.calls)
}

func TestAnswer_MissingComponents(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{answer: "x"}

	tests := []struct {
		name string
		svc  *AnswerService
	}{
		{"nil embedder", NewAnswerService(nil, retriever, generator, nil, 5)},
		{"nil retriever", NewAnswerService(embedder, nil, generator, nil, 5)},
		{"nil generator", NewAnswerService(embedder, retriever, nil, nil, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.svc.Answer(context.Background(), "What are the fees?")
			assert.Equal(t, MsgMissingComponents, got)
		})
	}
}

func TestAnswer_EmbeddingError(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("connection refused")}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{answer: "x"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, MsgEmbeddingError, got)
	assert.Zero(t, retriever.calls)
}

func TestAnswer_EmptyVectorSentinel(t *testing.T) {
	// An empty vector with a nil error is still an embedding failure.
	embedder := &mockEmbedder{vector: nil}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{answer: "x"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, MsgEmbeddingError, got)
	assert.Zero(t, retriever.calls)
}

func TestAnswer_RetrievalError(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{err: errors.New("database is locked")}
	generator := &mockGenerator{answer: "x"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, MsgRetrievalError, got)
	assert.Zero(t, generator.calls)
}

func TestAnswer_NoResults(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: nil}
	generator := &mockGenerator{answer: "x"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, MsgNoResults, got)
	assert.Zero(t, generator.calls)
}

func TestAnswer_GenerationError(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{err: errors.New("boom")}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, MsgGenerationError, got)
}

func TestAnswer_PromptContainsJoinedPassages(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"first passage", "second passage", "third passage"}}
	generator := &mockGenerator{answer: "ok"}
	store := &mockPromptStore{template: "CTX[%s] Q[%s]"}
	svc := NewAnswerService(embedder, retriever, generator, store, 3)

	got := svc.Answer(context.Background(), "How do I apply?")

	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, retriever.gotTopK)
	assert.Equal(t,
		"CTX[first passage\nsecond passage\nthird passage] Q[How do I apply?]",
		generator.gotPrompt)
}

func TestAnswer_TrimsGeneratedAnswer(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"a"}}
	generator := &mockGenerator{answer: "  \n  The fee is 50,000 per year.  \n"}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What are the fees?")

	assert.Equal(t, "The fee is 50,000 per year.", got)
}

func TestAnswer_DefaultTemplateWhenStoreFails(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	retriever := &mockRetriever{passages: []string{"GATE score required."}}
	generator := &mockGenerator{answer: "ok"}
	store := &mockPromptStore{err: errors.New("not found")}
	svc := NewAnswerService(embedder, retriever, generator, store, 5)

	got := svc.Answer(context.Background(), "What is the eligibility?")

	assert.Equal(t, "ok", got)
	assert.Contains(t, generator.gotPrompt, "GATE score required.")
	assert.Contains(t, generator.gotPrompt, "Question: What is the eligibility?")
}

func TestAnswer_EndToEndScenario(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.12, 0.93, 0.05}}
	retriever := &mockRetriever{passages: []string{
		"Eligibility: candidates must hold a B.Tech degree with 60% marks.",
		"A valid GATE score is mandatory for all M.Tech programmes.",
	}}
	generator := &mockGenerator{answer: "You must have a valid GATE score."}
	svc := NewAnswerService(embedder, retriever, generator, nil, 5)

	got := svc.Answer(context.Background(), "What is the M.Tech eligibility?")

	assert.Equal(t, "You must have a valid GATE score.", got)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, retriever.calls)
	assert.Equal(t, 1, generator.calls)
}
