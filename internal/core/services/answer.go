package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driving"
	"github.com/admitkit/prospecta-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// The fixed user-facing messages. Every exceptional path through Answer
// terminates in exactly one of these six strings, each distinguishable
// from the others; no error ever crosses the Answer boundary.
const (
	// MsgEmptyQuery rejects blank or whitespace-only input.
	MsgEmptyQuery = "Please enter a valid question. The query cannot be empty or just spaces."

	// MsgMissingComponents reports an absent collaborator.
	MsgMissingComponents = "Internal error: Missing RAG components."

	// MsgEmbeddingError reports a query-embedding failure.
	MsgEmbeddingError = "Failed to process your question due to an embedding error."

	// MsgRetrievalError reports an unusable knowledge base.
	MsgRetrievalError = "Sorry, I couldn't access the knowledge base at the moment."

	// MsgNoResults reports an empty retrieval result.
	MsgNoResults = "Sorry, I couldn't find any relevant information."

	// MsgGenerationError reports a generation failure.
	MsgGenerationError = "Sorry, something went wrong while generating the response. Please try again later."
)

// AnswerService coordinates the retrieval-augmented answer pipeline:
// embed the query, retrieve the closest passages, render the prompt and
// generate the answer. Collaborators are explicit instances passed at
// construction; the service holds no ambient state of its own.
type AnswerService struct {
	embedder    driven.EmbeddingService
	retriever   driven.Retriever
	generator   driven.GenerationService
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerService creates an answer service over the given
// collaborators. Nil collaborators are tolerated here and rejected per
// query, so a partially-wired deployment degrades to a fixed message
// rather than a crash.
func NewAnswerService(
	embedder driven.EmbeddingService,
	retriever driven.Retriever,
	generator driven.GenerationService,
	promptStore driven.PromptStore,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{
		embedder:    embedder,
		retriever:   retriever,
		generator:   generator,
		promptStore: promptStore,
		topK:        topK,
	}
}

// Answer produces an answer for the query. Every failure mode maps to a
// fixed user-facing message; the return value is always a complete
// sentence-level answer, never a raw error.
func (s *AnswerService) Answer(ctx context.Context, query string) string {
	logger.Section("Answer Pipeline")

	// Early validation: no downstream calls for blank input.
	if strings.TrimSpace(query) == "" {
		logger.Warn("answer: empty or whitespace-only query received")
		return MsgEmptyQuery
	}

	if s.embedder == nil || s.retriever == nil || s.generator == nil {
		logger.Warn("answer: one or more RAG components are missing")
		return MsgMissingComponents
	}

	logger.Info("answer: embedding user query")
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("answer: error embedding query: %v", err)
		return MsgEmbeddingError
	}
	if len(embedding) == 0 {
		// The empty vector is the "no embedding" sentinel.
		logger.Warn("answer: embedder returned the empty-vector sentinel")
		return MsgEmbeddingError
	}

	logger.Info("answer: retrieving passages from the vector index")
	passages, err := s.retriever.Retrieve(ctx, embedding, s.topK)
	if err != nil {
		logger.Warn("answer: error retrieving passages: %v", err)
		return MsgRetrievalError
	}
	logger.Info("answer: retrieved %d passages", len(passages))

	if len(passages) == 0 {
		logger.Warn("answer: no passages found for the query")
		return MsgNoResults
	}

	// Passages join newline-separated, retrieval order preserved.
	contextText := strings.Join(passages, "\n")

	prompt := s.buildPrompt(contextText, query)
	logger.Info("answer: generating response")
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("answer: error during generation: %v", err)
		return MsgGenerationError
	}

	return strings.TrimSpace(answer)
}

// buildPrompt renders the answer template with the retrieved context and
// the question. The template is configuration, not logic: it lives in
// the prompt store and the embedded default is used when loading fails.
func (s *AnswerService) buildPrompt(contextText, question string) string {
	template := defaultAnswerTemplate
	if s.promptStore != nil {
		if loaded, err := s.promptStore.Load(driven.PromptRAGAnswer); err == nil {
			template = loaded
		}
	}
	return fmt.Sprintf(template, contextText, question)
}

// defaultAnswerTemplate is the fallback when no PromptStore is configured.
const defaultAnswerTemplate = `You are an AI assistant for M.Tech admissions at the university.
Answer the question clearly and concisely using only the information in the context.
If the context does not contain the answer, say you do not have that information.

Context:
%s

Question: %s

Answer:`
