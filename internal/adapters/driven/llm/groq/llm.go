// Package groq provides a generation service adapter using the Groq API.
//
// The adapter wraps Groq's OpenAI-compatible streaming chat completions
// endpoint. Each instance owns one conversation: the stored history grows
// without bound, while the message window sent to the model is truncated
// to the system message plus the last six entries before every call.
package groq

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/admitkit/prospecta-cli/internal/core/domain"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
	"github.com/admitkit/prospecta-cli/internal/logger"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"

	// DefaultRetries is the total number of generation attempts.
	DefaultRetries = 3

	// DefaultDelay is the fixed wait between attempts. Linear backoff:
	// constant delay, no jitter, no circuit breaker.
	DefaultDelay = 1500 * time.Millisecond

	// DefaultTimeout is the wall-clock budget for a single attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultSystemPrompt seeds the conversation when no prompt store
	// provides a chat_system prompt.
	DefaultSystemPrompt = "You are a helpful assistant."
)

// FallbackMessage is returned after the retry budget is exhausted. This
// is a terminal soft-failure, not an error: Generate returns it with a
// nil error.
const FallbackMessage = "Failed to generate a response after multiple attempts."

// Fixed sampling parameters for answer generation.
const (
	samplingTemperature = 0.7
	samplingTopP        = 1
	samplingMaxTokens   = 1024
)

// windowTail is how many trailing history entries accompany the system
// message on each call: three user/assistant pairs.
const windowTail = 6

// Config holds configuration for the Groq generation service.
type Config struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Model is the chat model to use (default: llama3-8b-8192).
	Model string

	// SystemPrompt seeds the conversation (default: DefaultSystemPrompt).
	SystemPrompt string

	// Retries is the total number of attempts per Generate call.
	Retries int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// Timeout is the wall-clock budget for one attempt.
	Timeout time.Duration
}

// GenerationService produces answers via Groq's streaming chat API.
// Not safe for concurrent use: one instance per conversation.
type GenerationService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	retries int
	delay   time.Duration
	timeout time.Duration

	mu      sync.Mutex
	history []driven.ChatMessage
}

// chatRequest is the Groq /chat/completions request format.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

// chatMsg is the wire format for one conversation turn.
type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamChunk is one server-sent event payload of a streaming response.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewGenerationService creates a new Groq generation service.
// Construction fails fast when no API key is supplied.
func NewGenerationService(cfg Config) (*GenerationService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("groq: %w", domain.ErrMissingAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GenerationService{
		// No client-level timeout: the per-attempt wall clock below
		// bounds waiting, and a successful stream may outlive slow
		// chunks without being cut off mid-read.
		client:  &http.Client{},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		retries: cfg.Retries,
		delay:   cfg.Delay,
		timeout: cfg.Timeout,
		history: []driven.ChatMessage{
			{Role: driven.RoleSystem, Content: cfg.SystemPrompt},
		},
	}, nil
}

// Generate produces an answer for the prompt with retry and timeout
// handling. The user turn is appended to history before the first
// attempt; the assistant turn is appended only on success.
//
// A timeout abandons the in-flight attempt rather than cancelling it at
// the remote end: a call already billed may continue server-side, so a
// timeout means "unknown outcome", not "definitely failed".
func (s *GenerationService) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.history = append(s.history, driven.ChatMessage{Role: driven.RoleUser, Content: prompt})
	window := s.window()
	s.mu.Unlock()
	logger.Debug("groq: user input added to chat history, window size %d", len(window))

	for attempt := 1; attempt <= s.retries; attempt++ {
		answer, err := s.attempt(ctx, window)
		if err == nil {
			s.mu.Lock()
			s.history = append(s.history, driven.ChatMessage{Role: driven.RoleAssistant, Content: answer})
			s.mu.Unlock()
			logger.Debug("groq: assistant response added to chat history")
			return answer, nil
		}

		logger.Warn("groq: [attempt %d] request failed: %v", attempt, err)
		if attempt == s.retries {
			break
		}

		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return FallbackMessage, nil
		}
	}

	return FallbackMessage, nil
}

// attemptResult carries the outcome of one streaming attempt.
type attemptResult struct {
	answer string
	err    error
}

// attempt runs a single streaming completion on a bounded-time execution
// slot. The remote call runs on its own goroutine; if the wall clock
// elapses first the result is discarded when it eventually arrives.
func (s *GenerationService) attempt(ctx context.Context, window []driven.ChatMessage) (string, error) {
	done := make(chan attemptResult, 1)

	go func() {
		answer, err := s.stream(ctx, window)
		done <- attemptResult{answer: answer, err: err}
	}()

	select {
	case res := <-done:
		return res.answer, res.err
	case <-time.After(s.timeout):
		return "", fmt.Errorf("request timed out after %s", s.timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// stream issues the completion request and concatenates the streamed
// content fragments in emission order, with no separators inserted.
func (s *GenerationService) stream(ctx context.Context, window []driven.ChatMessage) (string, error) {
	messages := make([]chatMsg, len(window))
	for i, m := range window {
		messages[i] = chatMsg{Role: m.Role, Content: m.Content}
	}

	reqBody := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: samplingTemperature,
		TopP:        samplingTopP,
		MaxTokens:   samplingMaxTokens,
		Stream:      true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq: API error %d: %s", resp.StatusCode, string(body))
	}

	var answer strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed fragments
			continue
		}
		if len(chunk.Choices) > 0 {
			answer.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	return answer.String(), nil
}

// window assembles the message list sent to the model: the original
// system message plus the last windowTail entries of the remaining
// history. The stored history itself is never truncated. Caller must
// hold s.mu.
func (s *GenerationService) window() []driven.ChatMessage {
	tail := s.history[1:]
	if len(tail) > windowTail {
		tail = tail[len(tail)-windowTail:]
	}

	window := make([]driven.ChatMessage, 0, 1+len(tail))
	window = append(window, s.history[0])
	window = append(window, tail...)
	return window
}

// History returns a copy of the full stored conversation.
func (s *GenerationService) History() []driven.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]driven.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// ModelName returns the name of the model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *GenerationService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
