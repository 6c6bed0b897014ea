package driven

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// GenerationService produces answers from a hosted language model while
// maintaining bounded conversational memory.
//
// Contract:
//   - One instance owns one conversation. Instances are not safe for
//     concurrent use; a deployment serving concurrent users must create
//     one instance per session.
//   - Generate retries transient failures internally with a fixed delay
//     and, after exhausting its retry budget, returns a fixed fallback
//     string with a nil error. A non-nil error therefore indicates a
//     broken collaborator rather than a transient remote failure.
//   - An answer assembled from only empty fragments is the empty string
//     and counts as success; callers must check for blank answers.
type GenerationService interface {
	// Generate produces an answer for the prompt, appending the exchange
	// to the conversation history.
	Generate(ctx context.Context, prompt string) (string, error)

	// History returns a copy of the full stored conversation, including
	// the system message at entry 0.
	History() []ChatMessage

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
