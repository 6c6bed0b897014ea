// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: converts text into fixed-dimension vectors
//   - GenerationService: produces answers from a hosted language model
//   - Retriever: top-k similarity search over the passage collection
//   - PassageWriter: offline ingestion writes (the online path never writes)
//   - PromptStore: user-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
