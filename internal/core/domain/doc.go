// Package domain defines the core business entities for Prospecta.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Passage: an immutable, independently retrievable unit of prospectus text
//   - PassageMetadata: classification labels derived from passage text
//   - FAQEntry: a canned question/answer pair checked before retrieval
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
