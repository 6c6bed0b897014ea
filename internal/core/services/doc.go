// Package services implements the driving port interfaces.
// Services contain the core business logic: the answer pipeline that
// coordinates embedding, retrieval and generation, the FAQ
// short-circuit, and the offline ingestion pipeline.
//
// Services are pure coordination with no model- or store-specific logic.
package services
