// Package file provides file-based configuration for the Prospecta CLI.
//
// Settings live in a TOML file under the config directory. Secrets (API
// keys) are never written to the config file: they come from the
// environment, optionally seeded from a .env file at startup.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Configuration keys.
const (
	KeyDataDir        = "data_dir"
	KeyCollection     = "collection"
	KeyTopK           = "top_k"
	KeyEmbeddingURL   = "embedding_base_url"
	KeyEmbeddingModel = "embedding_model"
	KeyLLMURL         = "llm_base_url"
	KeyLLMModel       = "llm_model"
)

// Default values for unset keys.
const (
	DefaultCollection     = "MTECH_PROSPECTUS"
	DefaultTopK           = 5
	DefaultEmbeddingModel = "jina-embeddings-v3"
	DefaultLLMModel       = "llama3-8b-8192"
)

// Environment variables holding remote-service credentials.
const (
	EnvJinaAPIKey = "JINA_API_KEY"
	EnvGroqAPIKey = "GROQ_API_KEY"
)

// ConfigStore is a TOML-backed key-value configuration store.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.prospecta/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".prospecta")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	parsed := make(map[string]any)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return err
	}

	s.data = parsed
	return nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// DataDir returns the passage-database directory, defaulting to a data
// subdirectory next to the config file.
func (s *ConfigStore) DataDir() string {
	if dir := s.GetString(KeyDataDir); dir != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(s.filePath), "data")
}

// Collection returns the passage collection name.
func (s *ConfigStore) Collection() string {
	if c := s.GetString(KeyCollection); c != "" {
		return c
	}
	return DefaultCollection
}

// TopK returns how many passages retrieval requests per query.
func (s *ConfigStore) TopK() int {
	if k := s.GetInt(KeyTopK); k > 0 {
		return k
	}
	return DefaultTopK
}

// EmbeddingModel returns the embedding model name.
func (s *ConfigStore) EmbeddingModel() string {
	if m := s.GetString(KeyEmbeddingModel); m != "" {
		return m
	}
	return DefaultEmbeddingModel
}

// EmbeddingBaseURL returns the embedding API base URL override, or empty
// for the adapter default.
func (s *ConfigStore) EmbeddingBaseURL() string {
	return s.GetString(KeyEmbeddingURL)
}

// LLMModel returns the chat model name.
func (s *ConfigStore) LLMModel() string {
	if m := s.GetString(KeyLLMModel); m != "" {
		return m
	}
	return DefaultLLMModel
}

// LLMBaseURL returns the chat API base URL override, or empty for the
// adapter default.
func (s *ConfigStore) LLMBaseURL() string {
	return s.GetString(KeyLLMURL)
}
