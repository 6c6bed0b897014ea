// Package cli implements the command-line interface for Prospecta.
// It is the driving adapter: commands parse input, wire the driven
// adapters into the core services and print results. No business logic
// lives here.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/admitkit/prospecta-cli/internal/adapters/driven/config/file"
	"github.com/admitkit/prospecta-cli/internal/adapters/driven/embedding/jina"
	"github.com/admitkit/prospecta-cli/internal/adapters/driven/llm/groq"
	promptfile "github.com/admitkit/prospecta-cli/internal/adapters/driven/prompts/file"
	"github.com/admitkit/prospecta-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driving"
	"github.com/admitkit/prospecta-cli/internal/core/services"
	"github.com/admitkit/prospecta-cli/internal/logger"
)

var version = "0.1.0"

var (
	verbose   bool
	configDir string
)

// newAnswerer builds the answer pipeline for a command invocation.
// Tests replace it to avoid touching the network and the filesystem.
var newAnswerer = func() (driving.Answerer, func(), error) {
	return buildAnswerer()
}

// faqMatcher answers common questions before the pipeline runs.
var faqMatcher = services.NewFAQMatcher(nil)

var rootCmd = &cobra.Command{
	Use:   "prospecta",
	Short: "Question answering over the M.Tech prospectus",
	Long: `Prospecta answers questions about the M.Tech admission prospectus.
It retrieves the most relevant prospectus passages from a local vector
index and generates an answer with a hosted language model.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		// Secrets come from the environment; a .env file seeds it when
		// present. Absence is not an error.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.prospecta)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildConfig loads the config store for the --config-dir flag.
func buildConfig() (*configfile.ConfigStore, error) {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// buildEmbedder constructs the embedding client from config and env.
func buildEmbedder(cfg *configfile.ConfigStore) (driven.EmbeddingService, error) {
	svc, err := jina.NewEmbeddingService(jina.Config{
		APIKey:  os.Getenv(configfile.EnvJinaAPIKey),
		BaseURL: cfg.EmbeddingBaseURL(),
		Model:   cfg.EmbeddingModel(),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w (set %s)", err, configfile.EnvJinaAPIKey)
	}
	return svc, nil
}

// buildGenerator constructs one conversation's generation client. The
// system prompt comes from the prompt store so it can be edited on disk.
func buildGenerator(cfg *configfile.ConfigStore, prompts driven.PromptStore) (driven.GenerationService, error) {
	systemPrompt := ""
	if p, err := prompts.Load(driven.PromptChatSystem); err == nil {
		systemPrompt = p
	}
	svc, err := groq.NewGenerationService(groq.Config{
		APIKey:       os.Getenv(configfile.EnvGroqAPIKey),
		BaseURL:      cfg.LLMBaseURL(),
		Model:        cfg.LLMModel(),
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("generation service: %w (set %s)", err, configfile.EnvGroqAPIKey)
	}
	return svc, nil
}

// buildAnswerer wires a complete answer pipeline. The returned cleanup
// must be called when the conversation ends.
func buildAnswerer() (*services.AnswerService, func(), error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
	}

	prompts, err := promptfile.NewPromptStore(filepath.Join(filepath.Dir(cfg.Path()), "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("prompt store: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(cfg.DataDir())
	if err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("vector store: %w", err)
	}

	retriever, err := store.Retriever(cfg.Collection())
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, nil, fmt.Errorf("collection %q: %w (run 'prospecta ingest' first)", cfg.Collection(), err)
	}

	generator, err := buildGenerator(cfg, prompts)
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, nil, err
	}

	// Prompt edits take effect mid-session; a watcher failure only
	// means edits need a restart.
	stopWatch, err := prompts.Watch()
	if err != nil {
		logger.Warn("prompt watcher unavailable: %v", err)
		stopWatch = func() {}
	}

	cleanup := func() {
		stopWatch()
		generator.Close()
		retriever.Close()
		store.Close()
		embedder.Close()
	}

	return services.NewAnswerService(embedder, retriever, generator, prompts, cfg.TopK()), cleanup, nil
}
