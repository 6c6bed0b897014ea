package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/admitkit/prospecta-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driving"
	"github.com/admitkit/prospecta-cli/internal/core/services"
	"github.com/admitkit/prospecta-cli/internal/logger"
	"github.com/admitkit/prospecta-cli/internal/postprocessors/chunker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a prospectus text file",
	Long: `Builds the passage index from an extracted prospectus text file.
The text is split into overlapping chunks, each chunk is classified,
embedded and stored in the local vector index. Re-running ingest adds
to the existing collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// newIngester builds the ingestion pipeline. Tests replace it.
var newIngester = func(source string) (driving.Ingester, func(), error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
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

	writer, err := store.Writer(cfg.Collection())
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, nil, fmt.Errorf("collection %q: %w", cfg.Collection(), err)
	}

	cleanup := func() {
		writer.Close()
		store.Close()
		embedder.Close()
	}

	svc := services.NewIngestService(chunker.New(), embedder, writer, source)
	return svc, cleanup, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	svc, cleanup, err := newIngester(path)
	if err != nil {
		return err
	}
	defer cleanup()

	runID := uuid.NewString()
	logger.Info("ingest: run %s for %s", runID, path)

	count, err := svc.Ingest(context.Background(), string(data))
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	cmd.Printf("Indexed %d passages from %s\n", count, path)
	return nil
}
