package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the catalog into the local snapshot",
	Long: `Embed every catalog record with the configured model and store the vectors in the
snapshot database. Records whose text and model are unchanged are reused; records
no longer in the catalog are pruned.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Push catalog embeddings into the Qdrant collection",
	Long: `Embed the catalog (reusing the local snapshot) and upsert one point per record into
vector.collection on vector.qdrant_url. The collection is created with cosine
distance if it does not exist.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, rootLogger, WithIndexProgress(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer app.Close()

	cat, err := catalog.Load(cfg.Catalog.Path, app.Logger)
	if err != nil {
		return err
	}
	_, stats, err := app.Indexer.Embed(ctx, cat)
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	return nil
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, rootLogger, WithIndexProgress(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer app.Close()

	cat, err := catalog.Load(cfg.Catalog.Path, app.Logger)
	if err != nil {
		return err
	}
	q, err := app.QdrantIndex()
	if err != nil {
		return err
	}
	defer q.Close()

	stats, err := app.Indexer.Ingest(ctx, cat, q)
	if err != nil {
		return err
	}
	app.Logger.Info("ingest finished",
		zap.String("collection", cfg.Vector.Collection),
		zap.Int("points", stats.Records),
	)
	printStats(cmd, stats)
	return nil
}

func printStats(cmd *cobra.Command, s *indexer.Stats) {
	fmt.Fprintf(cmd.OutOrStdout(), "%d records: %d embedded, %d reused, %d pruned in %s\n",
		s.Records, s.Embedded, s.Reused, s.Pruned, s.Duration.Round(time.Millisecond))
}
