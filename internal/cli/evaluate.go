package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/sentaku/internal/evaluate"
)

var (
	evalLabels  string
	evalK       int
	predQueries string
	predOut     string
	predLimit   int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute mean Recall@K against a labelled query set",
	Long: `Run every labelled query and report Recall@K per query and the mean.
The labels file is CSV or XLSX with Query and Assessment_url columns; rows with
the same query are grouped.

Example:
  sentaku evaluate --labels train.csv --k 10`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Write recommendations for a query set as Query,Assessment_url rows",
	Long: `Recommend for every query in a CSV or XLSX file with a Query column and write one
Query,Assessment_url row per result. Blank queries are skipped.

Example:
  sentaku predict --queries test.csv --out predictions.csv`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(predictCmd)
	evaluateCmd.Flags().StringVar(&evalLabels, "labels", "", "labelled queries (csv or xlsx)")
	evaluateCmd.Flags().IntVar(&evalK, "k", 10, "cutoff for Recall@K")
	_ = evaluateCmd.MarkFlagRequired("labels")
	predictCmd.Flags().StringVar(&predQueries, "queries", "", "queries (csv or xlsx)")
	predictCmd.Flags().StringVar(&predOut, "out", "predictions.csv", "output csv path, - for stdout")
	predictCmd.Flags().IntVarP(&predLimit, "limit", "n", 10, "results per query")
	_ = predictCmd.MarkFlagRequired("queries")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	pairs, err := evaluate.ReadPairs(evalLabels)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, rootLogger)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	report, err := evaluate.Evaluate(ctx, app.Engine, evaluate.GroupByQuery(pairs), evalK, app.Logger)
	if err != nil {
		return err
	}
	WriteReport(cmd.OutOrStdout(), report)
	return nil
}

func runPredict(cmd *cobra.Command, _ []string) error {
	queries, err := evaluate.ReadQueries(predQueries)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, rootLogger)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	pred, err := evaluate.Predict(ctx, app.Engine, queries, predLimit, app.Logger)
	if err != nil {
		return err
	}
	if predOut == "-" {
		return evaluate.WritePairs(cmd.OutOrStdout(), pred.Pairs)
	}
	f, err := os.Create(predOut)
	if err != nil {
		return err
	}
	if err := evaluate.WritePairs(f, pred.Pairs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s (%d blank queries skipped)\n", len(pred.Pairs), predOut, pred.Skipped)
	return nil
}
