package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/storage"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog size, snapshot model and index type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := collectStatus(cmd.Context(), cfg, cfgPath)
		if err != nil {
			return err
		}
		return writeStatus(cmd.OutOrStdout(), st, statusJSON)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

type statusReport struct {
	ConfigPath     string            `json:"config_path,omitempty"`
	CatalogPath    string            `json:"catalog_path"`
	Assessments    int               `json:"assessments"`
	CatalogError   string            `json:"catalog_error,omitempty"`
	Provider       string            `json:"embedding_provider"`
	IndexType      string            `json:"index_type"`
	DatabasePath   string            `json:"database_path"`
	DiskUsageBytes int64             `json:"disk_usage_bytes"`
	Snapshot       *storage.Manifest `json:"snapshot,omitempty"`
}

// collectStatus reads the catalog and the latest snapshot manifest without loading a model.
func collectStatus(ctx context.Context, c *config.Config, path string) (*statusReport, error) {
	st := &statusReport{
		ConfigPath:   path,
		CatalogPath:  c.Catalog.Path,
		Provider:     c.Embedding.Provider,
		IndexType:    c.Vector.Type,
		DatabasePath: c.Storage.DatabasePath,
	}
	if cat, err := catalog.Load(c.Catalog.Path, nil); err != nil {
		st.CatalogError = err.Error()
	} else {
		st.Assessments = cat.Len()
	}

	store, err := storage.NewSQLiteStore(c.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if st.Snapshot, err = store.LatestManifest(ctx); err != nil {
		return nil, err
	}
	if n, err := storage.SnapshotUsageBytes(c.Storage.DatabasePath); err == nil {
		st.DiskUsageBytes = n
	}
	return st, nil
}

func writeStatus(w io.Writer, st *statusReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	if st.ConfigPath != "" {
		fmt.Fprintf(w, "Config:       %s\n", st.ConfigPath)
	}
	fmt.Fprintf(w, "Catalog:      %s\n", st.CatalogPath)
	if st.CatalogError != "" {
		fmt.Fprintf(w, "Assessments:  unavailable (%s)\n", st.CatalogError)
	} else {
		fmt.Fprintf(w, "Assessments:  %d\n", st.Assessments)
	}
	fmt.Fprintf(w, "Provider:     %s\n", st.Provider)
	fmt.Fprintf(w, "Index:        %s\n", st.IndexType)
	fmt.Fprintf(w, "Database:     %s (%d bytes)\n", st.DatabasePath, st.DiskUsageBytes)
	if st.Snapshot != nil {
		fmt.Fprintf(w, "Snapshot:     %s, %d dims, %d records, updated %s\n",
			st.Snapshot.ModelID, st.Snapshot.Dimensions, st.Snapshot.Records,
			st.Snapshot.UpdatedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(w, "Snapshot:     none (run `sentaku index`)")
	}
	return nil
}
