package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/pkg/utils"
)

const appName = "sentaku"

// Version is set at build time.
var Version = "dev"

var (
	cfgFile   string
	debugFlag bool

	cfg        *config.Config
	cfgPath    string
	rootLogger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Sentaku recommends assessments for a job description or hiring query",
	Long: `Sentaku ranks catalog assessments against a free-text hiring query by semantic
similarity, then balances technical (Hard) and behavioural (Soft) assessments.

Example usage:
  sentaku index                                 # embed the catalog into the local snapshot
  sentaku recommend "Java developer who can lead a team"
  sentaku recommend --file jd.pdf --output json
  sentaku server                                # HTTP API on server.host:server.port`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, cfgPath, err = loadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		debugMode := cfg.Debug || debugFlag
		rootLogger, err = utils.NewLogger(debugMode)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		rootLogger.Debug("config loaded",
			zap.String("config_path", cfgPath),
			zap.Bool("debug", debugMode),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootLogger != nil {
			_ = rootLogger.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", DefaultConfigPath, "config file path (./config.yaml is used if present)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}
