package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/internal/config"
	"github.com/MaxZim21/temporal-graph-explorer/internal/observability"
)

// Version is stamped at build time.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:     "graph-explorer",
	Short:   "Query service for temporal property graphs.",
	Long:    "graph-explorer answers keyed grouping, snapshot and difference queries over temporal property graphs and serves their schema for query building.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		if err := config.Load(viper.GetViper()); err != nil {
			return err
		}

		observability.InitializeLogger(config.Get().Logger)
		observability.GetLogger().Info("Starting graph-explorer", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command with the provided context for graceful
// shutdown.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			if ctx.Err() == nil {
				logger.Error("Command execution failed", zap.Error(err))
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
}

// initializeConfig reads the config file and environment variables.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GRAPHEXPLORER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("postgres.url", "GRAPHEXPLORER_POSTGRES_URL")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
