package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fscore",
	Short: "Piotroski F-score and undervaluation screen",
	Long: `fscore scores a list of tickers on the nine Piotroski criteria
and screens them for undervaluation (P/B < 1, P/E below the industry average).

Statements come from Yahoo Finance or from the local PostgreSQL store.
Environment settings are read from .env; batch settings from a YAML run file.

Examples:
  go run ./cmd/fscore score AAPL MSFT
  go run ./cmd/fscore score --file tickers.txt --out scores.csv
  go run ./cmd/fscore screen --file tickers.txt --min-score 0.7
  go run ./cmd/fscore run --config run.yaml
  go run ./cmd/fscore serve --cron "0 18 * * 1-5"`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// --env wins over ENV from the environment and .env
		if cmd.Flags().Changed("env") {
			_ = os.Setenv("ENV", env)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "run file (YAML)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
