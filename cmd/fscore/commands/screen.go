package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen [TICKER...]",
	Short: "저평가 종목 스크리닝",
	Long: `Screens tickers for undervaluation.

A ticker is undervalued when 0 < P/B < 1 and its trailing P/E is below the
average P/E of its industry. With --min-score the tickers are scored first
and only those whose positive/valid ratio reaches the minimum are screened.

Example:
  go run ./cmd/fscore screen AAPL MSFT
  go run ./cmd/fscore screen --file tickers.txt --min-score 0.7`,
	RunE: runScreen,
}

var (
	screenFile     string
	screenOut      string
	screenMinScore float64
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVarP(&screenFile, "file", "f", "", "ticker list file (newline or comma separated)")
	screenCmd.Flags().StringVarP(&screenOut, "out", "o", "", "write the score list CSV to this path")
	screenCmd.Flags().Float64Var(&screenMinScore, "min-score", 0, "minimum positive/valid ratio to screen (0 disables)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	run, hash, err := loadRunConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("min-score") {
		if screenMinScore < 0 || screenMinScore > 1 {
			return fmt.Errorf("--min-score must be within [0, 1]")
		}
		run.ScreenMinScore = screenMinScore
	}
	run.CheckUndervalued = true
	run.CheckPiotroski = run.ScreenMinScore > 0

	return executeBatch(cmd.OutOrStdout(), run, batchOptions{
		title:      "UNDERVALUATION SCREEN",
		args:       args,
		tickerFile: screenFile,
		outputFile: screenOut,
		hash:       hash,
	})
}
