package commands

import (
	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [TICKER...]",
	Short: "Piotroski F-score 계산",
	Long: `Scores tickers on the nine Piotroski criteria.

Tickers come from the arguments, --file, or the run file (--config).
The score of each ticker is positive/valid over the criteria that could
be computed; missing fields shrink the denominator instead of failing.

Example:
  go run ./cmd/fscore score AAPL MSFT
  go run ./cmd/fscore score --file tickers.txt --out scores.csv`,
	RunE: runScore,
}

var (
	scoreFile string
	scoreOut  string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "ticker list file (newline or comma separated)")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "write the score list CSV to this path")
}

func runScore(cmd *cobra.Command, args []string) error {
	run, hash, err := loadRunConfig()
	if err != nil {
		return err
	}
	run.CheckPiotroski = true
	run.CheckUndervalued = false
	run.ScreenMinScore = 0

	return executeBatch(cmd.OutOrStdout(), run, batchOptions{
		title:      "PIOTROSKI F-SCORE",
		args:       args,
		tickerFile: scoreFile,
		outputFile: scoreOut,
		hash:       hash,
	})
}
