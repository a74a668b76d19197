package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "실행 파일 기반 배치 실행",
	Long: `Runs the batch exactly as the run file describes it: ticker list,
anchor years, which checks to run, the screen score gate and the
score list output.

Example:
  go run ./cmd/fscore run --config run.yaml`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("--config is required")
	}

	run, hash, err := loadRunConfig()
	if err != nil {
		return err
	}

	return executeBatch(cmd.OutOrStdout(), run, batchOptions{
		title: "F-SCORE RUN",
		hash:  hash,
	})
}
