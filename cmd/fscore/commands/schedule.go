package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fscore/internal/runconfig"
	"github.com/wonny/fscore/internal/scheduler"
	"github.com/wonny/fscore/internal/scheduler/jobs"
	"github.com/wonny/fscore/internal/universe"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule [TICKER...]",
	Short: "배치 정기 실행",
	Long: `Re-runs the batch on a cron schedule until interrupted.

The schedule comes from --cron or the run file's "schedule" key and accepts
5 fields, 6 fields (leading seconds) or descriptors such as @daily.
Every run rewrites the score list when an output file is configured.

Example:
  go run ./cmd/fscore schedule --config run.yaml --cron "0 18 * * 1-5"
  go run ./cmd/fscore schedule AAPL MSFT --cron @daily --run-now`,
	RunE: runSchedule,
}

var (
	scheduleCron   string
	scheduleFile   string
	scheduleOut    string
	scheduleRunNow bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression (overrides the run file)")
	scheduleCmd.Flags().StringVarP(&scheduleFile, "file", "f", "", "ticker list file")
	scheduleCmd.Flags().StringVarP(&scheduleOut, "out", "o", "", "score list CSV path")
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run once immediately")
}

// newBatchScheduler builds a scheduler with the score job registered
func newBatchScheduler(a *app, run *runconfig.Config, tickers []string, spec, outputFile string) (*scheduler.Scheduler, *jobs.ScoreJob, error) {
	if err := scheduler.ValidateSpec(spec); err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log, scheduler.WithRetry(1, 5*time.Minute))
	job := jobs.NewScoreJob(a.runner, pipelineConfig(run, tickers), spec, outputFile, a.log)
	if err := sched.AddJob(job); err != nil {
		return nil, nil, err
	}
	return sched, job, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	PrintTitle(out, "Scheduler")

	run, _, err := loadRunConfig()
	if err != nil {
		return err
	}

	spec := scheduleCron
	if spec == "" {
		spec = run.Schedule
	}
	if spec == "" {
		return fmt.Errorf("a schedule is required (--cron or run file \"schedule\")")
	}

	explicit, file := args, scheduleFile
	if len(explicit) == 0 {
		explicit = run.Tickers
		if file == "" {
			file = run.TickerFile
		}
	}
	tickers, err := universe.Resolve(explicit, file)
	if err != nil {
		return err
	}

	outputFile := scheduleOut
	if outputFile == "" {
		outputFile = run.OutputFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, run)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, job, err := newBatchScheduler(a, run, tickers, spec, outputFile)
	if err != nil {
		return err
	}

	PrintKeyValue(out, "Schedule", spec, 9)
	PrintKeyValue(out, "Tickers", fmt.Sprintf("%d", len(tickers)), 9)
	if outputFile != "" {
		PrintKeyValue(out, "Output", outputFile, 9)
	}

	sched.Start()
	defer sched.Stop()

	if next, ok := sched.NextRun(job.Name()); ok && !next.IsZero() {
		PrintKeyValue(out, "Next run", next.Format(time.RFC3339), 9)
	}

	if scheduleRunNow {
		result, err := sched.RunJob(job.Name())
		if err != nil {
			return err
		}
		if result.Success {
			if last := job.LastResult(); last != nil {
				PrintSuccess(out, fmt.Sprintf("Initial run: %s", summaryLine(last)))
			}
		} else {
			PrintError(out, fmt.Sprintf("Initial run failed: %s", result.Error))
		}
	}

	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
	<-ctx.Done()

	a.log.Info("Scheduler shutting down")
	return nil
}
