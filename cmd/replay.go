package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/swipe/internal/log"
	"github.com/zjrosen/swipe/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Classify the gestures recorded in a trace file",
	Long: `Replay feeds a YAML trace of touch events through the gesture recognizer
and prints one line per completed touch: name, instruction and displacement.

Example trace:
  gestures:
    - name: swipe-left
      events:
        - {type: start, x: 100, y: 100}
        - {type: move, x: 40, y: 100}
        - {type: end}`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cleanupLog, err := setupLogging("swipe-replay")
	if err != nil {
		return err
	}
	defer cleanupLog()

	provider, shutdown, err := setupTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	trace, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	log.Info(log.CatReplay, "replaying", "path", args[0], "gestures", len(trace.Gestures), "threshold", cfg.Threshold)

	results, err := replay.Run(trace, cfg.Threshold, provider.Tracer())
	out := cmd.OutOrStdout()
	for _, r := range results {
		_, _ = fmt.Fprintln(out, r)
	}
	if err != nil {
		return fmt.Errorf("replaying %s: %w", args[0], err)
	}
	return nil
}
