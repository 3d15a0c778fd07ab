package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/swipe/internal/gesture"
	"github.com/zjrosen/swipe/internal/instruction"
)

var classifyNoMove bool

var classifyCmd = &cobra.Command{
	Use:   "classify DX DY",
	Short: "Classify a displacement",
	Long: `Classify prints the instruction for a touch that moved by (DX, DY), where
DX = start.x - last.x and DY = start.y - last.y. Use -- before negative values:

  swipe classify -- -60 0   # slide_right`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyNoMove, "no-move", false,
		"treat the touch as never moved (always single_touch)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	dx, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing DX: %w", err)
	}
	dy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing DY: %w", err)
	}

	state := instruction.TouchState{
		Start: instruction.Point{X: dx, Y: dy},
		Moved: !classifyNoMove,
	}
	tag := gesture.Classify(state, cfg.Threshold)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tag.Arrow(), tag)
	return err
}
