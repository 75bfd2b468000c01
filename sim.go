package main

import (
	"fmt"
	"os"

	"scratchcalc/internal/script"

	"github.com/spf13/cobra"
)

// NewSimCmd creates the sim command, which replays a pointer script against
// a card without any display.
func NewSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim <script.yaml>",
		Short: "Replay a scratch script and report progress",
		Long: `Replay a YAML script of pointer events against a fresh scratch surface
and print when scratching started, which encouragement tiers were crossed,
and when the card completed and revealed its result.`,
		Args: cobra.ExactArgs(1),
		RunE: runSim,
	}
	cmd.Flags().Bool("verify", false, "Check incremental coverage against a full rescan after every event")
	return cmd
}

func runSim(cmd *cobra.Command, args []string) error {
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := script.Load(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	rep, err := script.Run(s, script.Options{Verify: verify})
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return rep.WriteText(cmd.OutOrStdout())
}
