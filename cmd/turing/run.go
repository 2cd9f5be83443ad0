package main

import (
	"errors"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Run a program and draw its tape",
	Long: `Runs a program from a DSL, YAML or binary (.tmb) file, drawing the tape
window around the head after every step, then prints a report with the final
status, the readable program, a hex dump of its binary form and the history.

With --interactive the machine advances one step per key press.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.RunOptions{File: args[0], Logger: logger}

		policy, err := settings.EnginePolicy()
		if err != nil {
			fail("Invalid policy", err)
		}
		if permissive, _ := cmd.Flags().GetBool("permissive"); permissive {
			policy = engine.PolicyPermissive
		}
		opts.Policy = policy

		opts.MaxSteps = settings.MaxSteps
		if cmd.Flags().Changed("max-steps") {
			opts.MaxSteps, _ = cmd.Flags().GetUint64("max-steps")
		}
		opts.Window = settings.Window
		if cmd.Flags().Changed("window") {
			opts.Window, _ = cmd.Flags().GetInt("window")
		}
		opts.Interactive, _ = cmd.Flags().GetBool("interactive")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.NoReport, _ = cmd.Flags().GetBool("no-report")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.Execute(ctx, opts, os.Stdin, os.Stdout)
		switch {
		case err == nil, errors.Is(err, cli.ErrQuit):
		case ctx.Signal() != nil:
			logger.Warn("run interrupted", "signal", ctx.Signal().String())
			exit(130)
		default:
			fail("Run stopped", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("permissive", false, "Leave the machine active on undefined transitions instead of rejecting")
	runCmd.Flags().Uint64("max-steps", 0, "Step limit, 0 disables it (default from settings)")
	runCmd.Flags().BoolP("interactive", "i", false, "Step through the run with the keyboard")
	runCmd.Flags().IntP("window", "w", 0, "Cells drawn on each side of the head (default from settings)")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not draw the tape on every step")
	runCmd.Flags().Bool("no-report", false, "Skip the final report")
}
