package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clientbrief/clientbrief/errors"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "clientbrief",
	Short: "Generate PDF client reports from dialogue transcripts",
	Long: `clientbrief reads a client conversation transcript, analyses it with an
LLM, and renders the structured result into a PDF report. Analyses are cached
on disk, so re-running over an unchanged transcript costs no API calls.`,
	Example: `  clientbrief
  clientbrief --input transcripts/meeting_2026.txt
  clientbrief --input data.txt --output reports/custom_report.pdf
  clientbrief --report-type design
  clientbrief --no-cache --log-level debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runGenerate(cmd); err != nil {
			reportError(err)
		}
		return nil
	},
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = errors.ExitOK

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints usage errors
		return errors.ExitUsage
	}

	return exitCode
}

// reportError prints a failure to stderr and maps it onto the exit code
// ladder. Interrupts get their own code so wrappers can tell them apart.
func reportError(err error) {
	if stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\n✗ Interrupted.")
		exitCode = errors.ExitInterrupted
		return
	}

	fmt.Fprintf(os.Stderr, "\n✗ ERROR: %v\n", err)
	if errors.CodeOf(err) == errors.ErrorCode_INTERNAL {
		fmt.Fprintln(os.Stderr, "Check logs/app.log for details.")
	}
	exitCode = errors.ExitCodeFor(err)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print clientbrief version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "clientbrief version %s\n", version)
	},
}
