package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tscheck/internal/core/errors"
	"tscheck/internal/shared/version"
)

const (
	ExitOK     = 0
	ExitLint   = 1
	ExitConfig = 2
)

// exitCodeError carries a non-zero exit status out of a command without
// being printed as an error.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ec exitCodeError
	if stderrors.As(err, &ec) {
		return ec.code
	}
	if errors.IsCode(err, errors.CodeConfiguration) {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
	} else {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return ExitConfig
}

func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "tscheck",
		Short:         "Require @ts-check in JavaScript sources",
		Long:          `tscheck reports JavaScript and TypeScript files that do not opt into type checking with a // @ts-check comment.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		configureLogging(cmd.ErrOrStderr(), verbose)
	}

	root.AddCommand(newLintCommand())
	root.AddCommand(newRulesCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
