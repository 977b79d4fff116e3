package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"vehlog/internal/structures"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	root := newRootCmd(os.Stdin, os.Stdout)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:           "vehlog",
		Short:         "Parse, categorize and compare vehicle activity logs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", defaultConfigPath, "Path to the configuration file")
	pf.BoolVarP(&flags.DebugMode, "debug", "d", false, "Log to the console as well")

	root.AddCommand(
		newParseCmd(),
		newCategorizeCmd(),
		newGroupCmd(),
		newStatsCmd(),
		newValidateCmd(),
		newFilterCmd(),
		newPeriodsCmd(),
		newExportCmd(),
		newSnapshotCmd(flags),
		newServeCmd(flags),
	)
	return root
}
