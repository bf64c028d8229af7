package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/logging"
	"github.com/0xalexb/strictcfg/schema"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("check failed")

type globalFlags struct {
	logLevel  string
	logFormat string
	noColor   bool
}

type schemaFlags struct {
	path   string
	strict bool
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "schema", "", "schema file to validate against")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "report keys the schema does not declare")
}

// load returns the schema named by the flags, or nil when none was given.
func (f *schemaFlags) load() (*schema.Schema, error) {
	if f.path == "" {
		if f.strict {
			return nil, errors.New("--strict requires --schema")
		}

		return nil, nil //nolint:nilnil
	}

	var opts []schema.Option
	if f.strict {
		opts = append(opts, schema.WithStrictKeys())
	}

	return config.LoadSchema(f.path, opts...) //nolint:wrapcheck
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "strictcfg",
		Short:         "Typed configuration documents: check, query, edit, format and serve",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logging.NewLogger(logging.LoggerConfig{Level: flags.logLevel, Format: flags.logFormat},
				cmd.ErrOrStderr())
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", logging.FormatText, "log format: json or text")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newCheckCmd(&flags),
		newGetCmd(),
		newSetCmd(),
		newFmtCmd(&flags),
		newServeCmd(&flags),
		newVersionCmd(),
	)

	return cmd
}

// palette colors terminal output. Colors are only used when out is a terminal.
type palette struct {
	ok, fail, add, del *color.Color
}

func newPalette(out io.Writer, flags *globalFlags) palette {
	p := palette{
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		add:  color.New(color.FgGreen),
		del:  color.New(color.FgRed),
	}

	enabled := !flags.noColor && isTerminal(out)

	for _, c := range []*color.Color{p.ok, p.fail, p.add, p.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
