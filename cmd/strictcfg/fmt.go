package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/0xalexb/strictcfg/config"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func newFmtCmd(flags *globalFlags) *cobra.Command {
	var (
		showDiff bool
		inPlace  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a document in canonical form",
		Long: "Print a document in the canonical native grammar. YAML and TOML input is converted.\n" +
			"--diff prints the changes instead; -w rewrites a native file in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if inPlace && !isNative(path) {
				return fmt.Errorf("%s: %w", path, errNotNative)
			}

			original, err := os.ReadFile(path)
			if err != nil {
				return err //nolint:wrapcheck
			}

			doc, err := config.Load(path)
			if err != nil {
				return err //nolint:wrapcheck
			}

			formatted := config.Serialize(doc)
			out := cmd.OutOrStdout()

			switch {
			case showDiff:
				writeLineDiff(out, newPalette(out, flags), string(original), formatted)
			case inPlace:
				if string(original) == formatted {
					return nil
				}

				return writeInPlace(path, formatted)
			default:
				printf(out, "%s", formatted)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff against the file")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite FILE instead of printing")

	return cmd
}

// writeLineDiff prints the lines removed from a with "-" and those added in b with "+".
// Nothing is printed when a and b are equal.
func writeLineDiff(w io.Writer, p palette, a, b string) {
	dmp := diffmatchpatch.New()

	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, d := range diffs {
		prefix, c := "+", p.add

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", p.del
		case diffmatchpatch.DiffInsert:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			printf(w, "%s\n", c.Sprint(prefix+strings.TrimSuffix(line, "\n")))
		}
	}
}
