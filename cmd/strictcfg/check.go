package main

import (
	"runtime"

	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/schema"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkResult is the outcome for one file. Exactly one of err and violations
// is set when the file fails.
type checkResult struct {
	path       string
	err        error
	violations schema.Violations
}

func (r checkResult) failed() bool {
	return r.err != nil || len(r.violations) > 0
}

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var sf schemaFlags

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse files and validate them against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sf.load()
			if err != nil {
				return err
			}

			results := checkFiles(cmd, args, s)

			out := cmd.OutOrStdout()
			p := newPalette(out, flags)
			failed := 0

			for _, r := range results {
				if !r.failed() {
					printf(out, "%s %s\n", p.ok.Sprint("ok  "), r.path)

					continue
				}

				failed++

				printf(out, "%s %s\n", p.fail.Sprint("FAIL"), r.path)

				if r.err != nil {
					printf(out, "     %v\n", r.err)
				}

				for _, v := range r.violations {
					printf(out, "     %v\n", v)
				}
			}

			if failed > 0 {
				printf(out, "%d of %d files failed\n", failed, len(results))

				return errCheckFailed
			}

			return nil
		},
	}

	sf.register(cmd)

	return cmd
}

// checkFiles checks paths concurrently and returns the results in input order.
func checkFiles(cmd *cobra.Command, paths []string, s *schema.Schema) []checkResult {
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = checkResult{path: path, err: ctx.Err()}

				return nil
			}

			results[i] = checkFile(path, s)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func checkFile(path string, s *schema.Schema) checkResult {
	doc, err := config.Load(path)
	if err != nil {
		return checkResult{path: path, err: err}
	}

	return checkResult{path: path, violations: config.Validate(doc, s)}
}
