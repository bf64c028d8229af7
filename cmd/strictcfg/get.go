package main

import (
	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/encode"
	"github.com/0xalexb/strictcfg/inspect"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var (
		sf   schemaFlags
		kind string
	)

	cmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a dotted path",
		Long: "Print the value at a dotted path as a literal of the native grammar. Schema defaults\n" +
			"apply to absent keys; --kind converts the value under the accessor rules.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sf.load()
			if err != nil {
				return err
			}

			doc, err := config.Load(args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			v, err := inspect.NewService(doc.WithSchema(s)).Get(args[1], kind)
			if err != nil {
				return err //nolint:wrapcheck
			}

			literal, err := encode.FormatValue(v)
			if err != nil {
				return err //nolint:wrapcheck
			}

			printf(cmd.OutOrStdout(), "%s\n", literal)

			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "convert to kind: bool, int64, float64, string, array or table")

	return cmd
}
