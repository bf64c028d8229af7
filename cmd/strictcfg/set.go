package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/config/parser/text"
	"github.com/0xalexb/strictcfg/inspect"

	"github.com/spf13/cobra"
)

var errNotNative = errors.New("only files in the native grammar can be rewritten in place")

func newSetCmd() *cobra.Command {
	var (
		sf      schemaFlags
		retype  bool
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "set FILE PATH LITERAL",
		Short: "Write a value and print the resulting document",
		Long: "Write a value given as a literal of the native grammar, such as 8080, \"edge\" or [1, 2].\n" +
			"A key keeps its kind (int64 widens to float64) unless --retype is given.",
		Args: cobra.ExactArgs(3), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key, literal := args[0], args[1], args[2]

			if inPlace && !isNative(path) {
				return fmt.Errorf("%s: %w", path, errNotNative)
			}

			s, err := sf.load()
			if err != nil {
				return err
			}

			doc, err := config.Load(path)
			if err != nil {
				return err //nolint:wrapcheck
			}

			svc := inspect.NewService(doc.WithSchema(s))

			_, err = svc.Set(key, literal, retype)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out := config.Serialize(svc.Document())

			if inPlace {
				return writeInPlace(path, out)
			}

			printf(cmd.OutOrStdout(), "%s", out)

			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().BoolVar(&retype, "retype", false, "allow the value to change the key's kind")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite FILE instead of printing")

	return cmd
}

func isNative(path string) bool {
	_, native := config.ParserFor(path).(*text.Parser)

	return native
}

func writeInPlace(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = os.WriteFile(path, []byte(content), info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
