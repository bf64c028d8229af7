package main

import (
	"github.com/0xalexb/strictcfg"
	"github.com/0xalexb/strictcfg/listener"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		sf    schemaFlags
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a document over HTTP for inspection and live edits",
		Long: "Serve a document over HTTP. GET/PUT/DELETE /values/{path} read and edit values,\n" +
			"GET /document prints the current state and GET /violations validates it.\n" +
			"With --watch, changes to FILE replace the served state.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := sf.load()
			if err != nil {
				return err
			}

			opts := []strictcfg.Option{
				strictcfg.WithLogLevel(flags.logLevel),
				strictcfg.WithLogFormat(flags.logFormat),
				strictcfg.WithDocument(args[0], s),
				strictcfg.WithInspector("inspect", listener.WithAddress(addr)),
			}

			if watch {
				opts = append(opts, strictcfg.WithReload(args[0], s))
			}

			app := strictcfg.NewApp(opts...)

			err = app.Err()
			if err != nil {
				return err //nolint:wrapcheck
			}

			app.Run()

			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", listener.DefaultAddress, "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload FILE when it changes")

	return cmd
}
