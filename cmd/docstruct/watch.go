package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/docstruct/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	var flags outputFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <structuredData.json|result.zip>",
		Short: "Re-render a document whenever its extraction result changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.out == "" {
				return errors.New("watch requires --out")
			}
			format, err := a.outputFormat(flags.format, flags.out)
			if err != nil {
				return err
			}
			ext := flags.extractor(cmd, a, args[0])

			w := &watch.Watcher{
				Path:     args[0],
				Debounce: debounce,
				Logger:   a.logger,
				OnChange: func(ctx context.Context) error {
					return writeFile(flags.out, func(w io.Writer) error {
						warnings, err := ext.Render(ctx, w, format)
						if err != nil {
							return err
						}
						printWarnings(cmd.ErrOrStderr(), warnings)
						fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", flags.out)
						return nil
					})
				},
			}
			return w.Run(cmd.Context())
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-rendering")
	return cmd
}
