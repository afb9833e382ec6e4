package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/docstruct/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconstruction API over HTTP",
		Long: `Serve accepts extraction results on POST /v1/reconstruct and answers with
the rendered document. Query parameters format, number_blocks, sanitize,
standalone and indent override the configured output settings.

Examples:
  docstruct serve
  docstruct serve --addr 127.0.0.1:9000 --config docstruct.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return server.New(a.cfg, a.logger).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8080)")
	return cmd
}
