package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/docstruct"
	"github.com/tsawler/docstruct/internal/config"
	"github.com/tsawler/docstruct/render"
	"github.com/tsawler/docstruct/source"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// app holds the state shared by every command
type app struct {
	configPath string
	verbose    bool
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "docstruct",
		Short: "Rebuild readable documents from PDF extraction results",
		Long: `docstruct turns the positioned elements of a PDF extraction result
(structuredData.json, or a zip archive holding it) into an ordered document
of headings, paragraphs, lists, tables and figures, and renders it as HTML,
Markdown, JSON or plain text.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text|json (default: from config, text)")

	root.AddCommand(
		convertCmd(a),
		outlineCmd(a),
		serveCmd(a),
		watchCmd(a),
		mcpCmd(a),
		versionCmd(),
	)
	return root
}

// init loads the configuration and builds the logger
func (a *app) init(stderr io.Writer) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// extractor opens input, which is a local file or an http(s) URL
func (a *app) extractor(input string) *docstruct.Extractor {
	var src source.Source = source.File{Path: input}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		src = source.HTTP{URL: input}
	}
	return docstruct.FromSource(src).
		WithConfig(a.cfg.AnalyzerConfig()).
		WithLogger(a.logger)
}

// outputFormat resolves the format from the flag, then the output file
// extension, then the configuration
func (a *app) outputFormat(flag, out string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		if f, err := render.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return a.cfg.Format()
}

// writeFile writes through a temporary file in the same directory so
// readers never see a partial document
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "docstruct", version)
		},
	}
}
