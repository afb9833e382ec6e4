package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tsawler/docstruct"
)

var (
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// outputFlags are the rendering flags shared by convert and watch
type outputFlags struct {
	format       string
	out          string
	numberBlocks bool
	sanitize     bool
	standalone   bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: html|markdown|json|text (default: from --out, then config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&f.numberBlocks, "number-blocks", false, "number blocks as block-1..block-N")
	cmd.Flags().BoolVar(&f.sanitize, "sanitize", false, "sanitize HTML and Markdown output")
	cmd.Flags().BoolVar(&f.standalone, "standalone", false, "write a complete HTML page")
}

// extractor applies the flags on top of the configured defaults
func (f *outputFlags) extractor(cmd *cobra.Command, a *app, input string) *docstruct.Extractor {
	opts := a.cfg.RenderOptions()
	if cmd.Flags().Changed("sanitize") {
		opts.Sanitize = f.sanitize
	}
	if cmd.Flags().Changed("standalone") {
		opts.Standalone = f.standalone
	}

	ext := a.extractor(input).WithRenderOptions(opts)
	if f.numberBlocks {
		ext = ext.NumberBlocks()
	}
	return ext
}

func convertCmd(a *app) *cobra.Command {
	var flags outputFlags
	var quiet bool

	cmd := &cobra.Command{
		Use:   "convert <structuredData.json|result.zip|url>",
		Short: "Reconstruct a document and render it",
		Long: `Convert reads an extraction result, reconstructs the document and writes
it in the requested format.

Examples:
  docstruct convert structuredData.json
  docstruct convert result.zip -o manual.md
  docstruct convert structuredData.json --format html --standalone --number-blocks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(flags.format, flags.out)
			if err != nil {
				return err
			}
			ext := flags.extractor(cmd, a, args[0])

			var warnings []docstruct.Warning
			write := func(w io.Writer) error {
				warnings, err = ext.Render(cmd.Context(), w, format)
				return err
			}
			if flags.out == "" {
				err = write(cmd.OutOrStdout())
			} else {
				err = writeFile(flags.out, write)
			}
			if err != nil {
				return err
			}

			if !quiet {
				printWarnings(cmd.ErrOrStderr(), warnings)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print warnings")
	return cmd
}

func outlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <structuredData.json|result.zip|url>",
		Short: "Print the document headings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.extractor(args[0]).Document(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, entry := range doc.TableOfContents() {
				indent := strings.Repeat("  ", max(entry.Level-1, 0))
				fmt.Fprintf(w, "%s%s %s\n", indent, entry.Text, mutedStyle.Render(fmt.Sprintf("(p. %d)", entry.Page+1)))
			}
			return nil
		},
	}
}

func printWarnings(w io.Writer, warnings []docstruct.Warning) {
	if len(warnings) == 0 {
		return
	}
	for _, warning := range warnings {
		fmt.Fprintln(w, warningStyle.Render("warning:"), warning.String())
	}
	fmt.Fprintln(w, mutedStyle.Render(docstruct.SummarizeWarnings(warnings)))
}
