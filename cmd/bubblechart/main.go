// Command bubblechart is a CLI tool for working with bubble chart files.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/bubblechart/pkg/chartfile"
)

var version = "0.3.0"

// Status printers.
var (
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Warn   = color.New(color.FgYellow)
	Subtle = color.New(color.FgHiBlack)
	Title  = color.New(color.FgHiCyan, color.Bold)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "bubblechart: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bubblechart",
		Short: "Bubble chart toolkit",
		Long: Title.Sprint("bubblechart") + " - inspect, convert and share bubble chart state diagrams\n" +
			Subtle.Sprint("Charts are read from .json or .chart files"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  bubblechart info traffic.chart
  bubblechart convert traffic.json -o traffic.chart
  bubblechart dot traffic.chart | dot -Tpng -o traffic.png
  bubblechart render traffic.chart -o traffic.svg
  bubblechart dup traffic.chart Red -o traffic2.chart
  bubblechart push traffic.chart --dsn postgres://localhost/charts`,
	}
	root.SetVersionTemplate("bubblechart {{ .Version }}\n")

	var dsn string
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string (default $BUBBLECHART_DSN)")

	root.AddCommand(
		infoCmd(),
		validateCmd(),
		convertCmd(),
		dotCmd(),
		renderCmd(),
		dupCmd(),
		pushCmd(&dsn),
		pullCmd(&dsn),
		lsCmd(&dsn),
		rmCmd(&dsn),
	)
	return root
}

// loadChart reads a chart, naming the file in any error.
func loadChart(path string) (*chartfile.Document, error) {
	doc, err := chartfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

// swapExt replaces path's extension with ext.
func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show chart information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadChart(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func printInfo(w io.Writer, doc *chartfile.Document) {
	name := doc.Name
	if name == "" {
		name = "(unnamed)"
	}
	Title.Fprintln(w, name)
	fmt.Fprintf(w, "  %-10s %s\n", "ID", doc.ID)
	if doc.Description != "" {
		fmt.Fprintf(w, "  %-10s %s\n", "About", doc.Description)
	}
	initial := doc.Initial
	if initial == "" {
		initial = Subtle.Sprint("none")
	}
	fmt.Fprintf(w, "  %-10s %s\n", "Initial", initial)
	fmt.Fprintf(w, "  %-10s %d\n", "Nodes", len(doc.Nodes))
	fmt.Fprintf(w, "  %-10s %d\n", "Arcs", len(doc.Arcs))

	if len(doc.Nodes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Nodes:")
		for _, n := range doc.Nodes {
			marker := " "
			if n.Name == doc.Initial {
				marker = "→"
			}
			fmt.Fprintf(w, "  %s %3d  %-20s %s\n", marker, n.ID, n.Name, Subtle.Sprint(n.Fill.Hex()))
		}
	}

	if len(doc.Arcs) > 0 {
		g := doc.Graph()
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Arcs:")
		for _, a := range g.Arcs() {
			src, dst := "?", "?"
			if a.Source != nil {
				src = a.Source.Name
			}
			if a.Destination != nil {
				dst = a.Destination.Name
			}
			line := fmt.Sprintf("  %3d  %s --%s--> %s", a.ID, src, a.Name, dst)
			if !a.Resolved() {
				Warn.Fprintln(w, line+"  (unresolved)")
				continue
			}
			fmt.Fprintln(w, line)
			for _, c := range a.Conditions {
				fmt.Fprintln(w, Subtle.Sprintf("         [%s]", c))
			}
			for _, act := range a.Actions {
				fmt.Fprintln(w, Subtle.Sprintf("         / %s", act))
			}
		}
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check charts for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				doc, err := loadChart(path)
				if err == nil {
					err = chartfile.Validate(doc)
				}
				if err != nil {
					failed++
					Bad.Fprintf(w, "✗ %s\n", path)
					fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(err.Error(), "\n", "\n  "))
					continue
				}
				Good.Fprintf(w, "✓ %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d charts invalid", failed, len(args))
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between formats (json, chart, dot, svg, png)",
		Long: "Convert a chart. The output format follows the output file's extension.\n" +
			"Without -o, .json becomes .chart and anything else becomes .json.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			doc, err := loadChart(input)
			if err != nil {
				return err
			}
			if output == "" {
				if chartfile.FormatFromPath(input) == chartfile.FormatJSON {
					output = swapExt(input, ".chart")
				} else {
					output = swapExt(input, ".json")
				}
			}
			if chartfile.FormatFromPath(output) == chartfile.FormatUnknown {
				return fmt.Errorf("%w: %s", chartfile.ErrUnknownFormat, output)
			}
			if err := chartfile.Save(output, doc); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			Good.Fprintf(cmd.OutOrStdout(), "✓ Converted %s → %s\n", input, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	return cmd
}

func dotCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Generate Graphviz DOT output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadChart(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = doc.Name
			}
			_, err = io.WriteString(cmd.OutOrStdout(), chartfile.GenerateDOT(doc, title))
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Graph title (default: chart name)")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		output string
		format string
		title  string
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a chart to SVG or PNG with the built-in renderer",
		Long: "Render a chart to an image. The format comes from --format or the\n" +
			"output extension and defaults to png. With -o - the image goes to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadChart(args[0])
			if err != nil {
				return err
			}

			f := chartfile.ParseFormat(format)
			if format == "" {
				f = chartfile.FormatFromPath(output)
			}
			if format == "" && f == chartfile.FormatUnknown {
				f = chartfile.FormatPNG
			}
			if f != chartfile.FormatSVG && f != chartfile.FormatPNG {
				return fmt.Errorf("render supports svg and png, not %q", f)
			}
			if output == "" {
				output = swapExt(args[0], "."+f.String())
			}
			if title != "" {
				doc.Name = title
			}

			if output == "-" {
				return chartfile.Export(cmd.OutOrStdout(), doc, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := chartfile.Export(file, doc, f); err != nil {
				file.Close()
				os.Remove(output)
				return fmt.Errorf("rendering %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			Good.Fprintf(cmd.ErrOrStderr(), "✓ Rendered %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Image format: svg or png")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title drawn above the chart")
	return cmd
}
