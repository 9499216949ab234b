package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/ha1tch/bubblechart/pkg/chartedit"
	"github.com/ha1tch/bubblechart/pkg/chartfile"
)

func dupCmd() *cobra.Command {
	var (
		output string
		arc    bool
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "dup <file> <name>",
		Short: "Duplicate a node (with its arcs) or, with --arc, an arc",
		Long: "Duplicate the node called <name> together with every arc touching it,\n" +
			"exactly as the editor's Duplicate menu item does. The result is written\n" +
			"to -o, or back to <file>.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]
			doc, err := loadChart(path)
			if err != nil {
				return err
			}

			opts := chartedit.Options{}
			if seed != 0 {
				opts.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
			}
			ed := chartedit.New(opts)
			ed.SetGraph(doc.Nodes, doc.Arcs)

			w := cmd.OutOrStdout()
			if arc {
				a := ed.Graph().ArcByName(name)
				if a == nil {
					return fmt.Errorf("no arc named %q", name)
				}
				c := ed.DuplicateArc(a)
				Good.Fprintf(w, "✓ Added arc %d %q\n", c.ID, c.Name)
			} else {
				n := ed.Graph().NodeByName(name)
				if n == nil {
					return fmt.Errorf("no node named %q", name)
				}
				c, arcs := ed.DuplicateNode(n)
				Good.Fprintf(w, "✓ Added node %d %q\n", c.ID, c.Name)
				for _, a := range arcs {
					Subtle.Fprintf(w, "  arc %d %q\n", a.ID, a.Name)
				}
			}

			doc.SetGraph(ed.Graph())
			if output == "" {
				output = path
			}
			if err := chartfile.Save(output, doc); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")
	cmd.Flags().BoolVar(&arc, "arc", false, "Duplicate an arc instead of a node")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the duplicate's colour (0: random)")
	return cmd
}
