package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ha1tch/bubblechart/pkg/chartfile"
	"github.com/ha1tch/bubblechart/pkg/chartstore"
	"github.com/ha1tch/bubblechart/pkg/chartstore/postgres"
)

// openStore connects to the chart store. Tests replace it.
var openStore = func(ctx context.Context, dsn string) (chartstore.Store, func(), error) {
	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	s := postgres.New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("chartstore: create schema: %w", err)
	}
	return s, pool.Close, nil
}

// withStore resolves the DSN and runs fn against an open store.
func withStore(cmd *cobra.Command, dsn string, fn func(context.Context, chartstore.Store) error) error {
	if dsn == "" {
		dsn = os.Getenv("BUBBLECHART_DSN")
	}
	if dsn == "" {
		return errors.New("no database: pass --dsn or set BUBBLECHART_DSN")
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	s, closeFn, err := openStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, s)
}

func pushCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>...",
		Short: "Store charts in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *dsn, func(ctx context.Context, s chartstore.Store) error {
				for _, path := range args {
					doc, err := loadChart(path)
					if err != nil {
						return err
					}
					if err := s.Put(ctx, doc); err != nil {
						return err
					}
					Good.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", path, doc.ID)
				}
				return nil
			})
		},
	}
}

func pullCmd(dsn *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Fetch a chart from the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid chart id %q: %w", args[0], err)
			}
			return withStore(cmd, *dsn, func(ctx context.Context, s chartstore.Store) error {
				doc, err := s.Get(ctx, id)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = id.String() + ".chart"
				}
				if err := chartfile.Save(path, doc); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				Good.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", id, path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <id>.chart)")
	return cmd
}

func lsCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored charts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *dsn, func(ctx context.Context, s chartstore.Store) error {
				list, err := s.List(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(list) == 0 {
					Subtle.Fprintln(w, "No charts stored")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tNODES\tARCS\tUPDATED")
				for _, sum := range list {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
						sum.ID, sum.Name, sum.Nodes, sum.Arcs, sum.UpdatedAt.Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func rmCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete stored charts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *dsn, func(ctx context.Context, s chartstore.Store) error {
				for _, arg := range args {
					id, err := uuid.Parse(arg)
					if err != nil {
						return fmt.Errorf("invalid chart id %q: %w", arg, err)
					}
					if err := s.Delete(ctx, id); err != nil {
						if errors.Is(err, chartstore.ErrChartNotFound) {
							Warn.Fprintf(cmd.OutOrStdout(), "! %s not found\n", id)
							continue
						}
						return err
					}
					Good.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", id)
				}
				return nil
			})
		},
	}
}
