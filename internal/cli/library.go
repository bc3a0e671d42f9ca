package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Maintain the reading totals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Recompute pages read from the books",
		Long: `Recompute the profile's pages-read total from the collection: every page
of finished books plus the pages read of books on the nightstand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.library.ReconcileTotalPagesRead(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.emit(res, func() {
				if res.Before == res.After {
					a.ok("Pages read already consistent: %d", res.After)
					return
				}
				a.ok("Pages read corrected from %d to %d", res.Before, res.After)
			})
		},
	})

	return cmd
}

func (a *app) newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the book catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.library.SearchMetadata(a.ctx(cmd), args[0], limit)
			if err != nil {
				return err
			}
			return a.emit(results, func() {
				if len(results) == 0 {
					fmt.Fprintln(a.out, color.HiBlackString("no matches"))
					return
				}
				for _, c := range results {
					line := fmt.Sprintf("%-14s %s", c.ID, c.Title)
					if len(c.Authors) > 0 {
						line += " by " + c.Authors[0]
					}
					if c.PageCount != nil {
						line += fmt.Sprintf(" (%d pages)", *c.PageCount)
					}
					fmt.Fprintln(a.out, line)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results")

	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the books and profile as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.library.Export(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.printJSON(snap)
		},
	}
}

func (a *app) newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every book and the profile",
		Long:  `Delete every book and the profile. This cannot be undone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes all data; pass --yes to confirm")
			}
			if err := a.library.Reset(a.ctx(cmd)); err != nil {
				return err
			}
			a.ok("Library reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
