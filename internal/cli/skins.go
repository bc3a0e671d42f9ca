package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) newSkinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skins",
		Short: "List and select nightstand skins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.library.ListSkins(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				for _, s := range view.Skins {
					if !s.Selectable {
						continue
					}
					mark := " "
					if s.Selected {
						mark = color.GreenString("●")
					}

					state := color.GreenString("unlocked")
					if !s.Unlocked {
						state = color.HiBlackString("locked")
					}
					line := fmt.Sprintf("%s %-14s %-10s %-20s %s", mark, s.ID, s.Category, s.Name, state)
					if r := s.Requirement; r != nil && !s.Unlocked {
						line += fmt.Sprintf(" (%d/%d %s)", s.Progress, r.Count, r.Genre)
					}
					fmt.Fprintln(a.out, line)
				}
			})
		},
	}

	cmd.AddCommand(a.newSkinsSelectCmd())
	return cmd
}

func (a *app) newSkinsSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <skin-id>",
		Short: "Select an unlocked nightstand skin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.library.SelectNightstandSkin(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				a.ok("Nightstand skin set to %s", view.Profile.SelectedNightStandSkinID)
			})
		},
	}
}

func (a *app) newNightstandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nightstand",
		Short: "Show the nightstand as it is displayed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.library.NightstandDisplay(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				fmt.Fprintf(a.out, "%s (%s), %d books\n", view.Skin.Name, view.Skin.ID, view.Count)
				a.printBooks(view.Books)
			})
		},
	}
}
