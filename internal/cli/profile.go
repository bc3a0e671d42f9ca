package cli

import (
	"github.com/spf13/cobra"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create and edit the reader profile",
	}
	cmd.AddCommand(
		a.newProfileCreateCmd(),
		a.newProfileShowCmd(),
		a.newProfileEditCmd(),
		a.newProfileGenreCmd(),
		a.newProfileLanguagesCmd(),
	)
	return cmd
}

func (a *app) newProfileCreateCmd() *cobra.Command {
	var (
		bio    string
		avatar domain.Avatar
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create the reader profile",
		Long: `Create the reader profile. Only one profile exists per library.

Examples:
  nightstandctl profile create ada
  nightstandctl profile create ada --bio "Reads in the bath" --hair curly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.library.CreateProfile(a.ctx(cmd), service.CreateProfileRequest{
				Username: args[0],
				Avatar:   avatar,
				Bio:      bio,
			})
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				a.ok("Created profile %s", view.Profile.Username)
			})
		},
	}

	cmd.Flags().StringVar(&bio, "bio", "", "Short biography")
	cmd.Flags().StringVar(&avatar.Body, "body", "", "Avatar body")
	cmd.Flags().StringVar(&avatar.Clothes, "clothes", "", "Avatar clothes")
	cmd.Flags().StringVar(&avatar.Face, "face", "", "Avatar face")
	cmd.Flags().StringVar(&avatar.Hair, "hair", "", "Avatar hair")
	cmd.Flags().StringVar(&avatar.FacialHair, "facial-hair", "", "Avatar facial hair")

	return cmd
}

func (a *app) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show level, experience and reading totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.library.GetProfile(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.emit(view, func() { a.printProfile(view) })
		},
	}
}

func (a *app) newProfileEditCmd() *cobra.Command {
	var bio string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change the bio",
		Long:  `Change the bio. The username is fixed once the profile is created.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req service.UpdateProfileRequest
			if cmd.Flags().Changed("bio") {
				req.Bio = &bio
			}

			view, err := a.library.UpdateProfile(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.emit(view, func() { a.ok("Updated profile %s", view.Profile.Username) })
		},
	}

	cmd.Flags().StringVar(&bio, "bio", "", "New biography; empty clears it")

	return cmd
}

func (a *app) newProfileGenreCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "genre <genre>",
		Short: "Add or remove a favorite genre",
		Long: `Add a favorite genre, or remove one with --remove. Common spellings
resolve to the standard name, so "sci-fi" is stored as "Science Fiction".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				view *service.ProfileView
				err  error
			)
			if remove {
				view, err = a.library.RemoveFavoriteGenre(a.ctx(cmd), args[0])
			} else {
				view, err = a.library.AddFavoriteGenre(a.ctx(cmd), args[0])
			}
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				a.ok("Favorite genres: %v", view.Profile.FavoriteGenres)
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove instead of add")

	return cmd
}

func (a *app) newProfileLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages <language>...",
		Short: "Set the preferred reading languages",
		Long: `Replace the preferred languages. Accepts codes ("en", "deu") or
English names ("German"). Region subtags are dropped, so "pt-BR" is stored as "pt".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.library.SetPreferredLanguages(a.ctx(cmd), args)
			if err != nil {
				return err
			}
			return a.emit(view, func() {
				a.ok("Preferred languages: %v", view.Profile.PreferredLanguages)
			})
		},
	}
}
