package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

func (a *app) newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Aliases: []string{"books"},
		Short:   "Add, move and track books",
	}
	cmd.AddCommand(
		a.newBookAddCmd(),
		a.newBookLookupCmd(),
		a.newBookListCmd(),
		a.newBookFindCmd(),
		a.newBookShowCmd(),
		a.newBookMoveCmd(),
		a.newBookProgressCmd(),
		a.newBookHideCmd(),
		a.newBookCoverCmd(),
		a.newBookDeleteCmd(),
	)
	return cmd
}

func (a *app) newBookAddCmd() *cobra.Command {
	var (
		in                  domain.NewBook
		status              string
		pages, read, rating int
		keywords            []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book",
		Long: `Add a book to the bag, or straight to the nightstand or shelf with --status.
Adding to the shelf counts as finishing the book.

Examples:
  nightstandctl book add "Dune" --author "Frank Herbert" --pages 412
  nightstandctl book add "Emma" --author "Jane Austen" --status shelf --rating 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			in.Keywords = keywords
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				in.Status = s
			}
			if cmd.Flags().Changed("pages") {
				in.TotalPages = domain.IntPtr(pages)
			}
			if cmd.Flags().Changed("read") {
				in.PagesRead = domain.IntPtr(read)
			}
			if cmd.Flags().Changed("rating") {
				in.Rating = domain.IntPtr(rating)
			}

			change, err := a.library.AddBook(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			return a.emit(change, func() { a.printChange("Added", change) })
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Author, "author", "a", "", "Author (required)")
	f.StringVarP(&status, "status", "s", "", "bag (default), nightstand or shelf")
	f.IntVar(&pages, "pages", 0, "Total pages")
	f.IntVar(&read, "read", 0, "Pages read so far (nightstand only)")
	f.IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	f.StringVar(&in.Genre, "genre", "", "Genre")
	f.StringVar(&in.Language, "language", "", "Language code or English name")
	f.StringVar(&in.ISBN, "isbn", "", "ISBN")
	f.StringVar(&in.Publisher, "publisher", "", "Publisher")
	f.StringVar(&in.ReleaseDate, "released", "", "Release date")
	f.StringVar(&in.Notes, "notes", "", "Notes")
	f.StringSliceVar(&keywords, "keyword", nil, "Keyword (repeatable)")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func (a *app) newBookLookupCmd() *cobra.Command {
	var volumeID, status string

	cmd := &cobra.Command{
		Use:   "lookup [query]",
		Short: "Add a book using catalog metadata",
		Long: `Look a book up in the Google Books catalog and add it with the catalog's
title, author, page count, cover and description. Pass a search query to add
the best match, or --volume to add a specific catalog entry.

Examples:
  nightstandctl book lookup "dune frank herbert"
  nightstandctl book lookup --volume B1hSG45JCX4C --status nightstand`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.LookupRequest{VolumeID: volumeID}
			if len(args) == 1 {
				req.Query = args[0]
			}
			if req.VolumeID == "" && req.Query == "" {
				return fmt.Errorf("a query or --volume is required")
			}
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				req.Status = s
			}

			change, err := a.library.AddBookFromLookup(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.emit(change, func() { a.printChange("Added", change) })
		},
	}

	cmd.Flags().StringVar(&volumeID, "volume", "", "Catalog volume ID")
	cmd.Flags().StringVarP(&status, "status", "s", "", "bag (default), nightstand or shelf")

	return cmd
}

func (a *app) newBookListCmd() *cobra.Command {
	var (
		status string
		all    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.BookFilter{IncludeHidden: all}
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = s
			}

			books, err := a.library.ListBooks(a.ctx(cmd), filter)
			if err != nil {
				return err
			}
			return a.emit(books, func() { a.printBooks(books) })
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only books with this status")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden books")

	return cmd
}

func (a *app) newBookFindCmd() *cobra.Command {
	var (
		status string
		all    bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "find <words>",
		Short: "Search your books by title, author, genre, keywords or notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.SearchBooksRequest{
				Query:         strings.Join(args, " "),
				IncludeHidden: all,
				Limit:         limit,
			}
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				req.Status = s
			}

			res, err := a.library.SearchBooks(a.ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.emit(res, func() {
				books := make([]domain.Book, 0, len(res.Hits))
				for _, h := range res.Hits {
					books = append(books, h.Book)
				}
				a.printBooks(books)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only books with this status")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden books")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum results")

	return cmd
}

func (a *app) newBookShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.library.GetBook(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			return a.emit(book, func() { a.printBook(book) })
		},
	}
}

func (a *app) printBook(b *domain.Book) {
	fmt.Fprintf(a.out, "%s\n", b.Title)
	a.note("by %s", b.Author)
	a.note("id: %s", b.ID)
	a.note("status: %s", statusColor(b.Status))
	if b.TotalPages != nil {
		a.note("pages: %d/%d", derefInt(b.PagesRead), *b.TotalPages)
	}
	if b.Rating != nil {
		a.note("rating: %s", strings.Repeat("★", *b.Rating))
	}
	if b.Genre != "" {
		a.note("genre: %s", b.Genre)
	}
	if b.Language != "" {
		a.note("language: %s", b.Language)
	}
	if b.DateStarted != nil {
		a.note("started: %s", b.DateStarted.Format("2006-01-02"))
	}
	if b.DateCompleted != nil {
		a.note("finished: %s", b.DateCompleted.Format("2006-01-02"))
	}
	if b.CoverBlurHash != "" {
		a.note("cover: cached")
	}
	if b.Hidden {
		a.note("hidden")
	}
}

func (a *app) newBookMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a book to the bag, nightstand or shelf",
		Long: `Move a book. Reaching the shelf for the first time earns experience.

Examples:
  nightstandctl book move book-V1StGXR8_Z5jdHi6B nightstand
  nightstandctl book move book-V1StGXR8_Z5jdHi6B shelf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			change, err := a.library.MoveBook(a.ctx(cmd), args[0], to)
			if err != nil {
				return err
			}
			return a.emit(change, func() { a.printChange("Moved", change) })
		},
	}
}

func (a *app) newBookProgressCmd() *cobra.Command {
	var pages, rating int

	cmd := &cobra.Command{
		Use:   "progress <id>",
		Short: "Record pages read or a rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u domain.ProgressUpdate
			if cmd.Flags().Changed("pages") {
				u.PagesRead = domain.IntPtr(pages)
			}
			if cmd.Flags().Changed("rating") {
				u.Rating = domain.IntPtr(rating)
			}

			change, err := a.library.UpdateProgress(a.ctx(cmd), args[0], u)
			if err != nil {
				return err
			}
			return a.emit(change, func() { a.printChange("Updated", change) })
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 0, "Pages read so far")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.MarkFlagsOneRequired("pages", "rating")

	return cmd
}

func (a *app) newBookHideCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "hide <id>",
		Short: "Hide a book from listings",
		Long:  `Hide a book from default listings. Hidden books still count toward skin unlocks.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.library.SetHidden(a.ctx(cmd), args[0], !show)
			if err != nil {
				return err
			}
			return a.emit(book, func() {
				if book.Hidden {
					a.ok("Hid %q", book.Title)
				} else {
					a.ok("Unhid %q", book.Title)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Unhide instead")

	return cmd
}

func (a *app) newBookCoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cover <id>",
		Short: "Download a book's cover into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.library.CacheCover(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			return a.emit(book, func() {
				a.ok("Cached cover of %q", book.Title)
				a.note("blurhash: %s", book.CoverBlurHash)
			})
		},
	}
}

func (a *app) newBookDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a book",
		Long:    `Delete a book. Experience already earned is kept; its pages are subtracted.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			change, err := a.library.DeleteBook(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			return a.emit(change, func() { a.printChange("Deleted", change) })
		},
	}
}

func parseStatus(raw string) (domain.Status, error) {
	s, err := domain.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w (want bag, nightstand or shelf)", err)
	}
	return s, nil
}
