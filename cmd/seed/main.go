// Package main seeds a database with a profile and a realistic book collection.
//
// Every book goes through the library service, so XP, pages read and skin
// unlocks come out exactly as they would through the API.
//
// Usage:
//
//	DATA_PATH=~/Nightstand/data go run ./cmd/seed
//	DATA_PATH=~/Nightstand/data go run ./cmd/seed --books 40 --seed 7
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/di"
	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

var (
	bookCount = flag.Int("books", 25, "Number of books to add")
	seed      = flag.Uint64("seed", 1, "Random seed")
	username  = flag.String("username", "reader", "Profile name, used if no profile exists")
)

type title struct {
	name, author, genre string
	pages               int
}

var titles = []title{
	{"Dune", "Frank Herbert", "Science Fiction", 412},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "Science Fiction", 304},
	{"Neuromancer", "William Gibson", "Science Fiction", 271},
	{"Hyperion", "Dan Simmons", "Science Fiction", 482},
	{"Foundation", "Isaac Asimov", "Science Fiction", 255},
	{"The Hobbit", "J.R.R. Tolkien", "Fantasy", 310},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", 183},
	{"The Name of the Wind", "Patrick Rothfuss", "Fantasy", 662},
	{"Mistborn", "Brandon Sanderson", "Fantasy", 541},
	{"Jonathan Strange & Mr Norrell", "Susanna Clarke", "Fantasy", 782},
	{"Dracula", "Bram Stoker", "Horror", 418},
	{"The Shining", "Stephen King", "Horror", 447},
	{"Frankenstein", "Mary Shelley", "Horror", 280},
	{"The Haunting of Hill House", "Shirley Jackson", "Horror", 182},
	{"Mexican Gothic", "Silvia Moreno-Garcia", "Horror", 301},
	{"The Hound of the Baskervilles", "Arthur Conan Doyle", "Mystery", 256},
	{"Gone Girl", "Gillian Flynn", "Thriller", 415},
	{"Pride and Prejudice", "Jane Austen", "Romance", 279},
	{"Jane Eyre", "Charlotte Brontë", "Classics", 507},
	{"Middlemarch", "George Eliot", "Classics", 880},
	{"Sapiens", "Yuval Noah Harari", "Non-Fiction", 443},
	{"Educated", "Tara Westover", "Memoir", 334},
	{"In Cold Blood", "Truman Capote", "True Crime", 343},
	{"The Road", "Cormac McCarthy", "Dystopian", 287},
	{"Nineteen Eighty-Four", "George Orwell", "Dystopian", 328},
	{"Watchmen", "Alan Moore", "Graphic Novels", 416},
	{"Meditations", "Marcus Aurelius", "Philosophy", 254},
	{"Thinking, Fast and Slow", "Daniel Kahneman", "Psychology", 499},
}

func main() {
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Logger.Level = "warn"

	injector := di.NewToolContainer(cfg)
	defer func() { _ = injector.Shutdown() }()

	library, err := di.Library(injector)
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}

	ctx := context.Background()
	fmt.Printf("Seeding %s database at %s\n", cfg.Storage.Backend, cfg.DatabasePath())

	if _, err := library.CreateProfile(ctx, service.CreateProfileRequest{Username: *username}); err != nil {
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			log.Fatalf("Failed to create profile: %v", err)
		}
		fmt.Println("Using existing profile")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	for n := range *bookCount {
		t := titles[rng.IntN(len(titles))]
		if n < len(titles) {
			t = titles[(n*7)%len(titles)]
		}

		change, err := addSeedBook(ctx, library, rng, t)
		if err != nil {
			log.Printf("Failed to add %q: %v", t.name, err)
			continue
		}

		fmt.Printf("  %-32s %-10s +%d XP\n", truncate(t.name, 32), change.Book.Status, change.Effect.ExperiencePoints)
		for _, s := range change.Unlocked {
			fmt.Printf("    unlocked %s\n", s.Name)
		}
	}

	view, err := library.GetProfile(ctx)
	if err != nil {
		log.Fatalf("Failed to read profile: %v", err)
	}
	fmt.Printf("\nLevel %d, %d XP, %d books read, %d pages read\n",
		view.Level, view.Profile.ExperiencePoints, view.Profile.TotalBooksRead, view.Profile.TotalPagesRead)
}

// addSeedBook adds t with a status drawn roughly 40% bag, 20% nightstand, 40% shelf.
func addSeedBook(ctx context.Context, library *service.LibraryService, rng *rand.Rand, t title) (*service.BookChange, error) {
	in := domain.NewBook{
		Title:      t.name,
		Author:     t.author,
		Genre:      t.genre,
		TotalPages: domain.IntPtr(t.pages),
		Language:   "en",
	}

	switch r := rng.IntN(10); {
	case r < 4:
		in.Status = domain.StatusBag
	case r < 6:
		in.Status = domain.StatusNightstand
		in.PagesRead = domain.IntPtr(rng.IntN(t.pages + 1))
	default:
		in.Status = domain.StatusShelf
		in.Rating = domain.IntPtr(domain.MinRating + rng.IntN(domain.MaxRating))
	}

	return library.AddBook(ctx, in)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
