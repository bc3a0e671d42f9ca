package domain

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(24 * time.Hour)
	t2 = t1.Add(24 * time.Hour)
)

func bagBook(pages int) *Book {
	return &Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Status: StatusBag, DateAdded: t0, TotalPages: IntPtr(pages)}
}

func TestMoveTo_BagToShelf_AwardsOnce(t *testing.T) {
	b := bagBook(412)

	effect, err := b.MoveTo(StatusShelf, t1, Rules{})
	require.NoError(t, err)

	assert.Equal(t, Effect{ExperiencePoints: 10, BooksRead: 1, PagesRead: 412}, effect)
	assert.Equal(t, StatusShelf, b.Status)
	require.NotNil(t, b.DateCompleted)
	assert.Equal(t, t1, *b.DateCompleted)
	assert.True(t, b.CompletedOnce)
}

func TestMoveTo_Recomplete(t *testing.T) {
	b := bagBook(300)
	_, err := b.MoveTo(StatusShelf, t0, Rules{})
	require.NoError(t, err)
	_, err = b.MoveTo(StatusNightstand, t1, Rules{})
	require.NoError(t, err)

	t.Run("no reward by default", func(t *testing.T) {
		c := b.Clone()
		effect, err := c.MoveTo(StatusShelf, t2, Rules{})
		require.NoError(t, err)
		assert.Zero(t, effect.ExperiencePoints)
		assert.Zero(t, effect.BooksRead)
		assert.Equal(t, 300, effect.PagesRead)
	})

	t.Run("rewarded when enabled", func(t *testing.T) {
		c := b.Clone()
		effect, err := c.MoveTo(StatusShelf, t2, Rules{AwardOnRecomplete: true})
		require.NoError(t, err)
		assert.Equal(t, CompletionXP, effect.ExperiencePoints)
		assert.Equal(t, 1, effect.BooksRead)
	})
}

func TestMoveTo_BagToNightstand_SetsStart(t *testing.T) {
	b := bagBook(200)

	effect, err := b.MoveTo(StatusNightstand, t1, Rules{})
	require.NoError(t, err)

	assert.True(t, effect.IsZero())
	require.NotNil(t, b.DateStarted)
	assert.Equal(t, t1, *b.DateStarted)
	assert.Nil(t, b.DateCompleted)
}

func TestMoveTo_NightstandToBag_ClearsStart(t *testing.T) {
	b := bagBook(200)
	_, err := b.MoveTo(StatusNightstand, t1, Rules{})
	require.NoError(t, err)
	_, err = b.ApplyProgress(ProgressUpdate{PagesRead: IntPtr(50)})
	require.NoError(t, err)

	effect, err := b.MoveTo(StatusBag, t2, Rules{})
	require.NoError(t, err)

	assert.Nil(t, b.DateStarted)
	assert.Zero(t, effect.ExperiencePoints)
	assert.Zero(t, effect.BooksRead)
	// The pages read so far stop counting once the book is back in the bag.
	assert.Equal(t, -50, effect.PagesRead)
}

func TestMoveTo_ShelfBackward(t *testing.T) {
	b := bagBook(120)
	_, err := b.MoveTo(StatusShelf, t1, Rules{})
	require.NoError(t, err)

	effect, err := b.MoveTo(StatusBag, t2, Rules{})
	require.NoError(t, err)

	assert.Equal(t, Effect{PagesRead: -120}, effect)
	assert.Nil(t, b.DateCompleted)
	assert.Nil(t, b.DateStarted)
	assert.True(t, b.CompletedOnce)
}

func TestMoveTo_Errors(t *testing.T) {
	b := bagBook(100)

	_, err := b.MoveTo(StatusBag, t1, Rules{})
	assert.ErrorIs(t, err, ErrSameStatus)

	_, err = b.MoveTo(Status("Attic"), t1, Rules{})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, StatusBag, b.Status)
}

func TestApplyProgress(t *testing.T) {
	newReading := func() *Book {
		b := bagBook(400)
		_, err := b.MoveTo(StatusNightstand, t1, Rules{})
		require.NoError(t, err)
		return b
	}

	t.Run("pages delta", func(t *testing.T) {
		b := newReading()
		e, err := b.ApplyProgress(ProgressUpdate{PagesRead: IntPtr(120)})
		require.NoError(t, err)
		assert.Equal(t, 120, e.PagesRead)

		e, err = b.ApplyProgress(ProgressUpdate{PagesRead: IntPtr(100)})
		require.NoError(t, err)
		assert.Equal(t, -20, e.PagesRead)
	})

	t.Run("rating only", func(t *testing.T) {
		b := newReading()
		e, err := b.ApplyProgress(ProgressUpdate{Rating: IntPtr(4)})
		require.NoError(t, err)
		assert.True(t, e.IsZero())
		assert.Equal(t, 4, *b.Rating)
	})

	t.Run("rejects", func(t *testing.T) {
		b := newReading()
		cases := []struct {
			name string
			u    ProgressUpdate
			want error
		}{
			{"empty", ProgressUpdate{}, ErrEmptyProgress},
			{"rating low", ProgressUpdate{Rating: IntPtr(0)}, ErrRatingOutOfRange},
			{"rating high", ProgressUpdate{Rating: IntPtr(6)}, ErrRatingOutOfRange},
			{"negative pages", ProgressUpdate{PagesRead: IntPtr(-1)}, ErrPagesOutOfRange},
			{"past the end", ProgressUpdate{PagesRead: IntPtr(401)}, ErrPagesOutOfRange},
		}
		for _, c := range cases {
			_, err := b.ApplyProgress(c.u)
			assert.ErrorIs(t, err, c.want, c.name)
		}
		assert.Nil(t, b.PagesRead)
		assert.Nil(t, b.Rating)
	})

	t.Run("pages outside nightstand", func(t *testing.T) {
		b := bagBook(400)
		_, err := b.ApplyProgress(ProgressUpdate{PagesRead: IntPtr(10)})
		assert.ErrorIs(t, err, ErrNotReading)
	})
}

func TestCreateBook(t *testing.T) {
	t.Run("defaults to bag", func(t *testing.T) {
		b, e, err := CreateBook("book-1", NewBook{Title: "Emma", Author: "Jane Austen"}, t0, Rules{})
		require.NoError(t, err)
		assert.Equal(t, StatusBag, b.Status)
		assert.Equal(t, t0, b.DateAdded)
		assert.True(t, e.IsZero())
	})

	t.Run("straight onto the shelf earns the reward", func(t *testing.T) {
		in := NewBook{Title: "Dune", Author: "Frank Herbert", Status: StatusShelf, TotalPages: IntPtr(412)}
		b, e, err := CreateBook("book-2", in, t0, Rules{})
		require.NoError(t, err)
		assert.Equal(t, Effect{ExperiencePoints: 10, BooksRead: 1, PagesRead: 412}, e)
		assert.True(t, b.CompletedOnce)
	})

	t.Run("reading with progress", func(t *testing.T) {
		in := NewBook{Title: "Emma", Author: "Jane Austen", Status: StatusNightstand, TotalPages: IntPtr(300), PagesRead: IntPtr(40)}
		b, e, err := CreateBook("book-3", in, t0, Rules{})
		require.NoError(t, err)
		assert.Equal(t, 40, e.PagesRead)
		assert.Equal(t, 40, *b.PagesRead)
	})

	t.Run("pages read on a bag book", func(t *testing.T) {
		in := NewBook{Title: "Emma", Author: "Jane Austen", PagesRead: IntPtr(40)}
		_, _, err := CreateBook("book-4", in, t0, Rules{})
		assert.ErrorIs(t, err, ErrNotReading)
	})
}

// Random walks over valid operations must keep the running total equal to a
// full recompute.
func TestIncrementalPagesMatchRecompute(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for run := 0; run < 50; run++ {
		var books []Book
		running := 0
		now := t0
		for step := 0; step < 200; step++ {
			now = now.Add(time.Minute)
			switch op := rng.IntN(3); {
			case op == 0 || len(books) == 0:
				in := NewBook{Title: "T", Author: "A", Status: Statuses[rng.IntN(3)], TotalPages: IntPtr(rng.IntN(500))}
				b, e, err := CreateBook("b", in, now, Rules{})
				require.NoError(t, err)
				books = append(books, *b)
				running += e.PagesRead
			case op == 1:
				b := &books[rng.IntN(len(books))]
				e, err := b.MoveTo(Statuses[rng.IntN(3)], now, Rules{})
				if errors.Is(err, ErrSameStatus) {
					continue
				}
				require.NoError(t, err)
				running += e.PagesRead
			default:
				b := &books[rng.IntN(len(books))]
				if b.Status != StatusNightstand {
					continue
				}
				e, err := b.ApplyProgress(ProgressUpdate{PagesRead: IntPtr(rng.IntN(*b.TotalPages + 1))})
				require.NoError(t, err)
				running += e.PagesRead
			}
			require.Equal(t, RecomputeTotalPagesRead(books), running, "run %d step %d", run, step)
		}
	}
}
