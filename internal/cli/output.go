package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

// ok prints a green success line.
func (a *app) ok(format string, args ...any) {
	fmt.Fprintln(a.out, color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// note prints an indented detail line.
func (a *app) note(format string, args ...any) {
	fmt.Fprintln(a.out, "  "+fmt.Sprintf(format, args...))
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON when --json is set and otherwise calls text.
func (a *app) emit(v any, text func()) error {
	if a.jsonOut {
		return a.printJSON(v)
	}
	text()
	return nil
}

func statusColor(s domain.Status) string {
	switch s {
	case domain.StatusNightstand:
		return color.YellowString(string(s))
	case domain.StatusShelf:
		return color.GreenString(string(s))
	default:
		return color.CyanString(string(s))
	}
}

// printChange reports the outcome of a book mutation.
func (a *app) printChange(verb string, c *service.BookChange) {
	a.ok("%s %q (%s)", verb, c.Book.Title, c.Book.ID)
	a.note("status: %s", statusColor(c.Book.Status))
	if c.Effect.ExperiencePoints != 0 {
		a.note("experience: %+d", c.Effect.ExperiencePoints)
	}
	if c.Effect.PagesRead != 0 {
		a.note("pages read: %+d", c.Effect.PagesRead)
	}
	if c.Profile != nil && c.Effect.ExperiencePoints != 0 {
		a.note("level %d, %d XP to next", c.Profile.Level, c.Profile.XPToNextLevel)
	}
	for _, s := range c.Unlocked {
		fmt.Fprintln(a.out, color.MagentaString("★"), "unlocked", color.New(color.Bold).Sprint(s.Name))
	}
}

// printProfile renders a profile view.
func (a *app) printProfile(v *service.ProfileView) {
	p := v.Profile
	fmt.Fprintln(a.out, color.New(color.Bold).Sprint(p.Username))
	if p.Bio != "" {
		a.note("%s", p.Bio)
	}
	a.note("level %d  %s", v.Level, progressBar(p.ExperiencePoints-v.LevelXP, v.NextLevelXP-v.LevelXP, 20))
	a.note("experience: %d (%d to next level)", p.ExperiencePoints, v.XPToNextLevel)
	a.note("books read: %d", p.TotalBooksRead)
	a.note("pages read: %d", p.TotalPagesRead)
	if len(p.FavoriteGenres) > 0 {
		a.note("favorite genres: %s", strings.Join(p.FavoriteGenres, ", "))
	}
	if len(p.PreferredLanguages) > 0 {
		a.note("languages: %s", strings.Join(p.PreferredLanguages, ", "))
	}
	a.note("nightstand skin: %s", p.SelectedNightStandSkinID)
}

// printBooks renders a book table.
func (a *app) printBooks(books []domain.Book) {
	if len(books) == 0 {
		fmt.Fprintln(a.out, color.HiBlackString("no books"))
		return
	}
	for i := range books {
		b := &books[i]
		line := fmt.Sprintf("%-24s %-10s %s by %s", b.ID, b.Status, b.Title, b.Author)
		switch {
		case b.Status == domain.StatusNightstand && b.TotalPages != nil && *b.TotalPages > 0:
			line += fmt.Sprintf(" (%d/%d)", derefInt(b.PagesRead), *b.TotalPages)
		case b.Rating != nil:
			line += " " + strings.Repeat("★", *b.Rating)
		}
		if b.Hidden {
			line = color.HiBlackString(line + " [hidden]")
		}
		fmt.Fprintln(a.out, line)
	}
}

// progressBar draws done/total as a fixed-width bar.
func progressBar(done, total, width int) string {
	filled := width
	if total > 0 {
		filled = min(max(done*width/total, 0), width)
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
