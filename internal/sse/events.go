// Package sse implements Server-Sent Events so connected readers see library
// changes made from another tab, device or the CLI.
package sse

import (
	"time"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookAdded represents a new book in the collection.
	EventBookAdded EventType = "book.added"
	// EventBookMoved represents a status transition.
	EventBookMoved EventType = "book.moved"
	// EventBookProgress represents a rating or pages-read edit.
	EventBookProgress EventType = "book.progress"
	// EventBookUpdated represents any other book edit, such as hiding.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book removal.
	EventBookDeleted EventType = "book.deleted"

	// EventProfileUpdated represents a change to the profile or its aggregates.
	EventProfileUpdated EventType = "profile.updated"
	// EventSkinUnlocked is sent when a cosmetic becomes available.
	EventSkinUnlocked EventType = "skin.unlocked"
	// EventLibraryReset is sent after all data was cleared.
	EventLibraryReset EventType = "library.reset"
	// EventLibraryRestored is sent after the library was replaced from a backup.
	EventLibraryRestored EventType = "library.restored"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BookEventData is the payload for book.added, book.progress and book.updated.
type BookEventData struct {
	Book   *domain.Book  `json:"book"`
	Effect domain.Effect `json:"effect"`
}

// BookMovedEventData is the payload for book.moved.
type BookMovedEventData struct {
	Book   *domain.Book  `json:"book"`
	From   domain.Status `json:"from"`
	To     domain.Status `json:"to"`
	Effect domain.Effect `json:"effect"`
}

// BookDeletedEventData is the payload for book.deleted.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deletedAt"`
	BookID    string    `json:"bookId"`
}

// ProfileEventData is the payload for profile.updated.
type ProfileEventData struct {
	Profile *domain.UserProfile `json:"profile"`
	Level   int                 `json:"level"`
}

// SkinUnlockedEventData is the payload for skin.unlocked.
type SkinUnlockedEventData struct {
	SkinID   string `json:"skinId"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// LibraryResetEventData is the payload for library.reset.
type LibraryResetEventData struct {
	ResetAt time.Time `json:"resetAt"`
}

// LibraryRestoredEventData is the payload for library.restored.
type LibraryRestoredEventData struct {
	RestoredAt time.Time `json:"restoredAt"`
	Books      int       `json:"books"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"serverTime"`
}

// NewBookAddedEvent creates a book.added event.
func NewBookAddedEvent(book *domain.Book, effect domain.Effect) Event {
	return Event{
		Type:      EventBookAdded,
		Data:      BookEventData{Book: book, Effect: effect},
		Timestamp: time.Now(),
	}
}

// NewBookMovedEvent creates a book.moved event.
func NewBookMovedEvent(book *domain.Book, from domain.Status, effect domain.Effect) Event {
	return Event{
		Type:      EventBookMoved,
		Data:      BookMovedEventData{Book: book, From: from, To: book.Status, Effect: effect},
		Timestamp: time.Now(),
	}
}

// NewBookProgressEvent creates a book.progress event.
func NewBookProgressEvent(book *domain.Book, effect domain.Effect) Event {
	return Event{
		Type:      EventBookProgress,
		Data:      BookEventData{Book: book, Effect: effect},
		Timestamp: time.Now(),
	}
}

// NewBookUpdatedEvent creates a book.updated event.
func NewBookUpdatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookDeletedEvent creates a book.deleted event.
func NewBookDeletedEvent(bookID string, deletedAt time.Time) Event {
	return Event{
		Type: EventBookDeleted,
		Data: BookDeletedEventData{
			BookID:    bookID,
			DeletedAt: deletedAt,
		},
		Timestamp: time.Now(),
	}
}

// NewProfileUpdatedEvent creates a profile.updated event.
func NewProfileUpdatedEvent(profile *domain.UserProfile) Event {
	return Event{
		Type:      EventProfileUpdated,
		Data:      ProfileEventData{Profile: profile, Level: profile.Level()},
		Timestamp: time.Now(),
	}
}

// NewSkinUnlockedEvent creates a skin.unlocked event.
func NewSkinUnlockedEvent(skin domain.Skin) Event {
	return Event{
		Type:      EventSkinUnlocked,
		Data:      SkinUnlockedEventData{SkinID: skin.ID, Name: skin.Name, Category: skin.Category},
		Timestamp: time.Now(),
	}
}

// NewLibraryResetEvent creates a library.reset event.
func NewLibraryResetEvent(at time.Time) Event {
	return Event{
		Type:      EventLibraryReset,
		Data:      LibraryResetEventData{ResetAt: at},
		Timestamp: time.Now(),
	}
}

// NewLibraryRestoredEvent creates a library.restored event.
func NewLibraryRestoredEvent(at time.Time, books int) Event {
	return Event{
		Type:      EventLibraryRestored,
		Data:      LibraryRestoredEventData{RestoredAt: at, Books: books},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// ParseEventTypes converts raw type names into known event types, skipping
// unknown names.
func ParseEventTypes(raw []string) []EventType {
	var out []EventType
	for _, r := range raw {
		switch t := EventType(r); t {
		case EventBookAdded, EventBookMoved, EventBookProgress, EventBookUpdated, EventBookDeleted,
			EventProfileUpdated, EventSkinUnlocked, EventLibraryReset, EventLibraryRestored:
			out = append(out, t)
		}
	}
	return out
}
