package googlebooks

import (
	"errors"
	"fmt"

	"github.com/nightstandapp/nightstand-server/internal/metadata"
)

// Sentinel errors for Google Books API operations.
var (
	ErrNotFound    = fmt.Errorf("googlebooks: %w", metadata.ErrNotFound)
	ErrRateLimited = errors.New("googlebooks: rate limited by server")
	ErrBadRequest  = errors.New("googlebooks: bad request")
	ErrServer      = errors.New("googlebooks: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search" or "volume"
	Arg string // query or volume id
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("googlebooks %s %q: %v", e.Op, e.Arg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, arg string, err error) error {
	return &Error{Op: op, Arg: arg, Err: err}
}
