// Package id generates the opaque identifiers handed out by the server.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the identifiers the server generates.
const (
	PrefixBook   = "book"
	PrefixClient = "sse"
)

// Generate returns prefix-<nanoid>, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + raw, nil
}

// Book returns a fresh book identifier.
func Book() (string, error) {
	return Generate(PrefixBook)
}

// MustGenerate is Generate for callers that cannot recover from an entropy failure.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}
