package utils

import "github.com/teris-io/shortid"

// ShortIdGenerator produces the short identifier of a new link.
type ShortIdGenerator func() (string, error)

// GenerateShortId returns a new short identifier from the default shortid generator.
func GenerateShortId() (string, error) {
	return shortid.Generate()
}
