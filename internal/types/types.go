// README: Common value objects shared across modules.
package types

import (
	"strings"

	"github.com/google/uuid"
)

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Point is a WGS84 coordinate pair in signed decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Address identifies a route endpoint at postal-code granularity.
type Address struct {
	Postal  string
	City    string
	Country string
}

// Complete reports whether the address carries enough information to be
// geocoded and matched on.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Postal) != "" && strings.TrimSpace(a.City) != ""
}

// Query renders the address as a single geocoding query string.
func (a Address) Query() string {
	parts := make([]string, 0, 3)
	if p := strings.TrimSpace(a.Postal); p != "" {
		parts = append(parts, p)
	}
	if c := strings.TrimSpace(a.City); c != "" {
		parts = append(parts, c)
	}
	if c := strings.TrimSpace(a.Country); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, " ")
}
