// Package locality stores named reference points used to shorten Plus Codes
// and to recover full codes from short ones.
package locality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNotFound = errors.New("locality: not found")
	ErrInvalid  = errors.New("locality: invalid")
)

// Locality is a named reference location. Rev increases with every change
// and lets replicas drop stale updates.
type Locality struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Rev       int64   `json:"rev"`
}

type Store interface {
	Get(ctx context.Context, name string) (Locality, error)
	Put(ctx context.Context, l Locality) error
	Delete(ctx context.Context, name string) error
}

// NormalizeName lower-cases the name and collapses internal whitespace, so
// "  New   York" and "new york" address the same locality.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (l Locality) Validate() error {
	if NormalizeName(l.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalid, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalid, l.Longitude)
	}
	if l.Rev < 0 {
		return fmt.Errorf("%w: negative rev", ErrInvalid)
	}
	return nil
}
