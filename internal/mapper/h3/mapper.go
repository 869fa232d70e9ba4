// Package h3mapper cross-references Plus Code areas with H3 cells.
package h3mapper

import (
	"errors"
	"fmt"
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/pluscode/internal/mapper"
	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

const (
	// average hexagon area at resolution 0; each finer level divides by 7
	res0AreaKm2  = 4357449.416078381
	kmPerDegree  = 111.32
	defaultLimit = 10000
)

var ErrTooManyCells = errors.New("h3: area covers too many cells at this resolution")

type Mapper struct {
	limit int
}

type Option func(*Mapper)

// WithCellLimit caps how many cells CellsForArea may return.
func WithCellLimit(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.limit = n
		}
	}
}

func New(opts ...Option) *Mapper {
	m := &Mapper{limit: defaultLimit}
	for _, o := range opts {
		o(m)
	}
	return m
}

// CellForArea returns the cell containing the center of the area.
func (m *Mapper) CellForArea(area olc.CodeArea, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	lat, lng := area.Center()
	c, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lng}, res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return c.String(), nil
}

// CellsForArea polyfills the area's rectangle. Cells are sorted and unique.
// An area smaller than one cell yields the cell holding its center.
func (m *Mapper) CellsForArea(area olc.CodeArea, res int) ([]string, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	if est := estimateCells(area, res); est > float64(m.limit) {
		return nil, fmt.Errorf("%w: ~%.0f cells at res %d (limit %d)", ErrTooManyCells, est, res, m.limit)
	}

	outer := h3.GeoLoop{
		{Lat: area.LatitudeLo, Lng: area.LongitudeLo},
		{Lat: area.LatitudeLo, Lng: area.LongitudeHi},
		{Lat: area.LatitudeHi, Lng: area.LongitudeHi},
		{Lat: area.LatitudeHi, Lng: area.LongitudeLo},
	}
	cells, err := polyfill(outer, res)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		c, err := m.CellForArea(area, res)
		if err != nil {
			return nil, err
		}
		cells = []string{c}
	}
	if len(cells) > m.limit {
		return nil, fmt.Errorf("%w: %d cells at res %d (limit %d)", ErrTooManyCells, len(cells), res, m.limit)
	}
	return cells, nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

func estimateCells(area olc.CodeArea, res int) float64 {
	lat, _ := area.Center()
	h := area.Height() * kmPerDegree
	w := area.Width() * kmPerDegree * math.Cos(lat*math.Pi/180)
	return h * w / (res0AreaKm2 / math.Pow(7, float64(res)))
}

func polyfill(outer h3.GeoLoop, res int) ([]string, error) {
	indexes, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: outer}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	out := make([]string, 0, len(indexes))
	seen := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

var _ mapper.Interface = (*Mapper)(nil)
