// Package mapper converts decoded Plus Code areas into H3 cells.
package mapper

import (
	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

type Interface interface {
	CellForArea(area olc.CodeArea, res int) (string, error)
	CellsForArea(area olc.CodeArea, res int) ([]string, error)
}
