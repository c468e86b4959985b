package mosaic

import (
	"fmt"
)

// Cell is one resolved tile: where it came from, the color it was matched
// by and the swatch that replaces it.
type Cell struct {
	Spec     TileSpec       `json:"spec"`
	Color    RGBColor       `json:"color"`
	Key      ColorKey       `json:"key"`
	Fallback error          `json:"-"`
	Artifact SwatchArtifact `json:"artifact,omitempty"`
}

// Grid is a fully assembled mosaic. Rows[r][c] holds the cell cut from tile
// (r, c); a Grid is only ever handed out once every cell has resolved.
type Grid struct {
	ID     string   `json:"id"`
	Layout Layout   `json:"layout"`
	Rows   [][]Cell `json:"rows"`
}

// Artifacts returns the swatches in row-major order, one slice per row.
func (g *Grid) Artifacts() [][]SwatchArtifact {
	out := make([][]SwatchArtifact, len(g.Rows))
	for r, row := range g.Rows {
		out[r] = make([]SwatchArtifact, len(row))
		for c, cell := range row {
			out[r][c] = cell.Artifact
		}
	}
	return out
}

// Fallbacks counts the cells whose color is the sampling sentinel.
func (g *Grid) Fallbacks() int {
	n := 0
	for _, row := range g.Rows {
		for _, cell := range row {
			if cell.Fallback != nil {
				n++
			}
		}
	}
	return n
}

// TileError ties a swatch resolution failure to the tile that caused it.
// Err is a *StatusError, a *TransportError or whatever a custom Resolver
// returned.
type TileError struct {
	Row int
	Col int
	Key ColorKey
	Err error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("tile (%d,%d) color %s: %v", e.Row, e.Col, e.Key, e.Err)
}

func (e *TileError) Unwrap() error {
	return e.Err
}
