// Package movement implements grid distance, terrain-weighted A* search and
// path wearing (grass that is walked on often becomes a road).
package movement

import (
	"fmt"

	"github.com/nathoo/brigands/types"
)

// Costs supplies terrain movement costs.
type Costs interface {
	Cost(kind types.Kind) int
	MinCost() int
}

// Distance is the Manhattan distance between two cells.
func Distance(ax, ay, bx, by int) int {
	return abs(ax-bx) + abs(ay-by)
}

// ItemDistance is the Manhattan distance between two items.
func ItemDistance(a, b types.Item) int {
	return Distance(a.X, a.Y, b.X, b.Y)
}

// Toward returns a single orthogonal step from (fx, fy) toward (tx, ty),
// along the axis with the larger gap. Ties step along y.
func Toward(fx, fy, tx, ty int) (dx, dy int) {
	xd, yd := tx-fx, ty-fy
	if abs(xd) > abs(yd) {
		return sign(xd), 0
	}
	return 0, sign(yd)
}

// Wear records a step onto cell at the given turn. Grass stepped on more
// than threshold times becomes path; the change is never reverted. Other
// kinds are returned unchanged.
func Wear(cell types.Item, turn, threshold int) types.Item {
	if cell.Kind != types.KindGrass {
		return cell
	}
	visited := make([]int, 0, len(cell.Visited)+1)
	visited = append(visited, cell.Visited...)
	visited = append(visited, turn)
	cell.Visited = visited
	if len(visited) > threshold {
		cell.Kind = types.KindPath
	}
	return cell
}

// Key is the node identity of a cell.
func Key(x, y int) string {
	return fmt.Sprintf("x%dy%d", x, y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
