package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Coord addresses a chunk on the XZ grid. Y runs along world Z.
type Coord struct {
	X, Y int
}

func (c Coord) vec() mgl64.Vec2 {
	return mgl64.Vec2{float64(c.X), float64(c.Y)}
}

// within reports whether c lies in the (2k+1)x(2k+1) window centered on center.
func (c Coord) within(center Coord, k int) bool {
	return abs(c.X-center.X) <= k && abs(c.Y-center.Y) <= k
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CoordAt returns the chunk whose center is nearest to a world XZ position.
func CoordAt(pos mgl64.Vec2, meshWorldSize float64) Coord {
	return Coord{
		X: int(math.Round(pos.X() / meshWorldSize)),
		Y: int(math.Round(pos.Y() / meshWorldSize)),
	}
}

// Bounds is an axis-aligned square on the XZ plane.
type Bounds struct {
	Center mgl64.Vec2
	Extent float64 // half the side length
}

// SqrDistance returns the squared distance from p to the closest point of the square,
// zero when p is inside.
func (b Bounds) SqrDistance(p mgl64.Vec2) float64 {
	dx := math.Max(math.Abs(p.X()-b.Center.X())-b.Extent, 0)
	dy := math.Max(math.Abs(p.Y()-b.Center.Y())-b.Extent, 0)
	return dx*dx + dy*dy
}
