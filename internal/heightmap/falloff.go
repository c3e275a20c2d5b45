package heightmap

import (
	"math"

	"endless-terrain/internal/noise"
)

// Falloff builds a size x size mask that rises from 0 in the middle toward 1 at the
// border, used to carve a single chunk into an island. slope controls how sharp the
// transition is and offset moves it toward the edge.
func Falloff(size int, slope, offset float64) noise.Grid {
	g := noise.NewGrid(size, size)
	for j := range size {
		for i := range size {
			x := float64(i)/float64(size)*2 - 1
			y := float64(j)/float64(size)*2 - 1

			v := math.Max(math.Abs(x), math.Abs(y))
			g.Values[j*size+i] = falloffModifier(v, slope, offset)
		}
	}
	g.Min, g.Max = 0, 1
	return g
}

func falloffModifier(v, slope, offset float64) float64 {
	a := math.Pow(v, slope)
	b := math.Pow(offset-offset*v, slope)
	if a+b == 0 {
		return 0
	}
	return a / (a + b)
}
