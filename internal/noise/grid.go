package noise

import "math"

// Grid is a row-major block of height samples. A Grid is never modified after the
// function that produced it returns; transformations allocate a new one.
type Grid struct {
	Width  int
	Height int
	Values []float64
	// Min and Max are the extremes observed over Values.
	Min float64
	Max float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int) Grid {
	return Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the sample at column x, row y.
func (g Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

func (g Grid) index(x, y int) int {
	return y*g.Width + x
}

// bounds recomputes Min and Max from Values.
func (g *Grid) bounds() {
	g.Min = math.Inf(1)
	g.Max = math.Inf(-1)
	for _, v := range g.Values {
		if v < g.Min {
			g.Min = v
		}
		if v > g.Max {
			g.Max = v
		}
	}
	if len(g.Values) == 0 {
		g.Min, g.Max = 0, 0
	}
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := g
	out.Values = make([]float64, len(g.Values))
	copy(out.Values, g.Values)
	return out
}
