// Package meshing turns height grids into LOD terrain meshes.
//
// The height grid has four rings, outside in:
//
//	border          never rendered, only used for normals
//	mesh edge       always full resolution so neighbours at any LOD can stitch to it
//	edge connection vertices between the mesh edge and the first main vertex,
//	                their heights interpolated between main vertices
//	main            interior vertices on the skip increment grid
package meshing

import (
	"fmt"

	"endless-terrain/internal/noise"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	borderLines        = 1
	meshEdgeLines      = 1
	linesOutsideOfMain = borderLines + meshEdgeLines
)

// SkipIncrement is the vertex step used by the main mesh at lod.
func SkipIncrement(lod int) int {
	if lod == 0 {
		return 1
	}
	return lod * 2
}

// Build meshes heights at lod using the chunk geometry from settings. The grid must be
// settings.NumVertsPerLine() on each side.
func Build(heights noise.Grid, settings Settings, lod int) *MeshData {
	if n := settings.NumVertsPerLine(); heights.Width != n || heights.Height != n {
		panic(fmt.Sprintf("meshing: height grid is %dx%d, mesh settings expect %dx%d", heights.Width, heights.Height, n, n))
	}
	return Generate(heights, settings.MeshWorldSize(), lod, settings.UseFlatShading)
}

// Generate meshes a square height grid into a mesh spanning meshWorldSize on X and Z,
// centered on the origin. Malformed input is a programming error and panics.
func Generate(heights noise.Grid, meshWorldSize float64, lod int, flatShading bool) *MeshData {
	defer profiling.Track("meshing.Generate")()

	n := heights.Width
	switch {
	case heights.Height != n:
		panic(fmt.Sprintf("meshing: height grid must be square, got %dx%d", heights.Width, heights.Height))
	case n < 5:
		panic(fmt.Sprintf("meshing: height grid side %d is below the minimum of 5", n))
	case lod < 0:
		panic(fmt.Sprintf("meshing: negative level of detail %d", lod))
	case len(heights.Values) != n*n:
		panic(fmt.Sprintf("meshing: height grid holds %d values, want %d", len(heights.Values), n*n))
	}
	skip := SkipIncrement(lod)
	if (n-5)%skip != 0 {
		panic(fmt.Sprintf("meshing: grid side %d does not fit skip increment %d", n, skip))
	}

	l := layout{n: n, skip: skip}
	mesh := newMeshData(n, skip, flatShading)

	indices := make([]int, n*n)
	meshIndex, borderIndex := 0, -1
	for y := range n {
		for x := range n {
			switch {
			case l.isBorder(x, y):
				indices[y*n+x] = borderIndex
				borderIndex--
			case !l.isSkipped(x, y):
				indices[y*n+x] = meshIndex
				meshIndex++
			}
		}
	}

	size := float32(meshWorldSize)
	topLeft := mgl32.Vec2{-1, 1}.Mul(size / 2)
	span := float32(n - linesOutsideOfMain - 1)

	for y := range n {
		for x := range n {
			if l.isSkipped(x, y) {
				continue
			}
			index := indices[y*n+x]
			percent := mgl32.Vec2{float32(x - 1), float32(y - 1)}.Mul(1 / span)
			pos2D := topLeft.Add(mgl32.Vec2{percent.X(), -percent.Y()}.Mul(size))

			height := heights.At(x, y)
			if l.isEdgeConnection(x, y) {
				height = l.connectionHeight(heights, x, y)
			}
			mesh.addVertex(mgl32.Vec3{pos2D.X(), float32(height), pos2D.Y()}, percent, index)

			if !l.createsTriangles(x, y) {
				continue
			}
			inc := 1
			if l.isMainQuadCorner(x, y) {
				inc = skip
			}
			a := indices[y*n+x]
			b := indices[y*n+x+inc]
			c := indices[(y+inc)*n+x]
			d := indices[(y+inc)*n+x+inc]
			mesh.addTriangle(a, d, c)
			mesh.addTriangle(d, a, b)
		}
	}

	mesh.finalize()
	return mesh
}

// layout classifies grid positions into rings for one grid side and skip increment.
type layout struct {
	n, skip int
}

func (l layout) isBorder(x, y int) bool {
	return x == 0 || y == 0 || x == l.n-1 || y == l.n-1
}

func (l layout) isMeshEdge(x, y int) bool {
	onLine := x == borderLines || y == borderLines || x == l.n-borderLines-1 || y == l.n-borderLines-1
	return onLine && !l.isBorder(x, y)
}

func (l layout) isMain(x, y int) bool {
	onGrid := (x-linesOutsideOfMain)%l.skip == 0 && (y-linesOutsideOfMain)%l.skip == 0
	return onGrid && !l.isBorder(x, y) && !l.isMeshEdge(x, y)
}

func (l layout) isEdgeConnection(x, y int) bool {
	last := l.n - linesOutsideOfMain - 1
	onLine := x == linesOutsideOfMain || y == linesOutsideOfMain || x == last || y == last
	return onLine && !l.isMain(x, y) && !l.isMeshEdge(x, y) && !l.isBorder(x, y)
}

func (l layout) isSkipped(x, y int) bool {
	last := l.n - linesOutsideOfMain - 1
	inside := x > linesOutsideOfMain && x < last && y > linesOutsideOfMain && y < last
	return inside && !l.isMain(x, y)
}

// isMainQuadCorner reports a main vertex whose quad spans a full skip increment.
func (l layout) isMainQuadCorner(x, y int) bool {
	last := l.n - linesOutsideOfMain - 1
	return l.isMain(x, y) && x != last && y != last
}

// createsTriangles reports whether the quad anchored at (x,y) is emitted. The right and
// bottom lines have no quad, and edge connection vertices on the first main line are
// covered by the quad of the main vertex before them.
func (l layout) createsTriangles(x, y int) bool {
	if x >= l.n-1 || y >= l.n-1 {
		return false
	}
	return !l.isEdgeConnection(x, y) || (x != linesOutsideOfMain && y != linesOutsideOfMain)
}

// connectionHeight interpolates between the two main vertices bracketing (x,y) along
// the edge it lies on, so the coarse main mesh meets the full resolution edge without
// cracks.
func (l layout) connectionHeight(heights noise.Grid, x, y int) float64 {
	vertical := x == linesOutsideOfMain || x == l.n-linesOutsideOfMain-1

	var distA int
	if vertical {
		distA = (y - linesOutsideOfMain) % l.skip
	} else {
		distA = (x - linesOutsideOfMain) % l.skip
	}
	distB := l.skip - distA
	t := float64(distA) / float64(l.skip)

	var hA, hB float64
	if vertical {
		hA = heights.At(x, y-distA)
		hB = heights.At(x, y+distB)
	} else {
		hA = heights.At(x-distA, y)
		hB = heights.At(x+distB, y)
	}
	return hA*(1-t) + hB*t
}
