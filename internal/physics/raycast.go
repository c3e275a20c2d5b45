package physics

import (
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// StepSize is the marching distance between ground samples.
	StepSize = 0.25
	// refineSteps bisects the last step once a hit is found.
	refineSteps = 12
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	Position mgl64.Vec3
	Distance float64
	Hit      bool
}

// Raycast marches from start along direction and reports the first point at or below the
// ground. Positions with no ground underneath are treated as open air.
func Raycast(start, direction mgl64.Vec3, minDist, maxDist float64, ground Ground) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	dir := direction.Normalize()
	steps := int(maxDist / StepSize)

	below := func(dist float64) bool {
		p := start.Add(dir.Mul(dist))
		h, ok := ground.HeightAt(p.X(), p.Z())
		return ok && p.Y() <= h
	}

	prev := -1.0
	for i := 0; i <= steps; i++ {
		dist := float64(i) * StepSize
		if dist < minDist {
			continue
		}
		if !below(dist) {
			prev = dist
			continue
		}
		if prev < 0 {
			return RaycastResult{Position: start.Add(dir.Mul(dist)), Distance: dist, Hit: true}
		}
		lo, hi := prev, dist
		for range refineSteps {
			mid := (lo + hi) / 2
			if below(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return RaycastResult{Position: start.Add(dir.Mul(hi)), Distance: hi, Hit: true}
	}
	return RaycastResult{}
}
