package terrain

import (
	"errors"
	"fmt"

	"endless-terrain/internal/meshing"
)

// ErrInvalidDetailLevels is returned when a detail level table cannot be used.
var ErrInvalidDetailLevels = errors.New("terrain: invalid detail levels")

// LODInfo is one row of the detail level table. A chunk whose nearest edge is within
// VisibleDistanceThreshold of the viewer may be drawn at LOD.
type LODInfo struct {
	LOD                      int     `yaml:"lod"`
	VisibleDistanceThreshold float64 `yaml:"visible_distance"`
	UseForCollider           bool    `yaml:"collider,omitempty"`
}

// SqrVisibleDistanceThreshold is the threshold squared.
func (l LODInfo) SqrVisibleDistanceThreshold() float64 {
	return l.VisibleDistanceThreshold * l.VisibleDistanceThreshold
}

// DetailLevels is ordered from finest to coarsest with strictly increasing thresholds.
// The last threshold is the view distance.
type DetailLevels []LODInfo

// DefaultDetailLevels returns three levels reaching 600 world units, colliding at LOD 0.
func DefaultDetailLevels() DetailLevels {
	return DetailLevels{
		{LOD: 0, VisibleDistanceThreshold: 200, UseForCollider: true},
		{LOD: 1, VisibleDistanceThreshold: 400},
		{LOD: 4, VisibleDistanceThreshold: 600},
	}
}

// Validate checks ordering, LOD range and that at most one level is marked for collision.
func (d DetailLevels) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidDetailLevels)
	}
	colliders := 0
	for i, l := range d {
		if l.LOD < 0 || l.LOD >= meshing.NumSupportedLODs {
			return fmt.Errorf("%w: level %d has lod %d outside [0,%d)", ErrInvalidDetailLevels, i, l.LOD, meshing.NumSupportedLODs)
		}
		if l.VisibleDistanceThreshold <= 0 {
			return fmt.Errorf("%w: level %d threshold %v is not positive", ErrInvalidDetailLevels, i, l.VisibleDistanceThreshold)
		}
		if i > 0 && l.VisibleDistanceThreshold <= d[i-1].VisibleDistanceThreshold {
			return fmt.Errorf("%w: threshold %v of level %d does not increase", ErrInvalidDetailLevels, l.VisibleDistanceThreshold, i)
		}
		if l.UseForCollider {
			colliders++
		}
	}
	if colliders > 1 {
		return fmt.Errorf("%w: %d levels marked for collision", ErrInvalidDetailLevels, colliders)
	}
	return nil
}

// Select returns the finest level whose threshold covers dist. Distances beyond every
// threshold but the last map to the last level.
func (d DetailLevels) Select(dist float64) int {
	index := 0
	for i := 0; i < len(d)-1; i++ {
		if dist <= d[i].VisibleDistanceThreshold {
			break
		}
		index = i + 1
	}
	return index
}

// MaxViewDistance is the threshold of the last level.
func (d DetailLevels) MaxViewDistance() float64 {
	if len(d) == 0 {
		return 0
	}
	return d[len(d)-1].VisibleDistanceThreshold
}

// ColliderIndex is the index of the level marked for collision, or 0 when none is.
func (d DetailLevels) ColliderIndex() int {
	for i, l := range d {
		if l.UseForCollider {
			return i
		}
	}
	return 0
}
