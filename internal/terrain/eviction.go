package terrain

import (
	"fmt"
	"slices"
	"strings"
)

// EvictionPolicy picks registered chunks to drop. Visible chunks, pending chunks and
// chunks inside the view window are never offered.
type EvictionPolicy interface {
	Select(hidden []Entry, total int, center Coord) []Coord
}

// RetainAll keeps every chunk ever created.
type RetainAll struct{}

func (RetainAll) Select([]Entry, int, Coord) []Coord { return nil }

// LRU keeps at most MaxChunks chunks, dropping the hidden ones scanned least recently.
type LRU struct {
	MaxChunks int
}

func (p LRU) Select(hidden []Entry, total int, _ Coord) []Coord {
	excess := total - p.MaxChunks
	if excess <= 0 || len(hidden) == 0 {
		return nil
	}
	sorted := slices.Clone(hidden)
	slices.SortFunc(sorted, func(a, b Entry) int {
		if a.LastSeen != b.LastSeen {
			if a.LastSeen < b.LastSeen {
				return -1
			}
			return 1
		}
		// Deterministic order for chunks seen in the same tick.
		if a.Chunk.Coord.X != b.Chunk.Coord.X {
			return a.Chunk.Coord.X - b.Chunk.Coord.X
		}
		return a.Chunk.Coord.Y - b.Chunk.Coord.Y
	})
	excess = min(excess, len(sorted))
	out := make([]Coord, excess)
	for i := range excess {
		out[i] = sorted[i].Chunk.Coord
	}
	return out
}

// Radius drops hidden chunks farther than Chunks grid cells from the viewer's chunk.
type Radius struct {
	Chunks int
}

func (p Radius) Select(hidden []Entry, _ int, center Coord) []Coord {
	var out []Coord
	for _, e := range hidden {
		dx := e.Chunk.Coord.X - center.X
		dy := e.Chunk.Coord.Y - center.Y
		if dx*dx+dy*dy > p.Chunks*p.Chunks {
			out = append(out, e.Chunk.Coord)
		}
	}
	return out
}

// NewEvictionPolicy builds a policy by name: "retain", "lru" (limit is the chunk count)
// or "radius" (limit is in chunks).
func NewEvictionPolicy(name string, limit int) (EvictionPolicy, error) {
	switch strings.ToLower(name) {
	case "", "retain", "none":
		return RetainAll{}, nil
	case "lru":
		if limit <= 0 {
			return nil, fmt.Errorf("terrain: lru eviction needs a positive chunk limit, got %d", limit)
		}
		return LRU{MaxChunks: limit}, nil
	case "radius":
		if limit <= 0 {
			return nil, fmt.Errorf("terrain: radius eviction needs a positive radius, got %d", limit)
		}
		return Radius{Chunks: limit}, nil
	default:
		return nil, fmt.Errorf("terrain: unknown eviction policy %q", name)
	}
}
