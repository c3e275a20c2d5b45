package main

import "github.com/go-gl/mathgl/mgl64"

// viewerPath walks a polyline of waypoints at a fixed speed, wrapping back to the first
// point after the last.
type viewerPath struct {
	points []mgl64.Vec2
	speed  float64

	segment  int
	progress float64
	pos      mgl64.Vec2
}

func newViewerPath(points []mgl64.Vec2, speed float64) *viewerPath {
	p := &viewerPath{points: points, speed: speed}
	if len(points) > 0 {
		p.pos = points[0]
	}
	return p
}

// Position is the current viewer position.
func (p *viewerPath) Position() mgl64.Vec2 { return p.pos }

// Step advances one tick and returns the new position.
func (p *viewerPath) Step() mgl64.Vec2 {
	if len(p.points) < 2 || p.speed <= 0 {
		return p.pos
	}
	remaining := p.speed
	// Bounded so a path of coincident points cannot spin forever.
	for range 2 * len(p.points) {
		a := p.points[p.segment]
		b := p.points[(p.segment+1)%len(p.points)]
		length := b.Sub(a).Len()
		left := length - p.progress
		if remaining < left {
			p.progress += remaining
			p.pos = a.Add(b.Sub(a).Mul(p.progress / length))
			return p.pos
		}
		remaining -= left
		p.segment = (p.segment + 1) % len(p.points)
		p.progress = 0
		p.pos = b
	}
	return p.pos
}
