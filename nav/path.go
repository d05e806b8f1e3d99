package nav

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
)

// Path is an immutable polyline parameterized by arc length.
type Path struct {
	points   []mgl64.Vec3
	segments []float64
	total    float64
}

// NewPath copies points and precomputes segment lengths. A nil or empty
// slice yields an empty path whose queries return the zero vector.
func NewPath(points []mgl64.Vec3) *Path {
	p := &Path{points: append([]mgl64.Vec3(nil), points...)}
	if len(points) > 1 {
		p.segments = make([]float64, len(points)-1)
		for i := 0; i < len(points)-1; i++ {
			p.segments[i] = common.Distance(points[i], points[i+1])
			p.total += p.segments[i]
		}
	}
	return p
}

func (p *Path) TotalLength() float64 {
	return p.total
}

// Points returns a copy of the waypoints.
func (p *Path) Points() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), p.points...)
}

func (p *Path) Len() int {
	return len(p.points)
}

func (p *Path) Start() mgl64.Vec3 {
	if len(p.points) == 0 {
		return mgl64.Vec3{}
	}
	return p.points[0]
}

func (p *Path) End() mgl64.Vec3 {
	if len(p.points) == 0 {
		return mgl64.Vec3{}
	}
	return p.points[len(p.points)-1]
}

// PointAtDistance returns the point at arc length d from the start, clamped
// to the endpoints.
func (p *Path) PointAtDistance(d float64) mgl64.Vec3 {
	pt, _ := p.pointFrom(0, 0, d)
	return pt
}

// pointFrom scans from segment i whose start lies at arc length covered and
// reports the segment the point landed in.
func (p *Path) pointFrom(i int, covered, d float64) (mgl64.Vec3, int) {
	if len(p.points) == 0 {
		return mgl64.Vec3{}, 0
	}
	if d <= 0 {
		return p.points[0], 0
	}
	for ; i < len(p.segments); i++ {
		seg := p.segments[i]
		if seg > 0 && covered+seg >= d {
			t := (d - covered) / seg
			return common.LerpVec(p.points[i], p.points[i+1], t), i
		}
		covered += seg
	}
	return p.points[len(p.points)-1], len(p.segments)
}

// Walker samples a Path at non-decreasing distances, resuming the scan from
// the last segment it landed in.
type Walker struct {
	path    *Path
	seg     int
	covered float64
}

func NewWalker(p *Path) *Walker {
	return &Walker{path: p}
}

// At returns the point at distance d. Distances smaller than a previous call
// restart the scan from the beginning.
func (w *Walker) At(d float64) mgl64.Vec3 {
	if w.path == nil {
		return mgl64.Vec3{}
	}
	if d < w.covered {
		w.seg, w.covered = 0, 0
	}
	pt, seg := w.path.pointFrom(w.seg, w.covered, d)
	if d <= 0 {
		return pt
	}
	for w.seg < seg && w.seg < len(w.path.segments) {
		w.covered += w.path.segments[w.seg]
		w.seg++
	}
	return pt
}
