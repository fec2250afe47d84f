package geom

import "math"

// DefaultStartAngle places the first vertex straight up (screen y grows downward).
const DefaultStartAngle = -90.0

// EdgeEpsilon is the minimum length for an edge to be kept by BuildEdges.
const EdgeEpsilon = 1e-8

// RegularPolygon returns sides vertices spaced evenly around center at the
// given radius, starting at startAngleDeg and proceeding with increasing angle.
// In screen coordinates (y down) this ordering is the one BuildEdges treats as
// counter-clockwise, so the derived normals face the interior.
func RegularPolygon(center Vec2, radius float64, sides int, startAngleDeg float64) []Vec2 {
	if sides <= 0 {
		return nil
	}
	verts := make([]Vec2, sides)
	for i := 0; i < sides; i++ {
		ang := (startAngleDeg + 360.0*float64(i)/float64(sides)) * math.Pi / 180.0
		verts[i] = Vec2{
			center[0] + radius*math.Cos(ang),
			center[1] + radius*math.Sin(ang),
		}
	}
	return verts
}

// Edge is a directed boundary segment from P1 to P2.
type Edge struct {
	P1, P2 Vec2
	// T is the unit tangent (P2-P1)/|P2-P1|.
	T Vec2
	// N is T rotated by 90 degrees, pointing into the polygon.
	N      Vec2
	Length float64
}

// BuildEdges builds one edge per consecutive vertex pair, wrapping around.
// Degenerate edges shorter than EdgeEpsilon are dropped.
func BuildEdges(verts []Vec2) []Edge {
	n := len(verts)
	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		p1 := verts[i]
		p2 := verts[(i+1)%n]
		e := Sub(p2, p1)
		l := Length(e)
		if l < EdgeEpsilon {
			continue
		}
		t := Vec2{e[0] / l, e[1] / l}
		edges = append(edges, Edge{
			P1:     p1,
			P2:     p2,
			T:      t,
			N:      Vec2{-t[1], t[0]},
			Length: l,
		})
	}
	return edges
}

// SignedDistance is the distance from p to the edge's supporting line,
// positive on the interior side.
func (e Edge) SignedDistance(p Vec2) float64 {
	return Dot(e.N, Sub(p, e.P1))
}

// ClosestPoint returns the projection parameter u clamped to [0, Length]
// and the corresponding point on the segment.
func (e Edge) ClosestPoint(p Vec2) (float64, Vec2) {
	u := Clamp(Dot(Sub(p, e.P1), e.T), 0, e.Length)
	return u, Add(e.P1, Scale(e.T, u))
}

// Inside reports whether p lies at least margin inside every edge.
func Inside(edges []Edge, p Vec2, margin float64) bool {
	for _, e := range edges {
		if e.SignedDistance(p) < margin {
			return false
		}
	}
	return true
}
