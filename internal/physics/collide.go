package physics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
)

// EdgeHit classifies a body/edge contact.
type EdgeHit uint8

const (
	HitNone EdgeHit = iota
	// HitSide means the body touched the interior of the segment.
	HitSide
	// HitVertex means the closest point was one of the segment's endpoints.
	HitVertex
)

func (h EdgeHit) String() string {
	switch h {
	case HitSide:
		return "side"
	case HitVertex:
		return "vertex"
	default:
		return "none"
	}
}

// ResolveEdge detects and resolves contact between b and e. wallVel is the
// velocity of the wall itself; the bounce is computed in the wall's frame.
// Penetration is always corrected, even when the body is already leaving.
func ResolveEdge(b *Body, e geom.Edge, wallVel geom.Vec2, restitution, friction float64) EdgeHit {
	c, r := b.Pos, b.Radius

	toC := geom.Sub(c, e.P1)
	s := geom.Dot(e.N, toC)

	u, q := e.ClosestPoint(c)
	dist := geom.Length(geom.Sub(c, q))

	hit := HitNone
	switch {
	case u > 0 && u < e.Length && s < r:
		hit = HitSide
	case (u == 0 || u == e.Length) && dist < r:
		hit = HitVertex
	default:
		return HitNone
	}

	var n geom.Vec2
	var penetration float64
	if hit == HitSide {
		n = e.N
		penetration = r - s
	} else {
		vtx := e.P2
		if u == 0 {
			vtx = e.P1
		}
		d := geom.Sub(c, vtx)
		n = geom.Normalize(d)
		if geom.IsZero(n) {
			n = e.N
		}
		penetration = r - geom.Length(d)
	}

	wallN := geom.Dot(wallVel, n)
	vn := geom.Dot(b.Vel, n)
	vnRel := vn - wallN
	if vnRel < 0 {
		vt := geom.Sub(b.Vel, geom.Scale(n, vn))
		newVn := -restitution*vnRel + wallN
		vt = geom.Scale(vt, math.Max(0, 1-friction))
		b.Vel = geom.Add(geom.Scale(n, newVn), vt)
	}

	b.Pos = geom.Add(b.Pos, geom.Scale(n, math.Max(0, penetration+ContactSlop)))
	return hit
}

// SnapInside pushes b back across any edge whose supporting line its centre
// has crossed. It returns the number of corrections applied.
func SnapInside(b *Body, edges []geom.Edge) int {
	snaps := 0
	for _, e := range edges {
		s := e.SignedDistance(b.Pos)
		if s < 0 {
			b.Pos = geom.Add(b.Pos, geom.Scale(e.N, -s+SnapMargin))
			snaps++
		}
	}
	return snaps
}

// ResolvePair separates two overlapping bodies in proportion to their inverse
// masses and, if they are approaching, exchanges an impulse with the given
// restitution. Coincident centres get a random separation axis from rng.
// It reports whether the bodies overlapped.
func ResolvePair(a, b *Body, restitution float64, rng Rand) bool {
	d := geom.Sub(b.Pos, a.Pos)
	dist := geom.Length(d)

	var n geom.Vec2
	if dist <= geom.Epsilon {
		n = geom.FromAngle(rng.Float64() * 2 * math.Pi)
		dist = 1.0
	} else {
		n = geom.Scale(d, 1/dist)
	}

	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return false
	}

	invA, invB := a.InvMass(), b.InvMass()
	totalInv := invA + invB
	corr := geom.Scale(n, overlap/totalInv)
	a.Pos = geom.Sub(a.Pos, geom.Scale(corr, invA))
	b.Pos = geom.Add(b.Pos, geom.Scale(corr, invB))

	vn := geom.Dot(geom.Sub(b.Vel, a.Vel), n)
	if vn > 0 {
		return true
	}

	j := -(1 + restitution) * vn / totalInv
	imp := geom.Scale(n, j)
	a.Vel = geom.Sub(a.Vel, geom.Scale(imp, invA))
	b.Vel = geom.Add(b.Vel, geom.Scale(imp, invB))
	return true
}
