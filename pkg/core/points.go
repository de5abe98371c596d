package core

// Points holds one 3D point, vector or RGB color per lane.
// Channel 0/1/2 maps to x/y/z or R/G/B.
type Points struct {
	XS, YS, ZS Reals
}

// Colors and Vectors share the Points representation
type (
	Colors  = Points
	Vectors = Points
)

// Rays holds one ray per lane
type Rays struct {
	Origins Points
	Dirs    Points
}

// NewRays creates a ray batch
func NewRays(origins, dirs Points) Rays {
	return Rays{Origins: origins, Dirs: dirs}
}

// At returns origin + dir*t per lane
func (r Rays) At(t Reals) Points {
	return r.Origins.Add(r.Dirs.MulReals(t))
}

// SplatPoints returns a batch with every lane set to (x, y, z)
func SplatPoints(x, y, z Real) Points {
	return Points{XS: SplatReals(x), YS: SplatReals(y), ZS: SplatReals(z)}
}

// FromPoint broadcasts a scalar point to every lane
func FromPoint(p Point) Points {
	return SplatPoints(p.X(), p.Y(), p.Z())
}

// Add returns the lane-wise sum
func (p Points) Add(o Points) Points {
	return Points{XS: p.XS.Add(o.XS), YS: p.YS.Add(o.YS), ZS: p.ZS.Add(o.ZS)}
}

// Sub returns the lane-wise difference
func (p Points) Sub(o Points) Points {
	return Points{XS: p.XS.Sub(o.XS), YS: p.YS.Sub(o.YS), ZS: p.ZS.Sub(o.ZS)}
}

// Mul returns the component-wise (Hadamard) product, used for tinting colors
func (p Points) Mul(o Points) Points {
	return Points{XS: p.XS.Mul(o.XS), YS: p.YS.Mul(o.YS), ZS: p.ZS.Mul(o.ZS)}
}

// MulReals scales each lane by its own factor
func (p Points) MulReals(s Reals) Points {
	return Points{XS: p.XS.Mul(s), YS: p.YS.Mul(s), ZS: p.ZS.Mul(s)}
}

// DivReals divides each lane by its own divisor
func (p Points) DivReals(s Reals) Points {
	return Points{XS: p.XS.Div(s), YS: p.YS.Div(s), ZS: p.ZS.Div(s)}
}

// Scale multiplies every lane by a uniform scalar
func (p Points) Scale(s Real) Points {
	return Points{XS: p.XS.Scale(s), YS: p.YS.Scale(s), ZS: p.ZS.Scale(s)}
}

// Dot returns the per-lane dot product
func (p Points) Dot(o Points) Reals {
	return p.XS.Mul(o.XS).Add(p.YS.Mul(o.YS)).Add(p.ZS.Mul(o.ZS))
}

// LengthSquared returns the per-lane squared magnitude
func (p Points) LengthSquared() Reals {
	return p.Dot(p)
}

// Sqrt returns the component-wise square root
func (p Points) Sqrt() Points {
	return Points{XS: p.XS.Sqrt(), YS: p.YS.Sqrt(), ZS: p.ZS.Sqrt()}
}

// Normalize clamps every component to [0, 1]. It is the final color
// normalization step, not a unit-length normalization.
func (p Points) Normalize() Points {
	return Points{XS: p.XS.Clamp01(), YS: p.YS.Clamp01(), ZS: p.ZS.Clamp01()}
}

// UpdateIf overwrites the masked lanes with src
func (p *Points) UpdateIf(m Mask, src Points) {
	UpdateRealsIf(&p.XS, m, src.XS)
	UpdateRealsIf(&p.YS, m, src.YS)
	UpdateRealsIf(&p.ZS, m, src.ZS)
}

// Axis returns the batch holding the given coordinate
func (p Points) Axis(a Axis) Reals {
	switch a {
	case AxisX:
		return p.XS
	case AxisY:
		return p.YS
	default:
		return p.ZS
	}
}

// Lane extracts a single lane as a scalar point
func (p Points) Lane(i int) Point {
	return NewPoint(p.XS[i], p.YS[i], p.ZS[i])
}

// SetLane overwrites a single lane
func (p *Points) SetLane(i int, v Point) {
	p.XS[i] = v.X()
	p.YS[i] = v.Y()
	p.ZS[i] = v.Z()
}
