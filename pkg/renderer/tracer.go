package renderer

import (
	"github.com/rayten/rayten/pkg/core"
)

const (
	// MinToi rejects hits at the origin of a freshly reflected ray
	MinToi core.Real = 0.001

	checkerOffset core.Real = 1000
	checkerScale  core.Real = 1.5
)

// sphereEntry is a sphere's attributes broadcast to every lane
type sphereEntry struct {
	id          core.Obstacle
	center      core.Points
	radius      core.Reals
	radiusSq    core.Reals
	color       core.Colors
	reflectance core.Reals
}

// planeEntry is a plane's attributes broadcast to every lane
type planeEntry struct {
	id          core.Obstacle
	axis        core.Axis
	offset      core.Reals
	normal      core.Vectors
	color       core.Colors
	reflectance core.Reals
}

// obstacleTable is a read-only snapshot of a provider, built once per frame
type obstacleTable struct {
	spheres []sphereEntry
	planes  []planeEntry
	ambient core.Colors
}

func compileObstacles(provider core.ObstacleProvider) *obstacleTable {
	table := &obstacleTable{ambient: core.FromPoint(provider.AmbientColor())}

	for _, id := range provider.Spheres() {
		obstacle := core.SphereObstacle(id)
		radius := provider.SphereRadius(id)
		table.spheres = append(table.spheres, sphereEntry{
			id:          obstacle,
			center:      core.FromPoint(provider.SpherePos(id)),
			radius:      core.SplatReals(radius),
			radiusSq:    core.SplatReals(radius * radius),
			color:       core.FromPoint(provider.ObstacleColor(obstacle)),
			reflectance: core.SplatReals(provider.ObstacleReflectance(obstacle)),
		})
	}

	for _, id := range provider.Planes() {
		obstacle := core.PlaneObstacle(id)
		table.planes = append(table.planes, planeEntry{
			id:          obstacle,
			axis:        provider.PlaneAxis(id),
			offset:      core.SplatReals(provider.PlaneOffset(id)),
			normal:      core.FromPoint(provider.PlaneNormal(id)),
			color:       core.FromPoint(provider.ObstacleColor(obstacle)),
			reflectance: core.SplatReals(provider.ObstacleReflectance(obstacle)),
		})
	}

	return table
}

// TraceRays returns the linear radiance of every lane after up to maxDepth
// bounces. Colors are unclamped.
func TraceRays(provider core.ObstacleProvider, rays core.Rays, maxDepth int) core.Colors {
	colors, _ := compileObstacles(provider).trace(rays, maxDepth)
	return colors
}

// trace runs the closest-hit/reflect loop and reports how many
// iterations the batch needed
func (t *obstacleTable) trace(rays core.Rays, maxDepth int) (core.Colors, int) {
	projections := newRaysProjections(rays, maxDepth)
	for {
		projections.beginIteration()
		for i := range t.spheres {
			projections.withSphere(&t.spheres[i])
		}
		for i := range t.planes {
			projections.withAxisAlignedPlane(&t.planes[i])
		}
		if projections.reflect() {
			break
		}
	}
	return projections.finish(t.ambient), projections.iterations
}

// RaysProjections is the per-batch state of one trace
type RaysProjections struct {
	rays core.Rays

	// Closest hit of the current iteration
	minToi       core.Reals
	colors       core.Colors
	normals      core.Vectors
	reflectances core.Reals

	offsetColors core.Colors // Light gathered so far
	coefColors   core.Colors // Attenuation applied to whatever is gathered next

	depthLeft  int
	alive      core.Mask // Lanes still bouncing
	iterations int
}

func newRaysProjections(rays core.Rays, maxDepth int) *RaysProjections {
	return &RaysProjections{
		rays:       rays,
		coefColors: core.SplatPoints(1, 1, 1),
		depthLeft:  maxDepth,
		alive:      core.FirstLanes(core.Lanes),
	}
}

// beginIteration clears the previous winner; a lane that finds nothing
// keeps minToi at MaxReal
func (p *RaysProjections) beginIteration() {
	p.minToi = core.SplatReals(core.MaxReal)
	p.colors = core.Colors{}
	p.normals = core.Vectors{}
	p.reflectances = core.Zeros
}

func (p *RaysProjections) withSphere(s *sphereEntry) {
	dirs := p.rays.Dirs
	deltas := p.rays.Origins.Sub(s.center)

	dirsSqSum := dirs.LengthSquared()
	d := s.radiusSq.Mul(dirsSqSum)

	a := dirs.XS.Mul(deltas.YS).Sub(dirs.YS.Mul(deltas.XS))
	d = d.Sub(a.Mul(a))
	if !d.Ge(core.Zeros).Any() {
		return
	}
	b := dirs.XS.Mul(deltas.ZS).Sub(dirs.ZS.Mul(deltas.XS))
	d = d.Sub(b.Mul(b))
	if !d.Ge(core.Zeros).Any() {
		return
	}
	c := dirs.YS.Mul(deltas.ZS).Sub(dirs.ZS.Mul(deltas.YS))
	d = d.Sub(c.Mul(c))

	mask := d.Ge(core.Zeros)
	if !mask.Any() {
		return
	}

	sqrtD := d.Max(core.Zeros).Sqrt()
	tts := core.Zeros.
		Sub(deltas.XS.Mul(dirs.XS)).
		Sub(deltas.YS.Mul(dirs.YS)).
		Sub(deltas.ZS.Mul(dirs.ZS))
	t1 := tts.Add(sqrtD).Div(dirsSqSum).Max(core.Zeros)
	t2 := tts.Sub(sqrtD).Div(dirsSqSum).Max(core.Zeros)
	toi := t1.Min(t2)

	mask = mask.And(toi.Gt(core.SplatReals(MinToi))).And(toi.Lt(p.minToi))
	if !mask.Any() {
		return
	}

	core.UpdateRealsIf(&p.minToi, mask, toi)
	p.colors.UpdateIf(mask, s.color)

	pois := p.rays.At(p.minToi)
	p.normals.UpdateIf(mask, pois.Sub(s.center).DivReals(s.radius))
	core.UpdateRealsIf(&p.reflectances, mask, s.reflectance)
}

func (p *RaysProjections) withAxisAlignedPlane(pl *planeEntry) {
	toi := pl.offset.Sub(p.rays.Origins.Axis(pl.axis)).Div(p.rays.Dirs.Axis(pl.axis))
	mask := toi.Gt(core.SplatReals(MinToi)).And(toi.Lt(p.minToi))
	if !mask.Any() {
		return
	}

	core.UpdateRealsIf(&p.minToi, mask, toi)
	p.colors.UpdateIf(mask, pl.color)
	core.UpdateRealsIf(&p.reflectances, mask, pl.reflectance)

	checkered := mask.And(checkerEven(p.rays.At(toi)))
	core.UpdateRealsIf(&p.reflectances, checkered, core.Zeros)

	p.normals.UpdateIf(mask, pl.normal)
}

// checkerEven reports the lanes whose hit point falls on an absorbing cell
func checkerEven(pois core.Points) core.Mask {
	shifted := pois.Add(core.SplatPoints(checkerOffset, checkerOffset, checkerOffset)).Scale(checkerScale)
	return shifted.XS.Trunc().Add(shifted.YS.Trunc()).Add(shifted.ZS.Trunc()).Even()
}

// reflect folds the iteration's winners into the accumulated color and
// bounces the surviving rays. It reports true when tracing is done.
func (p *RaysProjections) reflect() bool {
	p.iterations++
	hit := p.minToi.Lt(core.SplatReals(core.MaxReal))

	p.offsetColors.UpdateIf(p.alive, p.offsetColors.Add(p.coefColors.Mul(p.colors)))
	p.coefColors.UpdateIf(p.alive.And(hit), p.coefColors.MulReals(p.reflectances))

	p.depthLeft--
	p.alive = p.alive.And(hit).And(p.reflectances.Eq(core.Zeros).Not())

	if p.depthLeft <= 0 || !p.alive.Any() {
		return true
	}

	dirs := p.rays.Dirs
	pois := p.rays.At(p.minToi)
	reflected := dirs.Sub(p.normals.MulReals(dirs.Dot(p.normals)).Scale(2))

	p.rays.Origins.UpdateIf(p.alive, pois)
	p.rays.Dirs.UpdateIf(p.alive, reflected)
	return false
}

// finish lets every remaining path escape to the ambient color
func (p *RaysProjections) finish(ambient core.Colors) core.Colors {
	p.coefColors = p.coefColors.Mul(ambient)
	return p.offsetColors.Add(p.coefColors)
}
