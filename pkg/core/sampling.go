package core

import (
	"math/rand"
)

// Sampler provides random sampling for jitter generation
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() Real
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random value in [0, 1)
func (r *RandomSampler) Get1D() Real {
	return r.random.Float32()
}

// SampleTable holds the sub-pixel jitter offsets for every sample of a pixel.
// XS[s] and YS[s] are the offsets of sample s, one value per lane.
type SampleTable struct {
	XS []Reals
	YS []Reals
}

// Len returns the number of samples in the table
func (t SampleTable) Len() int {
	return len(t.XS)
}

// StratifiedSamples places n samples over the unit pixel square by recursive
// subdivision: each region is split in half along its longer side and the
// samples are shared between the halves until one sample remains per leaf,
// which takes the leaf centroid. All lanes of a sample share the same offset.
func StratifiedSamples(n int) SampleTable {
	table := SampleTable{XS: make([]Reals, n), YS: make([]Reals, n)}
	spreadSamples(0, 0, 1, 1, table.XS, table.YS)
	return table
}

// spreadSamples fills xs/ys with the centroids of a subdivision of [minX,maxX]x[minY,maxY]
func spreadSamples(minX, minY, maxX, maxY Real, xs, ys []Reals) {
	switch len(xs) {
	case 0:
		return
	case 1:
		xs[0] = SplatReals((minX + maxX) / 2)
		ys[0] = SplatReals((minY + maxY) / 2)
		return
	}

	half := len(xs) / 2
	width := maxX - minX
	height := maxY - minY
	if width > height {
		midX := minX + width/2
		spreadSamples(minX, minY, midX, maxY, xs[:half], ys[:half])
		spreadSamples(midX, minY, maxX, maxY, xs[half:], ys[half:])
	} else {
		midY := minY + height/2
		spreadSamples(minX, minY, maxX, midY, xs[:half], ys[:half])
		spreadSamples(minX, midY, maxX, maxY, xs[half:], ys[half:])
	}
}

// RandomSamples draws independent uniform jitter for every sample and lane
func RandomSamples(n int, sampler Sampler) SampleTable {
	table := SampleTable{XS: make([]Reals, n), YS: make([]Reals, n)}
	for s := 0; s < n; s++ {
		for i := 0; i < Lanes; i++ {
			table.XS[s][i] = sampler.Get1D()
			table.YS[s][i] = sampler.Get1D()
		}
	}
	return table
}
