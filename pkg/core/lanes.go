package core

import "github.com/chewxy/math32"

// Lanes is the number of independent rays traced together in one batch
const Lanes = 8

// Real is the scalar type used for all geometry and color math
type Real = float32

// MaxReal is the sentinel used for "no intersection yet"
const MaxReal Real = math32.MaxFloat32

// Reals holds one Real per lane
type Reals [Lanes]Real

// Ints holds one int32 per lane
type Ints [Lanes]int32

// Mask holds one flag per lane; true marks an active lane
type Mask [Lanes]bool

var (
	Zeros = SplatReals(0)
	Ones  = SplatReals(1)
)

// SplatReals returns a batch with every lane set to x
func SplatReals(x Real) Reals {
	var r Reals
	for i := range r {
		r[i] = x
	}
	return r
}

// LaneIndices returns 0, 1, ..., Lanes-1
func LaneIndices() Reals {
	var r Reals
	for i := range r {
		r[i] = Real(i)
	}
	return r
}

// Add returns the lane-wise sum
func (r Reals) Add(o Reals) Reals {
	for i := range r {
		r[i] += o[i]
	}
	return r
}

// Sub returns the lane-wise difference
func (r Reals) Sub(o Reals) Reals {
	for i := range r {
		r[i] -= o[i]
	}
	return r
}

// Mul returns the lane-wise product
func (r Reals) Mul(o Reals) Reals {
	for i := range r {
		r[i] *= o[i]
	}
	return r
}

// Div returns the lane-wise quotient
func (r Reals) Div(o Reals) Reals {
	for i := range r {
		r[i] /= o[i]
	}
	return r
}

// Scale multiplies every lane by a uniform scalar
func (r Reals) Scale(s Real) Reals {
	for i := range r {
		r[i] *= s
	}
	return r
}

// Min returns the lane-wise minimum
func (r Reals) Min(o Reals) Reals {
	for i := range r {
		r[i] = math32.Min(r[i], o[i])
	}
	return r
}

// Max returns the lane-wise maximum
func (r Reals) Max(o Reals) Reals {
	for i := range r {
		r[i] = math32.Max(r[i], o[i])
	}
	return r
}

// Sqrt returns the lane-wise square root
func (r Reals) Sqrt() Reals {
	for i := range r {
		r[i] = math32.Sqrt(r[i])
	}
	return r
}

// Clamp limits every lane to [lo, hi]
func (r Reals) Clamp(lo, hi Real) Reals {
	for i := range r {
		r[i] = math32.Min(math32.Max(r[i], lo), hi)
	}
	return r
}

// Clamp01 limits every lane to the unit range
func (r Reals) Clamp01() Reals {
	return r.Clamp(0, 1)
}

// Trunc converts every lane to an integer, truncating toward zero
func (r Reals) Trunc() Ints {
	var out Ints
	for i := range r {
		out[i] = int32(r[i])
	}
	return out
}

// Gt reports r > o per lane. NaN lanes compare false.
func (r Reals) Gt(o Reals) Mask {
	var m Mask
	for i := range r {
		m[i] = r[i] > o[i]
	}
	return m
}

// Lt reports r < o per lane
func (r Reals) Lt(o Reals) Mask {
	var m Mask
	for i := range r {
		m[i] = r[i] < o[i]
	}
	return m
}

// Ge reports r >= o per lane
func (r Reals) Ge(o Reals) Mask {
	var m Mask
	for i := range r {
		m[i] = r[i] >= o[i]
	}
	return m
}

// Eq reports r == o per lane
func (r Reals) Eq(o Reals) Mask {
	var m Mask
	for i := range r {
		m[i] = r[i] == o[i]
	}
	return m
}

// Select takes a where the mask is set and b elsewhere
func Select(m Mask, a, b Reals) Reals {
	for i := range b {
		if m[i] {
			b[i] = a[i]
		}
	}
	return b
}

// UpdateRealsIf overwrites the masked lanes of dst with src.
// Unmasked lanes are left bit-for-bit untouched.
func UpdateRealsIf(dst *Reals, m Mask, src Reals) {
	*dst = Select(m, src, *dst)
}

// Add returns the lane-wise sum
func (n Ints) Add(o Ints) Ints {
	for i := range n {
		n[i] += o[i]
	}
	return n
}

// Even reports which lanes hold an even value
func (n Ints) Even() Mask {
	var m Mask
	for i := range n {
		m[i] = n[i]%2 == 0
	}
	return m
}

// FirstLanes returns a mask with the first count lanes set
func FirstLanes(count int) Mask {
	var m Mask
	for i := 0; i < count && i < Lanes; i++ {
		m[i] = true
	}
	return m
}

// And returns the lane-wise conjunction
func (m Mask) And(o Mask) Mask {
	for i := range m {
		m[i] = m[i] && o[i]
	}
	return m
}

// Or returns the lane-wise disjunction
func (m Mask) Or(o Mask) Mask {
	for i := range m {
		m[i] = m[i] || o[i]
	}
	return m
}

// Not inverts every lane
func (m Mask) Not() Mask {
	for i := range m {
		m[i] = !m[i]
	}
	return m
}

// Any reports whether at least one lane is set
func (m Mask) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// All reports whether every lane is set
func (m Mask) All() bool {
	for _, v := range m {
		if !v {
			return false
		}
	}
	return true
}

// Count returns the number of set lanes
func (m Mask) Count() int {
	count := 0
	for _, v := range m {
		if v {
			count++
		}
	}
	return count
}
