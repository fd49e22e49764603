package noise

import "math"

// Value is hashed lattice value noise with smoothstep interpolation.
type Value struct {
	seed int64
}

func NewValue(seed int64) *Value {
	return &Value{seed: seed}
}

func (v *Value) Noise2D(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	n0 := random2D(x0, y0, v.seed)
	n1 := random2D(x1, y0, v.seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, y1, v.seed)
	n3 := random2D(x1, y1, v.seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, y int, seed int64) float64 {
	return float64(hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
