package distort

import "math"

// splitmix64 is one step of the splitmix generator, used as a stateless
// hash so that every vertex draws its own reproducible value.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// hashUnit mixes a seed with two lane indices into a uniform [0, 1)
// float. The same inputs always give the same output, independent of
// evaluation order, which keeps distortion reproducible under
// concurrency.
func hashUnit(seed int64, lane, index int) float64 {
	h := splitmix64(uint64(seed))
	h = splitmix64(h ^ uint64(lane)*0x9E3779B97F4A7C15)
	h = splitmix64(h ^ uint64(index)*0xBF58476D1CE4E5B9)
	return float64(h>>11) / (1 << 53)
}

// hashSym maps hashUnit onto [-1, 1).
func hashSym(seed int64, lane, index int) float64 {
	return hashUnit(seed, lane, index)*2 - 1
}

// A noiseField is a cheap coherent noise source: a few sine octaves
// with seed-derived phases. Neighboring samples correlate, which reads
// as weathering rather than grain.
type noiseField struct {
	phase [6]float64
	freq  float64
}

const noiseLane = 101

func newNoiseField(seed int64, freq float64) *noiseField {
	f := &noiseField{freq: freq}
	for i := range f.phase {
		f.phase[i] = hashUnit(seed, noiseLane, i) * 2 * math.Pi
	}
	return f
}

// at2 samples the field on the plane. Results stay within [-1, 1].
func (f *noiseField) at2(x, y float64) float64 {
	v := math.Sin(x*f.freq+f.phase[0])*math.Cos(y*f.freq+f.phase[1]) +
		0.5*math.Sin(2*x*f.freq+f.phase[2])*math.Cos(2*y*f.freq+f.phase[3]) +
		0.25*math.Sin(4*x*f.freq+f.phase[4])*math.Cos(4*y*f.freq+f.phase[5])
	return clamp(v/1.75, -1, 1)
}

// at3 adds a depth octave on top of the planar field.
func (f *noiseField) at3(x, y, z float64) float64 {
	v := f.at2(x, y) + 0.5*math.Sin(2*z*f.freq+f.phase[2]+f.phase[4])
	return clamp(v/1.5, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
