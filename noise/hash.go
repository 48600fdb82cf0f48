package noise

// Mix32 avalanches a 32-bit value (murmur3-style finaliser).
func Mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// combine folds v into h with the boost hash_combine step.
func combine(h, v uint32) uint32 {
	return h ^ (v + 0x9e3779b9 + h<<6 + h>>2)
}

// hashScale maps the top 24 bits of a hash into [0,1). Values are exactly
// representable in float32.
const hashScale = 1.0 / (1 << 24)

// Hash3 returns a pseudo-random value in [0,1) for an integer triple.
// Each coordinate is truncated to 32 bits and mixed, the mixed words are
// folded with hash_combine starting from seed, and the result is stepped
// once more through Mix32. Argument order matters.
func Hash3(seed uint32, x, y, z int) float64 {
	return float64(hashBits(seed, x, y, z)>>8) * hashScale
}

func hashBits(seed uint32, x, y, z int) uint32 {
	h := combine(seed, Mix32(uint32(x)))
	h = combine(h, Mix32(uint32(y)))
	h = combine(h, Mix32(uint32(z)))
	return Mix32(h)
}

// Channels returns the four decorrelated hash channels of a cell:
// (x,y,z), (y,z,x), (z,x,y) and (x,z,y).
func Channels(seed uint32, x, y, z int) [4]float64 {
	return [4]float64{
		Hash3(seed, x, y, z),
		Hash3(seed, y, z, x),
		Hash3(seed, z, x, y),
		Hash3(seed, x, z, y),
	}
}
