package vm

import "math/rand"

const defaultSeed = 0xF00F

// LFSR is a 16-bit Galois linear feedback shift register. It is
// deterministic for a given seed and never allocates.
type LFSR struct {
	state uint16
}

// NewLFSR returns a generator seeded with seed. A zero seed would lock the
// register at zero, so it is replaced by a fixed non-zero one.
func NewLFSR(seed uint16) *LFSR {
	if seed == 0 {
		seed = defaultSeed
	}
	return &LFSR{state: seed}
}

func (r *LFSR) RandomByte() (uint8, error) {
	for i := 0; i < 8; i++ {
		lsb := r.state & 1
		r.state >>= 1
		if lsb != 0 {
			r.state ^= 0xB400
		}
	}
	return uint8(r.state), nil
}

// SystemRandom draws from math/rand/v2.
type SystemRandom struct{}

func (SystemRandom) RandomByte() (uint8, error) {
	return uint8(rand.Intn(256)), nil
}
