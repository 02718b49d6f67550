package vm

// FrameBuffer is the 64x32 monochrome display. Each row is a 64-bit word,
// the most significant bit being the leftmost pixel.
type FrameBuffer struct {
	rows [ScreenHeight]uint64
}

// Pixel reports whether (x, y) is lit. Coordinates wrap around the screen
// in both directions.
func (fb *FrameBuffer) Pixel(x, y int) bool {
	x = wrap(x, ScreenWidth)
	y = wrap(y, ScreenHeight)
	return fb.rows[y]&(1<<(63-uint(x))) != 0
}

func (fb *FrameBuffer) Row(y int) uint64 {
	return fb.rows[wrap(y, ScreenHeight)]
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

func (fb *FrameBuffer) Clear() {
	for i := range fb.rows {
		fb.rows[i] = 0
	}
}

// Lit counts the pixels that are on.
func (fb *FrameBuffer) Lit() int {
	n := 0
	for _, row := range fb.rows {
		for ; row != 0; row &= row - 1 {
			n++
		}
	}
	return n
}

// drawSprite XORs up to 16 sprite rows into the buffer at (x, y) and
// reports whether any lit pixel was turned off. The start position wraps
// around the screen; with clip set the pixels past an edge are dropped,
// otherwise they wrap too.
func (fb *FrameBuffer) drawSprite(x, y uint8, sprite []uint8, clip bool) bool {
	x0 := uint(x) % ScreenWidth
	y0 := uint(y) % ScreenHeight

	collision := false
	for i, b := range sprite {
		row := y0 + uint(i)
		if row >= ScreenHeight {
			if clip {
				break
			}
			row %= ScreenHeight
		}

		line := uint64(b) << 56
		bits := line >> x0
		if !clip {
			bits |= line << (ScreenWidth - x0)
		}

		old := fb.rows[row]
		if old&bits != 0 {
			collision = true
		}
		fb.rows[row] = old ^ bits
	}

	return collision
}
