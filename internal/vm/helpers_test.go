package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// program encodes instruction words big-endian.
func program(words ...uint16) []byte {
	bs := make([]byte, 0, 2*len(words))
	for _, w := range words {
		bs = append(bs, byte(w>>8), byte(w))
	}
	return bs
}

type fakeHost struct {
	keys    KeyState
	keysErr error

	frames     int
	presentErr error

	buzzer   []bool
	soundErr error
}

func (h *fakeHost) Present(*FrameBuffer) error {
	h.frames++
	return h.presentErr
}

func (h *fakeHost) Keys() (KeyState, error) {
	return h.keys, h.keysErr
}

func (h *fakeHost) SetBuzzer(on bool) error {
	h.buzzer = append(h.buzzer, on)
	return h.soundErr
}

type fixedRandom struct {
	value uint8
	err   error
}

func (r fixedRandom) RandomByte() (uint8, error) {
	return r.value, r.err
}

func newTestMachine(t *testing.T, rom []byte, quirks Quirks, host *fakeHost) *Machine {
	t.Helper()

	if host == nil {
		host = &fakeHost{}
	}

	m, err := New(rom, Config{Quirks: quirks}, Capabilities{
		Frames: host,
		Keys:   host,
		Random: fixedRandom{value: 0xFF},
		Sound:  host,
	})
	assert.NoError(t, err)
	return m
}

func stepN(t *testing.T, m *Machine, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := m.Step()
		assert.NoError(t, err)
	}
}
