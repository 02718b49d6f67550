package vm

// FrameSink receives the display buffer whenever an instruction changed it.
// The buffer is only valid for the duration of the call.
type FrameSink interface {
	Present(fb *FrameBuffer) error
}

// KeySource reports which of the 16 keys are currently held down.
type KeySource interface {
	Keys() (KeyState, error)
}

// RandomSource supplies bytes for CXNN.
type RandomSource interface {
	RandomByte() (uint8, error)
}

// SoundSink is told when the buzzer turns on or off.
type SoundSink interface {
	SetBuzzer(on bool) error
}

// Capabilities is everything the machine needs from its host.
// Nil members fall back to defaults: frames and sound are discarded,
// no key is ever pressed and random bytes come from an LFSR.
type Capabilities struct {
	Frames FrameSink
	Keys   KeySource
	Random RandomSource
	Sound  SoundSink
}

func (c Capabilities) withDefaults() Capabilities {
	if c.Frames == nil {
		c.Frames = discard{}
	}
	if c.Keys == nil {
		c.Keys = discard{}
	}
	if c.Random == nil {
		c.Random = NewLFSR(0)
	}
	if c.Sound == nil {
		c.Sound = discard{}
	}
	return c
}

type discard struct{}

func (discard) Present(*FrameBuffer) error { return nil }
func (discard) Keys() (KeyState, error)    { return 0, nil }
func (discard) SetBuzzer(bool) error       { return nil }

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// KeyState is a bit set of pressed keys, bit n for key n.
type KeyState uint16

func (s KeyState) Pressed(k Key) bool {
	return s&(1<<(k&0x0F)) != 0
}

func (s KeyState) Press(k Key) KeyState {
	return s | 1<<(k&0x0F)
}

func (s KeyState) Release(k Key) KeyState {
	return s &^ (1 << (k & 0x0F))
}

// lowest returns the lowest numbered key in s.
func (s KeyState) lowest() (Key, bool) {
	for k := Key0; k <= KeyF; k++ {
		if s.Pressed(k) {
			return k, true
		}
	}
	return 0, false
}
