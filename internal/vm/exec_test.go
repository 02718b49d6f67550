package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		setup  func(m *Machine)
		opcode uint16
		check  func(t *testing.T, m *Machine)
	}{
		{
			name:   "skeq imm taken",
			setup:  func(m *Machine) { m.registers[2] = 0x33 },
			opcode: 0x3233,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, ProgramStart+4, m.PC()) },
		},
		{
			name:   "skeq imm not taken",
			opcode: 0x3233,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, ProgramStart+2, m.PC()) },
		},
		{
			name:   "skne imm",
			opcode: 0x4233,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, ProgramStart+4, m.PC()) },
		},
		{
			name:   "skeq reg",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 9, 9 },
			opcode: 0x5120,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, ProgramStart+4, m.PC()) },
		},
		{
			name:   "skne reg",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 9, 9 },
			opcode: 0x9120,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, ProgramStart+2, m.PC()) },
		},
		{
			name:   "add imm wraps without flag",
			setup:  func(m *Machine) { m.registers[1], m.registers[0xF] = 0xFF, 7 },
			opcode: 0x7102,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(1), m.V(1))
				assert.Equal(t, uint8(7), m.V(0xF))
			},
		},
		{
			name:   "mov",
			setup:  func(m *Machine) { m.registers[2] = 0x42 },
			opcode: 0x8120,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(0x42), m.V(1)) },
		},
		{
			name:   "or keeps vf",
			setup:  func(m *Machine) { m.registers[1], m.registers[2], m.registers[0xF] = 0x0F, 0xF0, 5 },
			opcode: 0x8121,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0xFF), m.V(1))
				assert.Equal(t, uint8(5), m.V(0xF))
			},
		},
		{
			name:   "and resets vf",
			quirks: Quirks{LogicResetsVF: true},
			setup:  func(m *Machine) { m.registers[1], m.registers[2], m.registers[0xF] = 0x3C, 0x0F, 5 },
			opcode: 0x8122,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x0C), m.V(1))
				assert.Equal(t, uint8(0), m.V(0xF))
			},
		},
		{
			name:   "xor",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 0xFF, 0x0F },
			opcode: 0x8123,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(0xF0), m.V(1)) },
		},
		{
			name:   "add no carry",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 0x10, 0x20 },
			opcode: 0x8124,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x30), m.V(1))
				assert.Equal(t, uint8(0), m.V(0xF))
			},
		},
		{
			name:   "add into vf keeps flag",
			setup:  func(m *Machine) { m.registers[0xF], m.registers[2] = 0xFF, 0x02 },
			opcode: 0x8F24,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(1), m.V(0xF)) },
		},
		{
			name:   "sub without borrow",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 5, 5 },
			opcode: 0x8125,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0), m.V(1))
				assert.Equal(t, uint8(1), m.V(0xF))
			},
		},
		{
			name:   "sub with borrow",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 1, 2 },
			opcode: 0x8125,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0xFF), m.V(1))
				assert.Equal(t, uint8(0), m.V(0xF))
			},
		},
		{
			name:   "rsb",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 3, 10 },
			opcode: 0x8127,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(7), m.V(1))
				assert.Equal(t, uint8(1), m.V(0xF))
			},
		},
		{
			name:   "shr in place",
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 0x05, 0x80 },
			opcode: 0x8126,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x02), m.V(1))
				assert.Equal(t, uint8(1), m.V(0xF))
			},
		},
		{
			name:   "shr vy",
			quirks: Quirks{ShiftUsesVY: true},
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 0x05, 0x80 },
			opcode: 0x8126,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x40), m.V(1))
				assert.Equal(t, uint8(0), m.V(0xF))
			},
		},
		{
			name:   "shl in place",
			setup:  func(m *Machine) { m.registers[1] = 0x81 },
			opcode: 0x810E,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x02), m.V(1))
				assert.Equal(t, uint8(1), m.V(0xF))
			},
		},
		{
			name:   "shl vy",
			quirks: Quirks{ShiftUsesVY: true},
			setup:  func(m *Machine) { m.registers[1], m.registers[2] = 0x81, 0x01 },
			opcode: 0x812E,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(0x02), m.V(1))
				assert.Equal(t, uint8(0), m.V(0xF))
			},
		},
		{
			name:   "mvi",
			opcode: 0xA123,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint16(0x123), m.Index()) },
		},
		{
			name:   "jmi v0",
			setup:  func(m *Machine) { m.registers[0], m.registers[3] = 4, 8 },
			opcode: 0xB300,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint16(0x304), m.PC()) },
		},
		{
			name:   "jmi vx",
			quirks: Quirks{JumpUsesVX: true},
			setup:  func(m *Machine) { m.registers[0], m.registers[3] = 4, 8 },
			opcode: 0xB300,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint16(0x308), m.PC()) },
		},
		{
			name:   "rand masks",
			opcode: 0xC50F,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(0x0F), m.V(5)) },
		},
		{
			name:   "gdelay",
			setup:  func(m *Machine) { m.delayTimer = 42 },
			opcode: 0xF407,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(42), m.V(4)) },
		},
		{
			name:   "sdelay and ssound",
			setup:  func(m *Machine) { m.registers[4] = 9 },
			opcode: 0xF415,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(9), m.DelayTimer()) },
		},
		{
			name:   "adi",
			setup:  func(m *Machine) { m.index, m.registers[4], m.registers[0xF] = 0xFFF, 2, 7 },
			opcode: 0xF41E,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint16(0x1001), m.Index())
				assert.Equal(t, uint8(7), m.V(0xF))
			},
		},
		{
			name:   "adi overflow flag",
			quirks: Quirks{IndexOverflowFlag: true},
			setup:  func(m *Machine) { m.index, m.registers[4] = 0xFFF, 2 },
			opcode: 0xF41E,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint8(1), m.V(0xF)) },
		},
		{
			name:   "font",
			setup:  func(m *Machine) { m.registers[4] = 0x1A },
			opcode: 0xF429,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, FontAddress+50, m.Index()) },
		},
		{
			name:   "bcd",
			setup:  func(m *Machine) { m.registers[3], m.index = 254, 0x400 },
			opcode: 0xF333,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(2), m.Memory(0x400))
				assert.Equal(t, uint8(5), m.Memory(0x401))
				assert.Equal(t, uint8(4), m.Memory(0x402))
				assert.Equal(t, uint16(0x400), m.Index())
			},
		},
		{
			name: "str",
			setup: func(m *Machine) {
				m.registers = [RegisterCount]uint8{1, 2, 3, 4}
				m.index = 0x400
			},
			opcode: 0xF255,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(1), m.Memory(0x400))
				assert.Equal(t, uint8(3), m.Memory(0x402))
				assert.Equal(t, uint8(0), m.Memory(0x403))
				assert.Equal(t, uint16(0x400), m.Index())
			},
		},
		{
			name:   "str increments index",
			quirks: Quirks{IncrementIndex: true},
			setup:  func(m *Machine) { m.index = 0x400 },
			opcode: 0xF255,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint16(0x403), m.Index()) },
		},
		{
			name: "ldr",
			setup: func(m *Machine) {
				m.memory[0x400], m.memory[0x401], m.memory[0x402] = 7, 8, 9
				m.index = 0x400
			},
			opcode: 0xF165,
			check: func(t *testing.T, m *Machine) {
				assert.Equal(t, uint8(7), m.V(0))
				assert.Equal(t, uint8(8), m.V(1))
				assert.Equal(t, uint8(0), m.V(2))
			},
		},
		{
			name:   "ldr increments index",
			quirks: Quirks{IncrementIndex: true},
			setup:  func(m *Machine) { m.index = 0x400 },
			opcode: 0xF165,
			check:  func(t *testing.T, m *Machine) { assert.Equal(t, uint16(0x402), m.Index()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, program(tt.opcode), tt.quirks, nil)
			if tt.setup != nil {
				tt.setup(m)
			}

			status, err := m.Step()
			assert.NoError(t, err)
			assert.Equal(t, StatusRunning, status)
			tt.check(t, m)
		})
	}
}

func TestSkipKey(t *testing.T) {
	host := &fakeHost{keys: KeyState(0).Press(KeyE)}

	m := newTestMachine(t, program(0xE29E), QuirksModern, host)
	m.registers[2] = 0x0E
	stepN(t, m, 1)
	assert.Equal(t, ProgramStart+4, m.PC())

	m = newTestMachine(t, program(0xE2A1), QuirksModern, host)
	m.registers[2] = 0x0E
	stepN(t, m, 1)
	assert.Equal(t, ProgramStart+2, m.PC())

	// only the low nibble selects the key
	m = newTestMachine(t, program(0xE29E), QuirksModern, host)
	m.registers[2] = 0xFE
	stepN(t, m, 1)
	assert.Equal(t, ProgramStart+4, m.PC())
}

func TestCollisionFlag(t *testing.T) {
	m := newTestMachine(t, program(
		0xA000, // mvi 0x000, glyph "0"
		0xD015, // sprite v0, v1, 5
		0xD015, // sprite v0, v1, 5
	), QuirksModern, nil)

	stepN(t, m, 2)
	assert.Equal(t, uint8(0), m.V(0xF))
	assert.Equal(t, 14, m.Frame().Lit())

	stepN(t, m, 1)
	assert.Equal(t, uint8(1), m.V(0xF))
	assert.Equal(t, 0, m.Frame().Lit())
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t, program(0xA000, 0xD015, 0x00E0), QuirksModern, nil)
	stepN(t, m, 3)
	assert.Equal(t, 0, m.Frame().Lit())
}

func TestSpriteWrapAndClip(t *testing.T) {
	rom := program(
		0x603E, // mov v0, 62
		0x611E, // mov v1, 30
		0xA000, // mvi 0x000
		0xD014, // sprite v0, v1, 4
	)

	// glyph 0 rows: F0 90 90 90
	m := newTestMachine(t, rom, QuirksModern, nil)
	stepN(t, m, 4)
	assert.True(t, m.Frame().Pixel(62, 30))
	assert.True(t, m.Frame().Pixel(63, 30))
	assert.True(t, m.Frame().Pixel(0, 30))
	assert.True(t, m.Frame().Pixel(1, 30))
	assert.True(t, m.Frame().Pixel(1, 0))
	assert.True(t, m.Frame().Pixel(62, 1))
	assert.Equal(t, 10, m.Frame().Lit())

	m = newTestMachine(t, rom, Quirks{ClipSprites: true}, nil)
	stepN(t, m, 4)
	assert.True(t, m.Frame().Pixel(63, 30))
	assert.False(t, m.Frame().Pixel(0, 30))
	assert.False(t, m.Frame().Pixel(1, 0))
	assert.Equal(t, 3, m.Frame().Lit())
}

func TestSpriteStartWraps(t *testing.T) {
	m := newTestMachine(t, program(0x6046, 0x6122, 0xA000, 0xD011), Quirks{ClipSprites: true}, nil)
	stepN(t, m, 4)
	// (70, 34) starts at (6, 2)
	assert.True(t, m.Frame().Pixel(6, 2))
	assert.True(t, m.Frame().Pixel(9, 2))
	assert.Equal(t, 4, m.Frame().Lit())
}

func TestDisplayWait(t *testing.T) {
	m := newTestMachine(t, program(0xA000, 0xD015, 0xD015), Quirks{DisplayWait: true}, nil)
	stepN(t, m, 1)

	status, err := m.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusWaitingForFrame, status)
	assert.Equal(t, ProgramStart+2, m.PC())

	m.Tick()
	status, err = m.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusRunning, status)

	// one draw per frame
	status, _ = m.Step()
	assert.Equal(t, StatusWaitingForFrame, status)
	m.Tick()
	status, _ = m.Step()
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, 0, m.Frame().Lit())
}
