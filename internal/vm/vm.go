package vm

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	MemorySize    = 4096
	StackSize     = 16
	RegisterCount = 16
	ScreenWidth   = 64
	ScreenHeight  = 32
	KeyCount      = 16

	ProgramStart    = uint16(0x200)
	InstructionSize = 2
)

// Status is the state of a session after a call to Step.
type Status uint8

const (
	StatusLoaded Status = iota
	StatusRunning
	StatusWaitingForKey
	StatusWaitingForFrame
	StatusHalted
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusRunning:
		return "running"
	case StatusWaitingForKey:
		return "waiting for key"
	case StatusWaitingForFrame:
		return "waiting for frame"
	case StatusHalted:
		return "halted"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Config is fixed for the lifetime of a session.
type Config struct {
	Quirks      Quirks
	LoadAddress uint16 // zero means ProgramStart
	StackDepth  int    // 1..StackSize, zero means StackSize
}

func (c Config) withDefaults() (Config, error) {
	if c.LoadAddress == 0 {
		c.LoadAddress = ProgramStart
	}
	if c.StackDepth == 0 {
		c.StackDepth = StackSize
	}

	if c.LoadAddress < fontEnd() || c.LoadAddress >= MemorySize {
		return c, fmt.Errorf("%w: load address 0x%04x", ErrInvalidConfig, c.LoadAddress)
	}
	if c.StackDepth < 1 || c.StackDepth > StackSize {
		return c, fmt.Errorf("%w: stack depth %d", ErrInvalidConfig, c.StackDepth)
	}
	return c, nil
}

// Machine is one CHIP-8 session. All storage is fixed size and owned by
// the machine; Step and Tick do not allocate. A Machine must be driven by
// a single goroutine.
type Machine struct {
	memory    [MemorySize]uint8    // Memory (4k)
	image     [MemorySize]uint8    // Font and program, restored on reset
	registers [RegisterCount]uint8 // V registers (V0-VF)

	stack [StackSize]uint16 // Stack
	sp    uint16            // Stack pointer

	pc    uint16 // Program counter
	index uint16 // Index register

	delayTimer uint8 // Delay timer
	soundTimer uint8 // Sound timer

	frame    FrameBuffer
	drawFlag bool // Display changed since last presented

	config Config
	caps   Capabilities

	status  Status
	fault   Fault
	wait    keyWait
	vblank  bool  // A tick happened since the last draw
	buzzer  bool  // Buzzer state last reported to the sound sink
	pending error // Sound sink failure during Tick
}

type keyWait struct {
	active   bool
	held     KeyState // keys down at the previous poll
	released bool     // key stored, waiting for its release
	key      Key
}

// New loads program into a fresh session.
func New(program []byte, config Config, caps Capabilities) (*Machine, error) {
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	if len(program) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(program) > MemorySize-int(config.LoadAddress) {
		return nil, fmt.Errorf("%w: %d bytes at 0x%04x", ErrProgramTooLarge, len(program), config.LoadAddress)
	}

	m := &Machine{
		config: config,
		caps:   caps.withDefaults(),
	}

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", FontAddress), "n", len(chip8Font))
	copy(m.image[FontAddress:], chip8Font[:])

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", config.LoadAddress), "n", len(program))
	copy(m.image[config.LoadAddress:], program)

	m.Reset()
	return m, nil
}

// Reset returns the session to its freshly loaded state. It is the only
// way to leave StatusHalted.
func (m *Machine) Reset() {
	m.memory = m.image
	m.registers = [RegisterCount]uint8{}
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.pc = m.config.LoadAddress
	m.index = 0
	m.delayTimer = 0
	m.soundTimer = 0

	m.frame.Clear()
	m.drawFlag = true

	m.status = StatusLoaded
	m.fault = Fault{}
	m.wait = keyWait{}
	m.vblank = false
	m.pending = nil
}

// Step executes at most one instruction. While waiting for a key or for
// the next frame it only polls and returns immediately. A fault halts the
// session and is returned as a *Fault, also on every later call until
// Reset. PC is only advanced once the frame and sound sinks accepted the
// instruction's output, so after any fault it still addresses the
// faulting instruction.
func (m *Machine) Step() (Status, error) {
	if m.status == StatusHalted {
		return StatusHalted, m.Fault()
	}

	if m.pending != nil {
		err := m.pending
		m.pending = nil
		return m.halt(Fault{Kind: ErrCapability, PC: m.pc, Err: err})
	}

	pc := m.pc
	opcode, addr, ok := m.fetch()
	if !ok {
		return m.halt(Fault{Kind: ErrMemory, PC: pc, Addr: addr})
	}

	instr := Decode(opcode)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) && !m.wait.active {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.String(),
		)
	}

	status, next, fault := m.execute(instr)
	if fault.Kind != nil {
		fault.PC = pc
		fault.Opcode = opcode
		return m.halt(fault)
	}

	if m.drawFlag {
		if err := m.caps.Frames.Present(&m.frame); err != nil {
			return m.halt(Fault{Kind: ErrCapability, PC: pc, Opcode: opcode, Err: err})
		}
		m.drawFlag = false
	}

	if err := m.syncBuzzer(); err != nil {
		return m.halt(Fault{Kind: ErrCapability, PC: pc, Opcode: opcode, Err: err})
	}

	m.pc = next
	m.status = status
	return status, nil
}

func (m *Machine) halt(f Fault) (Status, error) {
	m.fault = f
	m.status = StatusHalted
	return StatusHalted, m.Fault()
}

// Status reports the result of the last Step.
func (m *Machine) Status() Status { return m.status }

// Fault returns a copy of the fault that halted the session, or nil.
// The copy stays valid after Reset.
func (m *Machine) Fault() *Fault {
	if m.status != StatusHalted {
		return nil
	}
	f := m.fault
	return &f
}

func (m *Machine) Config() Config { return m.config }

// Looping reports whether the next instruction is a jump to itself, the
// usual way CHIP-8 programs end.
func (m *Machine) Looping() bool {
	opcode, _, ok := m.fetch()
	if !ok {
		return false
	}
	instr := Decode(opcode)
	return instr.Op == OpJmp && instr.NNN == m.pc
}
