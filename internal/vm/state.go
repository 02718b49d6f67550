package vm

// Memory and stack primitives. Each either succeeds or reports failure
// without touching the machine state.

// address maps an effective address into memory. Out of range addresses
// wrap when the WrapMemory quirk is set and fail otherwise.
func (m *Machine) address(addr uint32) (uint16, bool) {
	if addr < MemorySize {
		return uint16(addr), true
	}
	if m.config.Quirks.WrapMemory {
		return uint16(addr % MemorySize), true
	}
	return 0, false
}

// checkRange verifies that n bytes starting at start are addressable.
// It returns the first bad address on failure.
func (m *Machine) checkRange(start uint16, n int) (uint16, bool) {
	if n == 0 || m.config.Quirks.WrapMemory {
		return 0, true
	}
	last := uint32(start) + uint32(n) - 1
	if uint32(start) >= MemorySize {
		return start, false
	}
	if last >= MemorySize {
		return MemorySize, false
	}
	return 0, true
}

func (m *Machine) read(addr uint32) uint8 {
	a, _ := m.address(addr)
	return m.memory[a]
}

func (m *Machine) write(addr uint32, v uint8) {
	a, _ := m.address(addr)
	m.memory[a] = v
}

// fetch reads the big-endian instruction word at PC.
func (m *Machine) fetch() (uint16, uint16, bool) {
	hi, ok := m.address(uint32(m.pc))
	if !ok {
		return 0, m.pc, false
	}
	lo, ok := m.address(uint32(m.pc) + 1)
	if !ok {
		return 0, MemorySize, false
	}

	opcode := uint16(m.memory[hi])<<8 | uint16(m.memory[lo]) // Op code is two bytes
	return opcode, 0, true
}

func (m *Machine) push(addr uint16) bool {
	if int(m.sp) >= m.config.StackDepth {
		return false
	}
	m.stack[m.sp] = addr
	m.sp++
	return true
}

func (m *Machine) pop() (uint16, bool) {
	if m.sp == 0 {
		return 0, false
	}
	m.sp--
	return m.stack[m.sp], true
}

func (m *Machine) setFlag(flag bool) {
	if flag {
		m.registers[0x0F] = 1
	} else {
		m.registers[0x0F] = 0
	}
}

func (m *Machine) PC() uint16    { return m.pc }
func (m *Machine) Index() uint16 { return m.index }
func (m *Machine) SP() int       { return int(m.sp) }

// V returns register VX.
func (m *Machine) V(x int) uint8 { return m.registers[x&0x0F] }

func (m *Machine) DelayTimer() uint8 { return m.delayTimer }
func (m *Machine) SoundTimer() uint8 { return m.soundTimer }

// Buzzer reports whether sound should be playing.
func (m *Machine) Buzzer() bool { return m.soundTimer > 0 }

// Frame is the live display buffer. Callers must not keep it across Step.
func (m *Machine) Frame() *FrameBuffer { return &m.frame }

// Memory reads one byte. Addresses past the end of memory read as zero.
func (m *Machine) Memory(addr uint16) uint8 {
	if int(addr) >= MemorySize {
		return 0
	}
	return m.memory[addr]
}

// Snapshot is a copy of the architectural state of a machine.
type Snapshot struct {
	Memory     [MemorySize]uint8
	Registers  [RegisterCount]uint8
	Stack      [StackSize]uint16
	SP         uint16
	PC         uint16
	Index      uint16
	DelayTimer uint8
	SoundTimer uint8
	Display    [ScreenHeight]uint64
	Status     Status
}

func (m *Machine) State() Snapshot {
	return Snapshot{
		Memory:     m.memory,
		Registers:  m.registers,
		Stack:      m.stack,
		SP:         m.sp,
		PC:         m.pc,
		Index:      m.index,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
		Display:    m.frame.rows,
		Status:     m.status,
	}
}
