package vm

// execute applies one decoded instruction and returns the address of the
// next one. The caller commits it; a fault or a wait returns the address
// of the instruction itself.
func (m *Machine) execute(in Instruction) (Status, uint16, Fault) {
	q := &m.config.Quirks
	next := m.pc + InstructionSize
	skip := m.pc + 2*InstructionSize

	vx := m.registers[in.X]
	vy := m.registers[in.Y]

	switch in.Op {
	case OpSys:
		if !q.IgnoreSys {
			return StatusHalted, m.pc, Fault{Kind: ErrUnknownOpcode}
		}

	case OpCls:
		m.frame.Clear()
		m.drawFlag = true

	case OpRts:
		addr, ok := m.pop()
		if !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrStackUnderflow}
		}
		next = addr

	case OpJmp:
		next = in.NNN

	case OpJsr:
		if !m.push(next) {
			return StatusHalted, m.pc, Fault{Kind: ErrStackOverflow}
		}
		next = in.NNN

	case OpSkeqImm:
		if vx == in.NN {
			next = skip
		}

	case OpSkneImm:
		if vx != in.NN {
			next = skip
		}

	case OpSkeqReg:
		if vx == vy {
			next = skip
		}

	case OpSkneReg:
		if vx != vy {
			next = skip
		}

	case OpMovImm:
		m.registers[in.X] = in.NN

	case OpAddImm:
		// No carry generated
		m.registers[in.X] = vx + in.NN

	case OpMov:
		m.registers[in.X] = vy

	case OpOr:
		m.registers[in.X] = vx | vy
		if q.LogicResetsVF {
			m.setFlag(false)
		}

	case OpAnd:
		m.registers[in.X] = vx & vy
		if q.LogicResetsVF {
			m.setFlag(false)
		}

	case OpXor:
		m.registers[in.X] = vx ^ vy
		if q.LogicResetsVF {
			m.setFlag(false)
		}

	// The flag is written after the result so that VF as destination
	// ends up holding the flag.
	case OpAdd:
		sum := uint16(vx) + uint16(vy)
		m.registers[in.X] = uint8(sum)
		m.setFlag(sum > 0xFF)

	case OpSub:
		m.registers[in.X] = vx - vy
		m.setFlag(vx >= vy)

	case OpRsb:
		m.registers[in.X] = vy - vx
		m.setFlag(vy >= vx)

	case OpShr:
		src := vx
		if q.ShiftUsesVY {
			src = vy
		}
		m.registers[in.X] = src >> 1
		m.setFlag(src&0x01 != 0)

	case OpShl:
		src := vx
		if q.ShiftUsesVY {
			src = vy
		}
		m.registers[in.X] = src << 1
		m.setFlag(src&0x80 != 0)

	case OpMvi:
		m.index = in.NNN

	case OpJmi:
		offset := m.registers[0]
		if q.JumpUsesVX {
			offset = vx
		}
		target, ok := m.address(uint32(in.NNN) + uint32(offset))
		if !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrMemory, Addr: in.NNN + uint16(offset)}
		}
		next = target

	case OpRand:
		b, err := m.caps.Random.RandomByte()
		if err != nil {
			return StatusHalted, m.pc, Fault{Kind: ErrCapability, Err: err}
		}
		m.registers[in.X] = b & in.NN

	case OpSprite:
		if q.DisplayWait && !m.vblank {
			return StatusWaitingForFrame, m.pc, Fault{}
		}

		if bad, ok := m.checkRange(m.index, int(in.N)); !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrMemory, Addr: bad}
		}

		var sprite [15]uint8
		for i := uint8(0); i < in.N; i++ {
			sprite[i] = m.read(uint32(m.index) + uint32(i))
		}

		collision := m.frame.drawSprite(vx, vy, sprite[:in.N], q.ClipSprites)
		m.setFlag(collision)
		m.drawFlag = true
		m.vblank = false

	case OpSkpr, OpSkup:
		keys, err := m.caps.Keys.Keys()
		if err != nil {
			return StatusHalted, m.pc, Fault{Kind: ErrCapability, Err: err}
		}
		if keys.Pressed(Key(vx)) == (in.Op == OpSkpr) {
			next = skip
		}

	case OpKey:
		return m.waitKey(in.X, next)

	case OpGdelay:
		m.registers[in.X] = m.delayTimer

	case OpSdelay:
		m.delayTimer = vx

	case OpSsound:
		m.soundTimer = vx

	case OpAdi:
		sum := uint32(m.index) + uint32(vx)
		if q.IndexOverflowFlag {
			m.setFlag(sum > 0x0FFF)
		}
		m.index = uint16(sum)

	case OpFont:
		m.index = FontAddress + uint16(vx&0x0F)*FontGlyphSize

	case OpBcd:
		if bad, ok := m.checkRange(m.index, 3); !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrMemory, Addr: bad}
		}
		m.write(uint32(m.index), vx/100)
		m.write(uint32(m.index)+1, (vx/10)%10)
		m.write(uint32(m.index)+2, vx%10)

	case OpStr:
		n := int(in.X) + 1
		if bad, ok := m.checkRange(m.index, n); !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrMemory, Addr: bad}
		}
		for i := 0; i < n; i++ {
			m.write(uint32(m.index)+uint32(i), m.registers[i])
		}
		// On the original interpreter, when the operation is done, I = I + X + 1.
		if q.IncrementIndex {
			m.index += uint16(n)
		}

	case OpLdr:
		n := int(in.X) + 1
		if bad, ok := m.checkRange(m.index, n); !ok {
			return StatusHalted, m.pc, Fault{Kind: ErrMemory, Addr: bad}
		}
		for i := 0; i < n; i++ {
			m.registers[i] = m.read(uint32(m.index) + uint32(i))
		}
		if q.IncrementIndex {
			m.index += uint16(n)
		}

	default:
		return StatusHalted, m.pc, Fault{Kind: ErrUnknownOpcode}
	}

	return StatusRunning, next, Fault{}
}

// waitKey implements FX0A as a polled state. A key counts when it goes
// from released to pressed between two polls, so keys already held when
// the wait starts are ignored until pressed again.
func (m *Machine) waitKey(x uint8, next uint16) (Status, uint16, Fault) {
	keys, err := m.caps.Keys.Keys()
	if err != nil {
		return StatusHalted, m.pc, Fault{Kind: ErrCapability, Err: err}
	}

	w := &m.wait
	if !w.active {
		*w = keyWait{active: true, held: keys}
		return StatusWaitingForKey, m.pc, Fault{}
	}

	if w.released {
		if keys.Pressed(w.key) {
			return StatusWaitingForKey, m.pc, Fault{}
		}
		*w = keyWait{}
		return StatusRunning, next, Fault{}
	}

	fresh := keys &^ w.held
	w.held = keys

	key, ok := fresh.lowest()
	if !ok {
		return StatusWaitingForKey, m.pc, Fault{}
	}

	m.registers[x] = uint8(key)
	if m.config.Quirks.KeyWaitRelease {
		w.released = true
		w.key = key
		return StatusWaitingForKey, m.pc, Fault{}
	}

	*w = keyWait{}
	return StatusRunning, next, Fault{}
}
