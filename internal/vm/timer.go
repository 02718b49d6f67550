package vm

// Tick advances the delay and sound timers by one 60 Hz period. It is
// independent of Step: hosts call it at a fixed rate whatever their
// instruction rate is.
func (m *Machine) Tick() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}

	m.vblank = true

	if m.status == StatusHalted {
		return
	}
	if err := m.syncBuzzer(); err != nil && m.pending == nil {
		m.pending = err
	}
}

// syncBuzzer tells the sound sink about a change of the buzzer state.
func (m *Machine) syncBuzzer() error {
	on := m.soundTimer > 0
	if on == m.buzzer {
		return nil
	}
	m.buzzer = on
	return m.caps.Sound.SetBuzzer(on)
}
