// Package dump writes the machine state as a Graphviz graph, for
// inspecting a program after it faulted.
package dump

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/kapitanov/chip8core/internal/vm"
)

type registers struct {
	PC         string
	I          string
	SP         int
	DelayTimer uint8
	SoundTimer uint8
	V          [vm.RegisterCount]uint8
}

type machine struct {
	Status    string
	Fault     string
	Registers registers
	Stack     []string
	Code      []string
}

// codeWindow is the number of instructions shown around PC.
const codeWindow = 4

func view(m *vm.Machine) *machine {
	s := m.State()

	out := &machine{
		Status: m.Status().String(),
		Registers: registers{
			PC:         fmt.Sprintf("0x%04x", s.PC),
			I:          fmt.Sprintf("0x%04x", s.Index),
			SP:         int(s.SP),
			DelayTimer: s.DelayTimer,
			SoundTimer: s.SoundTimer,
			V:          s.Registers,
		},
	}
	if f := m.Fault(); f != nil {
		out.Fault = f.Error()
	}

	for i := 0; i < int(s.SP); i++ {
		out.Stack = append(out.Stack, fmt.Sprintf("0x%04x", s.Stack[i]))
	}

	for i := -codeWindow; i <= codeWindow; i++ {
		addr := int(s.PC) + i*vm.InstructionSize
		if addr < 0 || addr+1 >= vm.MemorySize {
			continue
		}
		word := uint16(s.Memory[addr])<<8 | uint16(s.Memory[addr+1])
		marker := " "
		if i == 0 {
			marker = ">"
		}
		out.Code = append(out.Code, fmt.Sprintf("%s 0x%04x: %s", marker, addr, vm.Decode(word)))
	}

	return out
}

// Write renders the state of m to w in DOT format.
func Write(w io.Writer, m *vm.Machine) {
	memviz.Map(w, view(m))
}

// WriteFile is Write to a newly created file.
func WriteFile(path string, m *vm.Machine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump: create %q: %w", path, err)
	}

	Write(f, m)

	if err := f.Close(); err != nil {
		return fmt.Errorf("dump: close %q: %w", path, err)
	}
	return nil
}
