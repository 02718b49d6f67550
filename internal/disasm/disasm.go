// Package disasm prints a linear listing of a CHIP-8 program.
package disasm

import (
	"fmt"
	"io"

	"github.com/kapitanov/chip8core/internal/vm"
)

// Write lists rom as if loaded at origin, one instruction per line. Data
// embedded in the program is decoded like code; a trailing odd byte is
// written as a .byte directive.
func Write(w io.Writer, rom []byte, origin uint16) error {
	if _, err := fmt.Fprintf(w, "; %d bytes at 0x%04x\n", len(rom), origin); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	i := 0
	for ; i+1 < len(rom); i += vm.InstructionSize {
		addr := int(origin) + i
		word := uint16(rom[i])<<8 | uint16(rom[i+1])

		if _, err := fmt.Fprintf(w, "0x%04x: %04x  %s\n", addr, word, vm.Decode(word)); err != nil {
			return fmt.Errorf("writing instruction at 0x%04x: %w", addr, err)
		}
	}

	if i < len(rom) {
		if _, err := fmt.Fprintf(w, "0x%04x: %02x    .byte $%02X\n", int(origin)+i, rom[i], rom[i]); err != nil {
			return fmt.Errorf("writing data: %w", err)
		}
	}

	return nil
}
