package termhal

import (
	"github.com/kapitanov/chip8core/internal/runner"
	"github.com/kapitanov/chip8core/internal/vm"
)

const (
	ctrlC     = 0x03
	ctrlD     = 0x04
	backspace = 0x7f
	ctrlH     = 0x08
	esc       = 0x1b
)

// same layout as the SDL front-end
var keyBytes = map[byte]vm.Key{
	'x': vm.Key0,
	'1': vm.Key1, '2': vm.Key2, '3': vm.Key3, '4': vm.KeyC,
	'q': vm.Key4, 'w': vm.Key5, 'e': vm.Key6, 'r': vm.KeyD,
	'a': vm.Key7, 's': vm.Key8, 'd': vm.Key9, 'f': vm.KeyE,
	'z': vm.KeyA, 'c': vm.KeyB, 'v': vm.KeyF,
}

type keypad struct {
	held [vm.KeyCount]int
}

// feed handles bytes read from the terminal.
func (p *keypad) feed(input []byte) error {
	// a lone escape is the Esc key, anything longer is an escape sequence
	if len(input) == 1 && input[0] == esc {
		return runner.ErrQuit
	}

	for _, b := range input {
		switch b {
		case ctrlC, ctrlD:
			return runner.ErrQuit
		case backspace, ctrlH:
			p.held = [vm.KeyCount]int{}
			return runner.ErrReboot
		case esc:
			return nil
		}

		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if key, ok := keyBytes[b]; ok {
			p.held[key] = holdFrames
		}
	}
	return nil
}

func (p *keypad) decay() {
	for i := range p.held {
		if p.held[i] > 0 {
			p.held[i]--
		}
	}
}

func (p *keypad) state() vm.KeyState {
	var s vm.KeyState
	for i, n := range p.held {
		if n > 0 {
			s = s.Press(vm.Key(i))
		}
	}
	return s
}
