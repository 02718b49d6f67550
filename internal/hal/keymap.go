package hal

import (
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

// Physical                Logical
// ================        =================
// | 1 | 2 | 3 | 4 |       | 1 | 2 | 3 | C |
// | q | w | e | r |       | 4 | 5 | 6 | D |
// | a | s | d | f |  <=>  | 7 | 8 | 9 | E |
// | z | x | c | v |       | A | 0 | B | F |
// ================        =================
var scancodes = map[sdl.Scancode]vm.Key{
	sdl.SCANCODE_X: vm.Key0,
	sdl.SCANCODE_1: vm.Key1,
	sdl.SCANCODE_2: vm.Key2,
	sdl.SCANCODE_3: vm.Key3,
	sdl.SCANCODE_Q: vm.Key4,
	sdl.SCANCODE_W: vm.Key5,
	sdl.SCANCODE_E: vm.Key6,
	sdl.SCANCODE_A: vm.Key7,
	sdl.SCANCODE_S: vm.Key8,
	sdl.SCANCODE_D: vm.Key9,
	sdl.SCANCODE_Z: vm.KeyA,
	sdl.SCANCODE_C: vm.KeyB,
	sdl.SCANCODE_4: vm.KeyC,
	sdl.SCANCODE_R: vm.KeyD,
	sdl.SCANCODE_F: vm.KeyE,
	sdl.SCANCODE_V: vm.KeyF,
}

func keyMap(code sdl.Scancode) (vm.Key, bool) {
	key, ok := scancodes[code]
	return key, ok
}
