// Package hal is the SDL front-end. A HAL presents frames in a window,
// tracks the keypad from keyboard events and plays the buzzer through an
// SDL audio queue.
package hal

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/kapitanov/chip8core/internal/runner"
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	bgColor = uint32(0x000000)
	fgColor = uint32(0xbea700)
)

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int

	keys  vm.KeyState
	audio *buzzer
}

func New() (*HAL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	window, err := sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, WindowWidth, WindowHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_UTILITY)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl window: %w", err)
	}
	slog.Debug("hal: create window")
	window.Show()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl renderer: %w", err)
	}
	err = renderer.SetLogicalSize(WindowWidth, WindowHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to resize sdl renderer: %w", err)
	}
	slog.Debug("hal: create renderer")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, vm.ScreenWidth, vm.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl texture: %w", err)
	}
	slog.Debug("hal: create texture")

	audio, err := openBuzzer()
	if err != nil {
		// a missing audio device is not fatal, the buzzer stays silent
		slog.Warn("hal: audio unavailable", "err", err)
	}

	return &HAL{
		window:          window,
		renderer:        renderer,
		texture:         texture,
		backBuffer:      make([]uint32, vm.ScreenWidth*vm.ScreenHeight),
		backBufferPitch: int(vm.ScreenWidth) * int(unsafe.Sizeof(uint32(0))),
		audio:           audio,
	}, nil
}

func (hal *HAL) Shutdown() {
	hal.audio.close()

	if err := hal.texture.Destroy(); err != nil {
		slog.Error("failed to destroy sdl texture", "err", err)
	}

	if err := hal.renderer.Destroy(); err != nil {
		slog.Error("failed to destroy sdl renderer", "err", err)
	}

	if err := hal.window.Destroy(); err != nil {
		slog.Error("failed to destroy sdl window", "err", err)
	}

	sdl.Quit()
}

// PollEvents drains the SDL event queue and keeps the buzzer fed.
func (hal *HAL) PollEvents() error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.GetType() {
		case sdl.QUIT:
			slog.Debug("hal: exit requested")
			return runner.ErrQuit

		case sdl.KEYDOWN:
			ke := e.(*sdl.KeyboardEvent)
			if ke.Keysym.Scancode == sdl.SCANCODE_BACKSPACE {
				hal.keys = 0
				return runner.ErrReboot
			}
			if key, ok := keyMap(ke.Keysym.Scancode); ok {
				hal.keys = hal.keys.Press(key)
			}

		case sdl.KEYUP:
			ke := e.(*sdl.KeyboardEvent)
			if key, ok := keyMap(ke.Keysym.Scancode); ok {
				hal.keys = hal.keys.Release(key)
			}
		}
	}

	return hal.audio.feed()
}

func (hal *HAL) Keys() (vm.KeyState, error) {
	return hal.keys, nil
}

func (hal *HAL) SetBuzzer(on bool) error {
	return hal.audio.set(on)
}

func (hal *HAL) Present(fb *vm.FrameBuffer) error {
	for y := 0; y < vm.ScreenHeight; y++ {
		for x := 0; x < vm.ScreenWidth; x++ {
			color := bgColor
			if fb.Pixel(x, y) {
				color = fgColor
			}

			hal.backBuffer[x+y*vm.ScreenWidth] = color
		}
	}

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}
