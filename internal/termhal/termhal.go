// Package termhal is a text front-end. It renders the display with
// half-block characters and reads the keypad from a raw-mode terminal.
package termhal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/pkg/term"
)

const (
	DefaultDevice = "/dev/tty"

	// terminals report key presses but not releases, so a key counts as
	// held for this many frames after its last byte
	holdFrames = 6
)

type HAL struct {
	tty *term.Term
	out *bufio.Writer

	pad keypad
	buf [64]byte
}

func New(device string) (*HAL, error) {
	tty, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal %q: %w", device, err)
	}

	if err := tty.SetReadTimeout(0); err != nil {
		_ = tty.Restore()
		_ = tty.Close()
		return nil, fmt.Errorf("failed to make terminal non-blocking: %w", err)
	}
	slog.Debug("termhal: raw mode", "device", device)

	h := &HAL{
		tty: tty,
		out: bufio.NewWriterSize(tty, 4096),
	}
	_, _ = h.out.WriteString("\x1b[?25l\x1b[2J")
	return h, h.out.Flush()
}

func (h *HAL) Shutdown() {
	_, _ = h.out.WriteString("\x1b[0m\x1b[?25h\r\n")
	if err := h.out.Flush(); err != nil {
		slog.Error("failed to flush terminal", "err", err)
	}

	if err := h.tty.Restore(); err != nil {
		slog.Error("failed to restore terminal", "err", err)
	}
	if err := h.tty.Close(); err != nil {
		slog.Error("failed to close terminal", "err", err)
	}
}

func (h *HAL) PollEvents() error {
	h.pad.decay()

	for {
		n, err := h.tty.Read(h.buf[:])
		if n > 0 {
			if perr := h.pad.feed(h.buf[:n]); perr != nil {
				return perr
			}
		}
		if errors.Is(err, io.EOF) || n == 0 {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read terminal: %w", err)
		}
	}
}

func (h *HAL) Keys() (vm.KeyState, error) {
	return h.pad.state(), nil
}

// SetBuzzer rings the terminal bell when the buzzer starts.
func (h *HAL) SetBuzzer(on bool) error {
	if !on {
		return nil
	}
	if _, err := h.out.WriteString("\a"); err != nil {
		return err
	}
	return h.out.Flush()
}

func (h *HAL) Present(fb *vm.FrameBuffer) error {
	render(h.out, fb)
	return h.out.Flush()
}

// render draws two display rows per text line.
func render(w *bufio.Writer, fb *vm.FrameBuffer) {
	_, _ = w.WriteString("\x1b[H")

	for y := 0; y < vm.ScreenHeight; y += 2 {
		for x := 0; x < vm.ScreenWidth; x++ {
			top, bottom := fb.Pixel(x, y), fb.Pixel(x, y+1)
			switch {
			case top && bottom:
				_, _ = w.WriteString("█")
			case top:
				_, _ = w.WriteString("▀")
			case bottom:
				_, _ = w.WriteString("▄")
			default:
				_ = w.WriteByte(' ')
			}
		}
		_, _ = w.WriteString("\r\n")
	}
}
