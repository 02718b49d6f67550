// Package runner drives a machine at a fixed frame rate: it polls the
// host, executes a batch of instructions and ticks the timers once per
// frame.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kapitanov/chip8core/internal/vm"
)

var (
	ErrReboot = errors.New("reboot")
	ErrQuit   = errors.New("quit")
)

const FrameRate = 60

// Host is the part of a front-end the runner talks to directly. Display,
// keys and sound reach the machine through its capabilities instead.
type Host interface {
	// PollEvents processes pending input. It returns ErrQuit or ErrReboot
	// when the user asks for it.
	PollEvents() error
}

type Options struct {
	InstructionsPerFrame int

	// OnFrame runs after the timers were ticked.
	OnFrame []func() error
	// OnHalt runs once when the machine faults.
	OnHalt []func(m *vm.Machine)
}

type Runner struct {
	machine *vm.Machine
	host    Host
	opts    Options

	looped bool
	halted bool
}

func New(machine *vm.Machine, host Host, opts Options) *Runner {
	if opts.InstructionsPerFrame <= 0 {
		opts.InstructionsPerFrame = 1
	}
	return &Runner{
		machine: machine,
		host:    host,
		opts:    opts,
	}
}

// Run executes frames until the host quits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := r.Frame()
		if errors.Is(err, ErrQuit) {
			slog.Debug("runner: exit requested")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Frame runs a single frame.
func (r *Runner) Frame() error {
	if err := r.host.PollEvents(); err != nil {
		if !errors.Is(err, ErrReboot) {
			return err
		}

		slog.Info("reboot")
		r.machine.Reset()
		r.looped = false
		r.halted = false
	}

	r.runSteps()
	r.machine.Tick()

	for _, hook := range r.opts.OnFrame {
		if err := hook(); err != nil {
			return fmt.Errorf("frame hook: %w", err)
		}
	}
	return nil
}

func (r *Runner) runSteps() {
	if r.halted || r.looped {
		return
	}

	for i := 0; i < r.opts.InstructionsPerFrame; i++ {
		if r.machine.Looping() {
			slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", r.machine.PC()))
			r.looped = true
			return
		}

		status, err := r.machine.Step()
		if err != nil {
			r.halt(err)
			return
		}

		if status == vm.StatusWaitingForKey || status == vm.StatusWaitingForFrame {
			return
		}
	}
}

func (r *Runner) halt(err error) {
	r.halted = true

	var fault *vm.Fault
	if errors.As(err, &fault) {
		slog.Error("program halted",
			"pc", fmt.Sprintf("0x%04x", fault.PC),
			"opcode", fmt.Sprintf("0x%04x", fault.Opcode),
			"err", err,
		)
	} else {
		slog.Error("program halted", "err", err)
	}

	for _, hook := range r.opts.OnHalt {
		hook(r.machine)
	}
}

// Halted reports whether the machine faulted and is waiting for a reboot.
func (r *Runner) Halted() bool { return r.halted }

// Looped reports whether the program ended in a jump to itself.
func (r *Runner) Looped() bool { return r.looped }
