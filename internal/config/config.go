// Package config turns command line flags into machine and front-end
// settings.
package config

import (
	"fmt"
	"strings"

	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/spf13/pflag"
)

const (
	FrontendSDL  = "sdl"
	FrontendTerm = "term"

	// roughly 660 instructions per second at 60 frames per second
	DefaultInstructionsPerFrame = 11
)

type Config struct {
	Verbose bool

	Preset      string
	LoadAddress uint16
	StackDepth  int

	Frontend             string
	Terminal             string
	InstructionsPerFrame int
	// Seed for the LFSR random source, zero selects the system source.
	Seed uint16

	WAVPath       string
	DumpStatePath string
	StatsView     bool

	quirks map[string]*bool
	flags  *pflag.FlagSet
}

// AddFlags registers the machine and front-end flags on fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	c.flags = fs

	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")

	fs.StringVar(&c.Preset, "quirks", "modern", "quirk preset: "+strings.Join(vm.QuirkPresets(), ", "))
	fs.Uint16Var(&c.LoadAddress, "load-address", vm.ProgramStart, "address the program is loaded at")
	fs.IntVar(&c.StackDepth, "stack-depth", vm.StackSize, "number of nested calls")

	c.quirks = make(map[string]*bool, len(vm.QuirkFields))
	for _, f := range vm.QuirkFields {
		c.quirks[f.Name] = fs.Bool(f.Name, false, f.Usage+" (overrides the preset)")
	}

	fs.StringVar(&c.Frontend, "frontend", FrontendSDL, "front-end: sdl or term")
	fs.StringVar(&c.Terminal, "tty", "/dev/tty", "terminal device for the term front-end")
	fs.IntVar(&c.InstructionsPerFrame, "ipf", DefaultInstructionsPerFrame, "instructions executed per 1/60 s frame")
	fs.Uint16Var(&c.Seed, "seed", 0, "seed for a deterministic random source")

	fs.StringVar(&c.WAVPath, "wav", "", "record the buzzer to a WAV file")
	fs.StringVar(&c.DumpStatePath, "dump-state", "", "write a Graphviz dump of the machine when it halts")
	fs.BoolVar(&c.StatsView, "statsview", false, "serve runtime statistics over HTTP (builds with -tags statsview)")
}

// Machine builds the machine configuration: the preset first, then any
// quirk flag given explicitly.
func (c *Config) Machine() (vm.Config, error) {
	quirks, ok := vm.QuirksByName(c.Preset)
	if !ok {
		return vm.Config{}, fmt.Errorf("%w: unknown quirk preset %q", vm.ErrInvalidConfig, c.Preset)
	}

	for _, f := range vm.QuirkFields {
		if c.flags != nil && c.flags.Changed(f.Name) {
			*f.Field(&quirks) = *c.quirks[f.Name]
		}
	}

	return vm.Config{
		Quirks:      quirks,
		LoadAddress: c.LoadAddress,
		StackDepth:  c.StackDepth,
	}, nil
}

func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendSDL, FrontendTerm:
	default:
		return fmt.Errorf("%w: unknown front-end %q", vm.ErrInvalidConfig, c.Frontend)
	}

	if c.InstructionsPerFrame < 1 {
		return fmt.Errorf("%w: instructions per frame must be positive", vm.ErrInvalidConfig)
	}

	_, err := c.Machine()
	return err
}

func (c *Config) Random() vm.RandomSource {
	if c.Seed == 0 {
		return vm.SystemRandom{}
	}
	return vm.NewLFSR(c.Seed)
}
