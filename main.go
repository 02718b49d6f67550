package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kapitanov/chip8core/internal/config"
	"github.com/kapitanov/chip8core/internal/disasm"
	"github.com/kapitanov/chip8core/internal/dump"
	"github.com/kapitanov/chip8core/internal/hal"
	"github.com/kapitanov/chip8core/internal/runner"
	"github.com/kapitanov/chip8core/internal/sound"
	"github.com/kapitanov/chip8core/internal/statsview"
	"github.com/kapitanov/chip8core/internal/termhal"
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/spf13/cobra"
)

type frontend interface {
	runner.Host
	vm.FrameSink
	vm.KeySource
	vm.SoundSink
	Shutdown()
}

func main() {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run emulator",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cfg.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		setupLogger(cfg.Verbose)

		if err := cfg.Validate(); err != nil {
			return err
		}

		path := args[0]
		bs, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}

		return run(cmd.Context(), &cfg, bs)
	}

	cmd.AddCommand(disasmCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("fatal error", "err", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	loggerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if verbose {
		loggerOpts.Level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
}

func run(ctx context.Context, cfg *config.Config, program []byte) error {
	machineConfig, err := cfg.Machine()
	if err != nil {
		return err
	}

	h, err := newFrontend(cfg)
	if err != nil {
		return fmt.Errorf("unable to initialize %s front-end: %w", cfg.Frontend, err)
	}
	defer h.Shutdown()

	if cfg.StatsView {
		statsview.Launch()
	}

	var (
		soundSink vm.SoundSink = h
		opts                   = runner.Options{InstructionsPerFrame: cfg.InstructionsPerFrame}
	)

	if cfg.WAVPath != "" {
		rec := sound.NewRecorder(cfg.WAVPath)
		defer func() {
			if err := rec.Close(); err != nil {
				slog.Error("failed to write wav", "err", err)
			}
		}()

		soundSink = sound.Multi{h, rec}
		opts.OnFrame = append(opts.OnFrame, rec.EndFrame)
	}

	if cfg.DumpStatePath != "" {
		opts.OnHalt = append(opts.OnHalt, func(m *vm.Machine) {
			if err := dump.WriteFile(cfg.DumpStatePath, m); err != nil {
				slog.Error("failed to dump state", "err", err)
				return
			}
			slog.Info("state dumped", "path", cfg.DumpStatePath)
		})
	}

	machine, err := vm.New(program, machineConfig, vm.Capabilities{
		Frames: h,
		Keys:   h,
		Random: cfg.Random(),
		Sound:  soundSink,
	})
	if err != nil {
		return fmt.Errorf("unable to load program: %w", err)
	}

	return runner.New(machine, h, opts).Run(ctx)
}

func newFrontend(cfg *config.Config) (frontend, error) {
	switch cfg.Frontend {
	case config.FrontendTerm:
		return termhal.New(cfg.Terminal)
	default:
		return hal.New()
	}
}

func disasmCommand() *cobra.Command {
	var origin uint16

	cmd := &cobra.Command{
		Use:   "disasm PATH_TO_ROM_FILE",
		Short: "Print a listing of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			bs, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("unable to load file %q: %w", path, err)
			}
			return disasm.Write(cmd.OutOrStdout(), bs, origin)
		},
	}
	cmd.Flags().Uint16Var(&origin, "origin", vm.ProgramStart, "address the program is loaded at")

	return cmd
}
