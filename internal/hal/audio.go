package hal

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/kapitanov/chip8core/internal/sound"
	"github.com/veandco/go-sdl2/sdl"
)

// queued audio is kept a few frames ahead of playback
const queueFrames = 3

type buzzer struct {
	device sdl.AudioDeviceID
	on     bool
	osc    sound.Square
	frame  []byte
}

func openBuzzer() (*buzzer, error) {
	spec := &sdl.AudioSpec{
		Freq:     sound.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}

	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open sdl audio device: %w", err)
	}
	slog.Debug("hal: open audio device", "id", device)

	return &buzzer{
		device: device,
		frame:  make([]byte, 2*sound.SamplesPerFrame),
	}, nil
}

func (b *buzzer) set(on bool) error {
	if b == nil || b.on == on {
		return nil
	}

	b.on = on
	if !on {
		sdl.PauseAudioDevice(b.device, true)
		sdl.ClearQueuedAudio(b.device)
		return nil
	}

	if err := b.feed(); err != nil {
		return err
	}
	sdl.PauseAudioDevice(b.device, false)
	return nil
}

func (b *buzzer) feed() error {
	if b == nil || !b.on {
		return nil
	}

	for sdl.GetQueuedAudioSize(b.device) < uint32(queueFrames*len(b.frame)) {
		for i := 0; i < sound.SamplesPerFrame; i++ {
			binary.LittleEndian.PutUint16(b.frame[2*i:], uint16(int16(b.osc.Next(true))))
		}
		if err := sdl.QueueAudio(b.device, b.frame); err != nil {
			return fmt.Errorf("failed to queue sdl audio: %w", err)
		}
	}
	return nil
}

func (b *buzzer) close() {
	if b == nil {
		return
	}
	sdl.CloseAudioDevice(b.device)
}
