// Package sound holds the buzzer sinks shared by the front-ends.
package sound

import (
	"errors"

	"github.com/kapitanov/chip8core/internal/vm"
)

const (
	SampleRate      = 44100
	ToneFrequency   = 440
	SamplesPerFrame = SampleRate / 60

	// Amplitude of the square wave for signed 16-bit output.
	Amplitude = 8000
)

// Square is a square wave oscillator at ToneFrequency.
type Square struct {
	phase int
}

// Next returns the next sample, or silence when off. The phase is kept
// across calls so consecutive frames join without clicks.
func (s *Square) Next(on bool) int {
	const period = SampleRate / ToneFrequency

	if !on {
		s.phase = 0
		return 0
	}

	v := Amplitude
	if s.phase >= period/2 {
		v = -Amplitude
	}
	s.phase = (s.phase + 1) % period
	return v
}

// Multi fans a buzzer change out to several sinks.
type Multi []vm.SoundSink

func (m Multi) SetBuzzer(on bool) error {
	var errs []error
	for _, sink := range m {
		if err := sink.SetBuzzer(on); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
