package vm

import (
	"errors"
	"fmt"
)

// Fault kinds. A *Fault matches its kind with errors.Is.
var (
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrMemory         = errors.New("memory out of range")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrCapability     = errors.New("host capability failed")
)

// Construction errors.
var (
	ErrEmptyProgram    = errors.New("empty program")
	ErrProgramTooLarge = errors.New("program does not fit into memory")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Fault describes the error that halted a session.
type Fault struct {
	Kind   error  // one of the Err* fault kinds
	PC     uint16 // address of the faulting instruction
	Opcode uint16 // instruction word, zero if the fetch itself failed
	Addr   uint16 // effective address for memory faults
	Err    error  // host error for capability faults
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("%v at 0x%04x (opcode 0x%04x)", f.Kind, f.PC, f.Opcode)
	if errors.Is(f.Kind, ErrMemory) {
		msg += fmt.Sprintf(", address 0x%04x", f.Addr)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}
