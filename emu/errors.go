package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInstruction is matched by every error caused by an opcode or
	// funct3/funct7 combination that RV32I does not define.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrMemoryFault is matched by every error caused by an access whose
	// byte range falls outside memory.
	ErrMemoryFault = errors.New("memory fault")

	// ErrMaxInstructions is returned once the configured instruction budget
	// has been used up.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// InstructionError describes an instruction word that cannot be executed.
type InstructionError struct {
	Word   uint32
	Reason string
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("invalid instruction 0x%08X: %s", e.Word, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidInstruction) hold.
func (e *InstructionError) Unwrap() error {
	return ErrInvalidInstruction
}

// MemoryFaultError describes an out-of-bounds memory access.
type MemoryFaultError struct {
	Addr     uint32
	Size     uint64
	Capacity uint64
	Write    bool
}

func (e *MemoryFaultError) Error() string {
	kind := "read"
	if e.Write {
		kind = "write"
	}
	return fmt.Sprintf("memory fault: %d-byte %s at 0x%08X outside capacity 0x%X",
		e.Size, kind, e.Addr, e.Capacity)
}

// Unwrap makes errors.Is(err, ErrMemoryFault) hold.
func (e *MemoryFaultError) Unwrap() error {
	return ErrMemoryFault
}
