// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvsim/insts"
)

// Hook positions at which the emulator invokes its hooks. The hook item is
// the decoded *insts.Instruction (nil if the fetch itself faulted) and the
// detail is the StepResult.
var (
	// HookPosInstRetired fires after an instruction has been committed.
	HookPosInstRetired = &sim.HookPos{Name: "InstRetired"}

	// HookPosFault fires after a step has been aborted.
	HookPosFault = &sim.HookPos{Name: "Fault"}
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// PC is the address the instruction was fetched from.
	PC uint32

	// NextPC is the PC after the step. It equals PC if the step failed.
	NextPC uint32

	// Inst is the decoded instruction, nil if the fetch faulted.
	Inst *insts.Instruction

	// Err is set if the step was aborted. It matches ErrInvalidInstruction,
	// ErrMemoryFault or ErrMaxInstructions under errors.Is.
	Err error
}

// Emulator executes RV32I instructions functionally.
type Emulator struct {
	*sim.HookableBase

	name    string
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	logger  logr.Logger

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Configuration
	memorySize    uint64
	jalrAlignment JALRAlignment

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithName sets the name reported to hooks.
func WithName(name string) EmulatorOption {
	return func(e *Emulator) {
		e.name = name
	}
}

// WithLogger sets the logger. Retired instructions are logged at V(1).
func WithLogger(logger logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMemorySize sets the capacity of the memory the emulator creates.
// It has no effect together with WithMemory.
func WithMemorySize(size uint64) EmulatorOption {
	return func(e *Emulator) {
		e.memorySize = size
	}
}

// WithMemory makes the emulator use an existing memory.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithJALRAlignment selects whether JALR clears bit 0 of its target.
func WithJALRAlignment(a JALRAlignment) EmulatorOption {
	return func(e *Emulator) {
		e.jalrAlignment = a
	}
}

// NewEmulator creates a new RV32I emulator with all registers and the PC
// set to zero.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase: sim.NewHookableBase(),
		regFile:      &RegFile{},
		decoder:      insts.NewDecoder(),
		logger:       logr.Discard(),
		memorySize:   DefaultMemorySize,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.name == "" {
		e.name = "RV32I-" + xid.New().String()
	}
	if e.memory == nil {
		e.memory = NewMemory(e.memorySize)
	}

	// Create execution units
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.branchUnit.SetJALRAlignment(e.jalrAlignment)

	e.logger = e.logger.WithValues("emulator", e.name)

	return e
}

// Name returns the emulator's name.
func (e *Emulator) Name() string {
	return e.name
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions retired.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies a raw program image into memory at entry and sets the
// PC to entry. Nothing is modified if the image does not fit.
func (e *Emulator) LoadProgram(entry uint32, program []byte) error {
	if err := e.memory.Write(entry, program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	e.regFile.PC = entry
	return nil
}

// Reset zeroes the registers, the PC and the instruction count. Memory is
// left as it is.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.instructionCount = 0
}

// Step executes a single instruction. The step either commits completely
// or, if StepResult.Err is set, leaves registers, memory and PC untouched.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{PC: pc, NextPC: pc, Err: ErrMaxInstructions}
	}

	// 1. Fetch
	word, err := e.memory.Read32(pc)
	if err != nil {
		return e.abort(pc, nil, fmt.Errorf("fetch: %w", err))
	}

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	eff, err := e.execute(inst, pc)
	if err != nil {
		return e.abort(pc, inst, err)
	}

	// 4. Commit
	if eff.writeRd {
		e.regFile.WriteReg(inst.Rd, eff.value)
	}
	e.regFile.PC = eff.nextPC
	e.instructionCount++

	result := StepResult{PC: pc, NextPC: eff.nextPC, Inst: inst}

	if log := e.logger.V(1); log.Enabled() {
		log.Info("retired",
			"pc", fmt.Sprintf("0x%08X", pc),
			"word", fmt.Sprintf("0x%08X", word),
			"op", inst.Op.String(),
			"next_pc", fmt.Sprintf("0x%08X", eff.nextPC))
	}
	e.invokeHook(HookPosInstRetired, inst, result)

	return result
}

// Run executes instructions until a step fails and returns the failing
// step. Guest code that loops forever keeps Run busy unless
// WithMaxInstructions was set.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Err != nil {
			return result
		}
	}
}

// RunSteps executes at most n instructions. It returns the number of
// instructions retired and the last step's result.
func (e *Emulator) RunSteps(n uint64) (uint64, StepResult) {
	var (
		retired uint64
		result  StepResult
	)

	for retired < n {
		result = e.Step()
		if result.Err != nil {
			break
		}
		retired++
	}

	return retired, result
}

func (e *Emulator) abort(pc uint32, inst *insts.Instruction, err error) StepResult {
	result := StepResult{
		PC:     pc,
		NextPC: pc,
		Inst:   inst,
		Err:    fmt.Errorf("PC=0x%08X: %w", pc, err),
	}

	e.logger.Error(err, "step aborted", "pc", fmt.Sprintf("0x%08X", pc))
	e.invokeHook(HookPosFault, inst, result)

	return result
}

func (e *Emulator) invokeHook(pos *sim.HookPos, inst *insts.Instruction, result StepResult) {
	if e.NumHooks() == 0 {
		return
	}

	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    pos,
		Item:   inst,
		Detail: result,
	})
}

// effect is what a successfully executed instruction commits.
type effect struct {
	writeRd bool
	value   uint32
	nextPC  uint32
}

// execute dispatches a decoded instruction to its execution unit. Stores
// reach memory here; every other architectural update is returned in the
// effect and committed by Step.
func (e *Emulator) execute(inst *insts.Instruction, pc uint32) (effect, error) {
	eff := effect{nextPC: pc + 4}

	if inst.Op == insts.OpUnknown {
		return eff, e.invalid(inst)
	}

	switch inst.Opcode {
	case insts.OpcodeOp, insts.OpcodeOpImm:
		value, err := e.alu.Execute(inst)
		if err != nil {
			return eff, err
		}
		eff.writeRd = true
		eff.value = value

	case insts.OpcodeLoad:
		value, err := e.lsu.Load(inst)
		if err != nil {
			return eff, err
		}
		eff.writeRd = true
		eff.value = value

	case insts.OpcodeStore:
		if err := e.lsu.Store(inst); err != nil {
			return eff, err
		}

	case insts.OpcodeBranch, insts.OpcodeJAL, insts.OpcodeJALR,
		insts.OpcodeLUI, insts.OpcodeAUIPC:
		t, err := e.branchUnit.Execute(inst, pc)
		if err != nil {
			return eff, err
		}
		eff.writeRd = t.WriteRd
		eff.value = t.Result
		if t.Redirect {
			eff.nextPC = t.Target
		}

	default:
		return eff, e.invalid(inst)
	}

	return eff, nil
}

func (e *Emulator) invalid(inst *insts.Instruction) error {
	if inst.Format == insts.FormatUnknown {
		return &InstructionError{
			Word:   inst.Raw,
			Reason: fmt.Sprintf("unknown opcode 0x%02X", uint8(inst.Opcode)),
		}
	}

	return &InstructionError{
		Word: inst.Raw,
		Reason: fmt.Sprintf("undefined funct3 0x%X / funct7 0x%02X for opcode 0x%02X",
			inst.Funct3, inst.Funct7, uint8(inst.Opcode)),
	}
}
