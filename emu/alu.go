// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/sarchlab/rvsim/insts"
)

// ALU implements RV32I arithmetic, logic and compare operations.
// All arithmetic wraps modulo 2^32.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Execute evaluates an R-type or I-type ALU instruction and returns the
// value destined for rd. It does not write the register file.
func (a *ALU) Execute(inst *insts.Instruction) (uint32, error) {
	op1 := a.regFile.ReadReg(inst.Rs1)

	var op2 uint32
	switch inst.Format {
	case insts.FormatR:
		op2 = a.regFile.ReadReg(inst.Rs2)
	case insts.FormatI:
		op2 = uint32(inst.Imm)
	default:
		return 0, &InstructionError{
			Word:   inst.Raw,
			Reason: fmt.Sprintf("format %v is not an ALU format", inst.Format),
		}
	}

	switch inst.Op {
	case insts.OpADD, insts.OpADDI:
		return a.ADD(op1, op2), nil
	case insts.OpSUB:
		return a.SUB(op1, op2), nil
	case insts.OpSLL, insts.OpSLLI:
		return a.SLL(op1, op2), nil
	case insts.OpSLT, insts.OpSLTI:
		return a.SLT(op1, op2), nil
	case insts.OpSLTU, insts.OpSLTIU:
		return a.SLTU(op1, op2), nil
	case insts.OpXOR, insts.OpXORI:
		return op1 ^ op2, nil
	case insts.OpSRL, insts.OpSRLI:
		return a.SRL(op1, op2), nil
	case insts.OpSRA, insts.OpSRAI:
		return a.SRA(op1, op2), nil
	case insts.OpOR, insts.OpORI:
		return op1 | op2, nil
	case insts.OpAND, insts.OpANDI:
		return op1 & op2, nil
	default:
		return 0, &InstructionError{
			Word: inst.Raw,
			Reason: fmt.Sprintf("undefined funct3 0x%X / funct7 0x%02X for opcode 0x%02X",
				inst.Funct3, inst.Funct7, uint8(inst.Opcode)),
		}
	}
}

// ADD returns op1 + op2.
func (a *ALU) ADD(op1, op2 uint32) uint32 {
	return op1 + op2
}

// SUB returns op1 - op2.
func (a *ALU) SUB(op1, op2 uint32) uint32 {
	return op1 - op2
}

// SLL shifts op1 left by the low 5 bits of op2.
func (a *ALU) SLL(op1, op2 uint32) uint32 {
	return op1 << (op2 & 0x1F)
}

// SRL shifts op1 right logically by the low 5 bits of op2.
func (a *ALU) SRL(op1, op2 uint32) uint32 {
	return op1 >> (op2 & 0x1F)
}

// SRA shifts op1 right arithmetically by the low 5 bits of op2.
func (a *ALU) SRA(op1, op2 uint32) uint32 {
	return uint32(int32(op1) >> (op2 & 0x1F))
}

// SLT returns 1 if op1 < op2 as signed values, 0 otherwise.
func (a *ALU) SLT(op1, op2 uint32) uint32 {
	return boolToWord(int32(op1) < int32(op2))
}

// SLTU returns 1 if op1 < op2 as unsigned values, 0 otherwise.
func (a *ALU) SLTU(op1, op2 uint32) uint32 {
	return boolToWord(op1 < op2)
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
