// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/sarchlab/rvsim/insts"
)

// LoadStoreUnit implements RV32I load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress returns rs1 + imm with 32-bit wraparound.
func (lsu *LoadStoreUnit) EffectiveAddress(inst *insts.Instruction) uint32 {
	return lsu.regFile.ReadReg(inst.Rs1) + uint32(inst.Imm)
}

// Load executes a load instruction and returns the value destined for rd.
// It does not write the register file.
func (lsu *LoadStoreUnit) Load(inst *insts.Instruction) (uint32, error) {
	addr := lsu.EffectiveAddress(inst)

	switch inst.Op {
	case insts.OpLB:
		return lsu.LB(addr)
	case insts.OpLH:
		return lsu.LH(addr)
	case insts.OpLW:
		return lsu.LW(addr)
	case insts.OpLBU:
		return lsu.LBU(addr)
	case insts.OpLHU:
		return lsu.LHU(addr)
	default:
		return 0, &InstructionError{
			Word:   inst.Raw,
			Reason: fmt.Sprintf("undefined load funct3 0x%X", inst.Funct3),
		}
	}
}

// Store executes a store instruction. Memory is either fully updated or,
// on error, left untouched.
func (lsu *LoadStoreUnit) Store(inst *insts.Instruction) error {
	addr := lsu.EffectiveAddress(inst)
	value := lsu.regFile.ReadReg(inst.Rs2)

	switch inst.Op {
	case insts.OpSB:
		return lsu.SB(addr, value)
	case insts.OpSH:
		return lsu.SH(addr, value)
	case insts.OpSW:
		return lsu.SW(addr, value)
	default:
		return &InstructionError{
			Word:   inst.Raw,
			Reason: fmt.Sprintf("undefined store funct3 0x%X", inst.Funct3),
		}
	}
}

// LB loads a byte with sign extension.
func (lsu *LoadStoreUnit) LB(addr uint32) (uint32, error) {
	value, err := lsu.memory.Read8(addr)
	if err != nil {
		return 0, err
	}
	return uint32(int32(int8(value))), nil
}

// LH loads a halfword with sign extension.
func (lsu *LoadStoreUnit) LH(addr uint32) (uint32, error) {
	value, err := lsu.memory.Read16(addr)
	if err != nil {
		return 0, err
	}
	return uint32(int32(int16(value))), nil
}

// LW loads a word.
func (lsu *LoadStoreUnit) LW(addr uint32) (uint32, error) {
	return lsu.memory.Read32(addr)
}

// LBU loads a byte with zero extension.
func (lsu *LoadStoreUnit) LBU(addr uint32) (uint32, error) {
	value, err := lsu.memory.Read8(addr)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}

// LHU loads a halfword with zero extension.
func (lsu *LoadStoreUnit) LHU(addr uint32) (uint32, error) {
	value, err := lsu.memory.Read16(addr)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}

// SB stores the low 8 bits of value.
func (lsu *LoadStoreUnit) SB(addr, value uint32) error {
	return lsu.memory.Write8(addr, uint8(value))
}

// SH stores the low 16 bits of value.
func (lsu *LoadStoreUnit) SH(addr, value uint32) error {
	return lsu.memory.Write16(addr, uint16(value))
}

// SW stores all 32 bits of value.
func (lsu *LoadStoreUnit) SW(addr, value uint32) error {
	return lsu.memory.Write32(addr, value)
}
