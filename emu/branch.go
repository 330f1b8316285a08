// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/sarchlab/rvsim/insts"
)

// JALRAlignment selects how JALR treats bit 0 of its computed target.
type JALRAlignment uint8

const (
	// JALRKeepLowBit uses rs1 + imm unchanged as the jump target.
	JALRKeepLowBit JALRAlignment = iota
	// JALRClearLowBit clears bit 0 of rs1 + imm, as the RV32I manual
	// specifies.
	JALRClearLowBit
)

// Transfer is the architectural effect of a control-transfer instruction.
type Transfer struct {
	// WriteRd is true if Result must be written to rd.
	WriteRd bool
	// Result is the link address (JAL, JALR) or the upper-immediate value
	// (LUI, AUIPC).
	Result uint32

	// Redirect is true if Target replaces the default PC+4.
	Redirect bool
	// Target is the next PC when Redirect is set.
	Target uint32
}

// BranchUnit implements RV32I branches, jumps and PC-relative constants.
type BranchUnit struct {
	regFile       *RegFile
	jalrAlignment JALRAlignment
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// SetJALRAlignment changes how JALR targets are aligned.
func (b *BranchUnit) SetJALRAlignment(a JALRAlignment) {
	b.jalrAlignment = a
}

// Execute evaluates a control-transfer instruction located at pc. It reads
// source registers but never writes the register file or the PC.
func (b *BranchUnit) Execute(inst *insts.Instruction, pc uint32) (Transfer, error) {
	switch inst.Op {
	case insts.OpBEQ, insts.OpBNE, insts.OpBLT, insts.OpBGE, insts.OpBLTU, insts.OpBGEU:
		return b.Branch(inst, pc), nil
	case insts.OpJAL:
		return b.JAL(pc, inst.Imm), nil
	case insts.OpJALR:
		return b.JALR(pc, inst.Rs1, inst.Imm), nil
	case insts.OpLUI:
		return b.LUI(inst.Imm), nil
	case insts.OpAUIPC:
		return b.AUIPC(pc, inst.Imm), nil
	default:
		return Transfer{}, &InstructionError{
			Word: inst.Raw,
			Reason: fmt.Sprintf("undefined control transfer funct3 0x%X for opcode 0x%02X",
				inst.Funct3, uint8(inst.Opcode)),
		}
	}
}

// Branch evaluates a conditional branch. When the condition holds the
// transfer redirects to pc + imm.
func (b *BranchUnit) Branch(inst *insts.Instruction, pc uint32) Transfer {
	rs1 := b.regFile.ReadReg(inst.Rs1)
	rs2 := b.regFile.ReadReg(inst.Rs2)

	if !b.CheckCondition(inst.Op, rs1, rs2) {
		return Transfer{}
	}
	return Transfer{Redirect: true, Target: pc + uint32(inst.Imm)}
}

// CheckCondition evaluates a branch condition on two register values.
func (b *BranchUnit) CheckCondition(op insts.Op, rs1, rs2 uint32) bool {
	switch op {
	case insts.OpBEQ:
		return rs1 == rs2
	case insts.OpBNE:
		return rs1 != rs2
	case insts.OpBLT:
		return int32(rs1) < int32(rs2)
	case insts.OpBGE:
		return int32(rs1) >= int32(rs2)
	case insts.OpBLTU:
		return rs1 < rs2
	case insts.OpBGEU:
		return rs1 >= rs2
	default:
		return false
	}
}

// JAL links pc + 4 and jumps to pc + imm.
func (b *BranchUnit) JAL(pc uint32, imm int32) Transfer {
	return Transfer{
		WriteRd:  true,
		Result:   pc + 4,
		Redirect: true,
		Target:   pc + uint32(imm),
	}
}

// JALR links pc + 4 and jumps to rs1 + imm. The target is computed from the
// value of rs1 before rd is written, so rd and rs1 may be the same register.
func (b *BranchUnit) JALR(pc uint32, rs1 uint8, imm int32) Transfer {
	target := b.regFile.ReadReg(rs1) + uint32(imm)
	if b.jalrAlignment == JALRClearLowBit {
		target &^= 1
	}

	return Transfer{
		WriteRd:  true,
		Result:   pc + 4,
		Redirect: true,
		Target:   target,
	}
}

// LUI produces the upper immediate; imm already holds bits [31:12].
func (b *BranchUnit) LUI(imm int32) Transfer {
	return Transfer{WriteRd: true, Result: uint32(imm)}
}

// AUIPC produces pc + the upper immediate.
func (b *BranchUnit) AUIPC(pc uint32, imm int32) Transfer {
	return Transfer{WriteRd: true, Result: pc + uint32(imm)}
}
