// Package insts provides RV32I instruction definitions, decoding and encoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. It supports the six base formats:
//   - R-type: register-register ALU operations (ADD, SUB, SLL, ...)
//   - I-type: register-immediate ALU operations, loads and JALR
//   - S-type: stores (SB, SH, SW)
//   - B-type: conditional branches (BEQ, BNE, BLT, BGE, BLTU, BGEU)
//   - U-type: LUI and AUIPC
//   - J-type: JAL
//
// Decoding never fails. Words whose opcode or funct fields are not defined
// decode to an Instruction with Op == OpUnknown, and it is up to the executor
// to reject them.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00A00093) // ADDI x1, x0, 10
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
