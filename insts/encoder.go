package insts

// EncodeR encodes a register-register instruction.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func EncodeR(opcode Opcode, rd, funct3, rs1, rs2, funct7 uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeI encodes a register-immediate instruction. Only the low 12 bits of
// imm are used.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func EncodeI(opcode Opcode, rd, funct3, rs1 uint8, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeS encodes a store instruction.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func EncodeS(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeB encodes a conditional branch. imm is a byte offset; bit 0 is
// dropped.
// Format: imm[12] | imm[10:5] | rs2 | rs1 | funct3 | imm[4:1] | imm[11] | opcode
func EncodeB(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&0x1)<<31 |
		(u>>5&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u>>1&0xF)<<8 |
		(u>>11&0x1)<<7 |
		uint32(opcode&0x7F)
}

// EncodeU encodes an upper-immediate instruction. imm20 is the raw 20-bit
// value placed in bits [31:12].
func EncodeU(opcode Opcode, rd uint8, imm20 uint32) uint32 {
	return (imm20&0xFFFFF)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeJ encodes a jump. imm is a byte offset; bit 0 is dropped.
// Format: imm[20] | imm[10:1] | imm[11] | imm[19:12] | rd | opcode
func EncodeJ(opcode Opcode, rd uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&0x1)<<31 |
		(u>>1&0x3FF)<<21 |
		(u>>11&0x1)<<20 |
		(u>>12&0xFF)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}
