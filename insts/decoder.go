// Package insts provides RV32I instruction definitions, decoding and encoding.
package insts

// Opcode is the 7-bit major opcode in bits [6:0] of an instruction word.
type Opcode uint8

// RV32I major opcodes.
const (
	OpcodeLoad   Opcode = 0x03
	OpcodeOpImm  Opcode = 0x13
	OpcodeAUIPC  Opcode = 0x17
	OpcodeStore  Opcode = 0x23
	OpcodeOp     Opcode = 0x33
	OpcodeLUI    Opcode = 0x37
	OpcodeBranch Opcode = 0x63
	OpcodeJALR   Opcode = 0x67
	OpcodeJAL    Opcode = 0x6F
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Register-immediate, loads, JALR
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatU              // LUI, AUIPC
	FormatJ              // JAL
)

var formatNames = [...]string{"?", "R", "I", "S", "B", "U", "J"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "?"
}

// Op represents a resolved RV32I operation.
type Op uint8

// RV32I operations.
const (
	OpUnknown Op = iota

	// Register-register
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	// Register-immediate
	OpADDI
	OpSLLI
	OpSLTI
	OpSLTIU
	OpXORI
	OpSRLI
	OpSRAI
	OpORI
	OpANDI

	// Loads
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	// Stores
	OpSB
	OpSH
	OpSW

	// Branches
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	// Jumps and upper immediates
	OpJAL
	OpJALR
	OpLUI
	OpAUIPC
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpADDI: "addi", OpSLLI: "slli", OpSLTI: "slti", OpSLTIU: "sltiu",
	OpXORI: "xori", OpSRLI: "srli", OpSRAI: "srai", OpORI: "ori", OpANDI: "andi",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpJAL: "jal", OpJALR: "jalr", OpLUI: "lui", OpAUIPC: "auipc",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	Raw    uint32 // Original instruction word
	Opcode Opcode // Bits [6:0]
	Format Format // Encoding format
	Op     Op     // Resolved operation, OpUnknown if undefined

	Rd     uint8 // Destination register
	Rs1    uint8 // First source register
	Rs2    uint8 // Second source register
	Funct3 uint8 // Bits [14:12]
	Funct7 uint8 // Bits [31:25]

	// Imm is the format-specific immediate, sign-extended where the
	// architecture requires it. For U-type it holds the value already
	// shifted into bits [31:12].
	Imm int32
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32I instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Raw:    word,
		Opcode: Opcode(word & 0x7F),
		Op:     OpUnknown,
		Format: FormatUnknown,
	}

	switch inst.Opcode {
	case OpcodeOp:
		d.decodeR(word, inst)
		inst.Op = resolveOp(inst.Funct3, inst.Funct7)
	case OpcodeOpImm:
		d.decodeI(word, inst)
		inst.Op = resolveOpImm(inst.Funct3, inst.Funct7)
	case OpcodeLoad:
		d.decodeI(word, inst)
		inst.Op = resolveLoad(inst.Funct3)
	case OpcodeJALR:
		d.decodeI(word, inst)
		if inst.Funct3 == 0 {
			inst.Op = OpJALR
		}
	case OpcodeStore:
		d.decodeS(word, inst)
		inst.Op = resolveStore(inst.Funct3)
	case OpcodeBranch:
		d.decodeB(word, inst)
		inst.Op = resolveBranch(inst.Funct3)
	case OpcodeLUI:
		d.decodeU(word, inst)
		inst.Op = OpLUI
	case OpcodeAUIPC:
		d.decodeU(word, inst)
		inst.Op = OpAUIPC
	case OpcodeJAL:
		d.decodeJ(word, inst)
		inst.Op = OpJAL
	}

	return inst
}

// decodeR decodes the register-register layout.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeR(word uint32, inst *Instruction) {
	inst.Format = FormatR
	inst.Rd = uint8((word >> 7) & 0x1F)      // bits [11:7]
	inst.Funct3 = uint8((word >> 12) & 0x7)  // bits [14:12]
	inst.Rs1 = uint8((word >> 15) & 0x1F)    // bits [19:15]
	inst.Rs2 = uint8((word >> 20) & 0x1F)    // bits [24:20]
	inst.Funct7 = uint8((word >> 25) & 0x7F) // bits [31:25]
}

// decodeI decodes the register-immediate layout.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeI(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = uint8((word >> 7) & 0x1F)
	inst.Funct3 = uint8((word >> 12) & 0x7)
	inst.Rs1 = uint8((word >> 15) & 0x1F)
	// The high 7 bits of imm12 select SRLI/SRAI.
	inst.Funct7 = uint8((word >> 25) & 0x7F)
	inst.Imm = int32(word) >> 20
}

// decodeS decodes the store layout.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func (d *Decoder) decodeS(word uint32, inst *Instruction) {
	inst.Format = FormatS
	inst.Funct3 = uint8((word >> 12) & 0x7)
	inst.Rs1 = uint8((word >> 15) & 0x1F)
	inst.Rs2 = uint8((word >> 20) & 0x1F)

	hi := (word >> 25) & 0x7F // imm[11:5]
	lo := (word >> 7) & 0x1F  // imm[4:0]
	inst.Imm = signExtend(hi<<5|lo, 12)
}

// decodeB decodes the branch layout.
// Format: imm[12] | imm[10:5] | rs2 | rs1 | funct3 | imm[4:1] | imm[11] | opcode
func (d *Decoder) decodeB(word uint32, inst *Instruction) {
	inst.Format = FormatB
	inst.Funct3 = uint8((word >> 12) & 0x7)
	inst.Rs1 = uint8((word >> 15) & 0x1F)
	inst.Rs2 = uint8((word >> 20) & 0x1F)

	b12 := (word >> 31) & 0x1
	b11 := (word >> 7) & 0x1
	b10to5 := (word >> 25) & 0x3F
	b4to1 := (word >> 8) & 0xF
	imm := b12<<12 | b11<<11 | b10to5<<5 | b4to1<<1
	inst.Imm = signExtend(imm, 13)
}

// decodeU decodes the upper-immediate layout.
// Format: imm[31:12] | rd | opcode
func (d *Decoder) decodeU(word uint32, inst *Instruction) {
	inst.Format = FormatU
	inst.Rd = uint8((word >> 7) & 0x1F)
	inst.Imm = int32(word & 0xFFFFF000)
}

// decodeJ decodes the jump layout.
// Format: imm[20] | imm[10:1] | imm[11] | imm[19:12] | rd | opcode
func (d *Decoder) decodeJ(word uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Rd = uint8((word >> 7) & 0x1F)

	b20 := (word >> 31) & 0x1
	b19to12 := (word >> 12) & 0xFF
	b11 := (word >> 20) & 0x1
	b10to1 := (word >> 21) & 0x3FF
	imm := b20<<20 | b19to12<<12 | b11<<11 | b10to1<<1
	inst.Imm = signExtend(imm, 21)
}

// signExtend sign-extends the low `bits` bits of v.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func resolveOp(funct3, funct7 uint8) Op {
	switch funct7 {
	case 0x00:
		return [8]Op{OpADD, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpOR, OpAND}[funct3]
	case 0x20:
		switch funct3 {
		case 0x0:
			return OpSUB
		case 0x5:
			return OpSRA
		}
	}
	return OpUnknown
}

func resolveOpImm(funct3, funct7 uint8) Op {
	switch funct3 {
	case 0x0:
		return OpADDI
	case 0x1:
		return OpSLLI
	case 0x2:
		return OpSLTI
	case 0x3:
		return OpSLTIU
	case 0x4:
		return OpXORI
	case 0x5:
		switch funct7 {
		case 0x00:
			return OpSRLI
		case 0x20:
			return OpSRAI
		}
	case 0x6:
		return OpORI
	case 0x7:
		return OpANDI
	}
	return OpUnknown
}

func resolveLoad(funct3 uint8) Op {
	switch funct3 {
	case 0x0:
		return OpLB
	case 0x1:
		return OpLH
	case 0x2:
		return OpLW
	case 0x4:
		return OpLBU
	case 0x5:
		return OpLHU
	}
	return OpUnknown
}

func resolveStore(funct3 uint8) Op {
	switch funct3 {
	case 0x0:
		return OpSB
	case 0x1:
		return OpSH
	case 0x2:
		return OpSW
	}
	return OpUnknown
}

func resolveBranch(funct3 uint8) Op {
	switch funct3 {
	case 0x0:
		return OpBEQ
	case 0x1:
		return OpBNE
	case 0x4:
		return OpBLT
	case 0x5:
		return OpBGE
	case 0x6:
		return OpBLTU
	case 0x7:
		return OpBGEU
	}
	return OpUnknown
}
