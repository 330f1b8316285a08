package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
		decoder = insts.NewDecoder()
	})

	exec := func(word uint32) uint32 {
		value, err := alu.Execute(decoder.Decode(word))
		Expect(err).NotTo(HaveOccurred())
		return value
	}

	Describe("wraparound", func() {
		It("should wrap ADD at 2^32", func() {
			regFile.WriteReg(1, 0xFFFFFFFF)
			regFile.WriteReg(2, 1)

			Expect(exec(add(3, 1, 2))).To(Equal(uint32(0)))
		})

		It("should wrap SUB below zero", func() {
			regFile.WriteReg(2, 1)

			Expect(exec(sub(3, 0, 2))).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should wrap ADDI with a negative immediate", func() {
			Expect(exec(addi(1, 0, -1))).To(Equal(uint32(0xFFFFFFFF)))
		})
	})

	Describe("register-register", func() {
		BeforeEach(func() {
			regFile.WriteReg(1, 0xF0F0F0F0)
			regFile.WriteReg(2, 0x0FF00FF0)
		})

		DescribeTable("funct3 operations",
			func(funct3, funct7 uint8, expected uint32) {
				Expect(exec(rtype(funct3, funct7, 3, 1, 2))).To(Equal(expected))
			},
			Entry("ADD", uint8(0x0), uint8(0x00), uint32(0x00E100E0)),
			Entry("SUB", uint8(0x0), uint8(0x20), uint32(0xE100E100)),
			Entry("XOR", uint8(0x4), uint8(0x00), uint32(0xFF00FF00)),
			Entry("OR", uint8(0x6), uint8(0x00), uint32(0xFFF0FFF0)),
			Entry("AND", uint8(0x7), uint8(0x00), uint32(0x00F000F0)),
		)

		It("should use only the low 5 bits of rs2 as shift amount", func() {
			regFile.WriteReg(1, 0x80000001)
			regFile.WriteReg(2, 33) // shamt 1

			Expect(exec(rtype(0x1, 0x00, 3, 1, 2))).To(Equal(uint32(0x00000002)))
			Expect(exec(rtype(0x5, 0x00, 3, 1, 2))).To(Equal(uint32(0x40000000)))
			Expect(exec(rtype(0x5, 0x20, 3, 1, 2))).To(Equal(uint32(0xC0000000)))
		})

		It("should diverge between SLT and SLTU", func() {
			regFile.WriteReg(1, 0xFFFFFFFF)
			regFile.WriteReg(2, 1)

			Expect(exec(slt(3, 1, 2))).To(Equal(uint32(1)))
			Expect(exec(sltu(3, 1, 2))).To(Equal(uint32(0)))
		})

		It("should return 0 from SLT on equal operands", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 5)

			Expect(exec(slt(3, 1, 2))).To(Equal(uint32(0)))
		})

		It("should reject an undefined funct7", func() {
			_, err := alu.Execute(decoder.Decode(rtype(0x0, 0x01, 3, 1, 2)))

			Expect(err).To(MatchError(emu.ErrInvalidInstruction))
		})
	})

	Describe("register-immediate", func() {
		It("should negate with XORI -1", func() {
			regFile.WriteReg(1, 0x12345678)

			Expect(exec(xori(2, 1, -1))).To(Equal(^uint32(0x12345678)))
		})

		It("should compare SLTIU against the sign-extended immediate as unsigned", func() {
			regFile.WriteReg(1, 0x7FFFFFFF)

			// -1 sign-extends to 0xFFFFFFFF, the largest unsigned value.
			word := insts.EncodeI(insts.OpcodeOpImm, 2, 0x3, 1, -1)
			Expect(exec(word)).To(Equal(uint32(1)))
		})

		It("should compare SLTI as signed", func() {
			regFile.WriteReg(1, 0xFFFFFFFE) // -2

			word := insts.EncodeI(insts.OpcodeOpImm, 2, 0x2, 1, -1)
			Expect(exec(word)).To(Equal(uint32(1)))
		})

		It("should select SRLI and SRAI from the high immediate bits", func() {
			regFile.WriteReg(1, 0x80000000)

			srli := insts.EncodeI(insts.OpcodeOpImm, 2, 0x5, 1, 4)
			srai := insts.EncodeI(insts.OpcodeOpImm, 2, 0x5, 1, 0x400|4)
			Expect(exec(srli)).To(Equal(uint32(0x08000000)))
			Expect(exec(srai)).To(Equal(uint32(0xF8000000)))
		})

		It("should shift SLLI by the low 5 bits of the immediate", func() {
			regFile.WriteReg(1, 1)

			slli := insts.EncodeI(insts.OpcodeOpImm, 2, 0x1, 1, 31)
			Expect(exec(slli)).To(Equal(uint32(0x80000000)))
		})

		It("should apply ORI and ANDI with sign-extended immediates", func() {
			regFile.WriteReg(1, 0x0000FF00)

			ori := insts.EncodeI(insts.OpcodeOpImm, 2, 0x6, 1, -256) // 0xFFFFFF00
			andi := insts.EncodeI(insts.OpcodeOpImm, 2, 0x7, 1, 0x0F0)
			Expect(exec(ori)).To(Equal(uint32(0xFFFFFF00)))
			Expect(exec(andi)).To(Equal(uint32(0x00000000)))
		})
	})

	It("should not write the register file", func() {
		regFile.WriteReg(1, 10)

		exec(addi(1, 1, 5))

		Expect(regFile.ReadReg(1)).To(Equal(uint32(10)))
	})

	It("should reject non-ALU instructions", func() {
		_, err := alu.Execute(decoder.Decode(lw(1, 0, 0)))

		Expect(err).To(MatchError(emu.ErrInvalidInstruction))
	})

	Describe("helpers", func() {
		It("should shift arithmetically", func() {
			Expect(alu.SRA(0x80000000, 31)).To(Equal(uint32(0xFFFFFFFF)))
			Expect(alu.SRL(0x80000000, 31)).To(Equal(uint32(1)))
			Expect(alu.SLL(1, 32)).To(Equal(uint32(1)))
		})

		It("should compare", func() {
			Expect(alu.SLT(0x80000000, 0)).To(Equal(uint32(1)))
			Expect(alu.SLTU(0x80000000, 0)).To(Equal(uint32(0)))
		})
	})
})
