package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Encoder", func() {
	It("should encode ADD x3, x1, x2", func() {
		Expect(insts.EncodeR(insts.OpcodeOp, 3, 0x0, 1, 2, 0x00)).
			To(Equal(uint32(0x002081B3)))
	})

	It("should encode SUB x4, x3, x2", func() {
		Expect(insts.EncodeR(insts.OpcodeOp, 4, 0x0, 3, 2, 0x20)).
			To(Equal(uint32(0x40218233)))
	})

	It("should encode ADDI with a negative immediate", func() {
		Expect(insts.EncodeI(insts.OpcodeOpImm, 1, 0x0, 0, -1)).
			To(Equal(uint32(0xFFF00093)))
	})

	It("should split the store immediate", func() {
		Expect(insts.EncodeS(insts.OpcodeStore, 0x2, 1, 2, 8)).
			To(Equal(uint32(0x0020A423)))
		Expect(insts.EncodeS(insts.OpcodeStore, 0x2, 1, 2, -4)).
			To(Equal(uint32(0xFE20AE23)))
	})

	It("should scramble the branch immediate", func() {
		Expect(insts.EncodeB(insts.OpcodeBranch, 0x0, 1, 2, 8)).
			To(Equal(uint32(0x00208463)))
		Expect(insts.EncodeB(insts.OpcodeBranch, 0x1, 1, 2, -8)).
			To(Equal(uint32(0xFE209CE3)))
	})

	It("should encode upper immediates", func() {
		Expect(insts.EncodeU(insts.OpcodeLUI, 5, 0x12345)).
			To(Equal(uint32(0x123452B7)))
		Expect(insts.EncodeU(insts.OpcodeAUIPC, 1, 0xFFFFF)).
			To(Equal(uint32(0xFFFFF097)))
	})

	It("should scramble the jump immediate", func() {
		Expect(insts.EncodeJ(insts.OpcodeJAL, 1, 8)).
			To(Equal(uint32(0x008000EF)))
		Expect(insts.EncodeJ(insts.OpcodeJAL, 0, -4)).
			To(Equal(uint32(0xFFDFF06F)))
	})

	It("should mask out-of-range fields", func() {
		Expect(insts.EncodeR(insts.OpcodeOp, 0xFF, 0, 0, 0, 0)).
			To(Equal(insts.EncodeR(insts.OpcodeOp, 31, 0, 0, 0, 0)))
		Expect(insts.EncodeU(insts.OpcodeLUI, 1, 0x123456)).
			To(Equal(insts.EncodeU(insts.OpcodeLUI, 1, 0x23456)))
	})
})
