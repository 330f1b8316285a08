// Package emu provides functional RV32I emulation.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// RegFile represents the RV32I register file.
// It contains 32 general-purpose registers (x0-x31) and the program counter.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hardwired to zero: reads through ReadReg always return 0
	// and writes through WriteReg are discarded.
	X [NumRegs]uint32

	// PC is the byte address of the next instruction to fetch.
	PC uint32
}

// ReadReg reads a register value. Register 0 returns 0.
// Registers >= 32 return 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = value
}

// Snapshot returns a copy of the architectural register state.
func (r *RegFile) Snapshot() RegFile {
	s := *r
	s.X[0] = 0
	return s
}

// Reset zeroes all registers and the PC.
func (r *RegFile) Reset() {
	*r = RegFile{}
}
