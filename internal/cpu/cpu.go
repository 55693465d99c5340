// Package cpu is a 6502 interpreter: the external collaborator the
// emulation core's machine package drives through read/write
// callbacks (reset, tick, reset-vector fetch). It has no knowledge of
// soft switches, banked RAM, or any other Apple II concept — it only
// knows 6502 registers, addressing modes, and the opcode table.
package cpu

// ReadFunc and WriteFunc are the bus callbacks the CPU is constructed
// with. Every call already appends a bus cycle record on the other
// side of the callback; the CPU itself tracks no cycle list.
type ReadFunc func(addr uint16) uint8
type WriteFunc func(addr uint16, value uint8)

// Status register bits.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always set
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// CPU is a NMOS 6502 register set plus an opcode dispatcher. Decimal
// mode is accepted (SED/CLD toggle the D flag) but ADC/SBC always
// compute in binary; Apple ][+ firmware and Applesoft do not depend on
// BCD arithmetic for boot or display.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	read  ReadFunc
	write WriteFunc
}

// New creates a 6502 bound to the given bus callbacks. Call Reset
// before the first Tick to load the reset vector.
func New(read ReadFunc, write WriteFunc) *CPU {
	return &CPU{read: read, write: write, P: flagU | flagI}
}

// Reset loads PC from the reset vector and puts the CPU in its
// power-on register state.
func (c *CPU) Reset() {
	lo := c.read(vectorReset)
	hi := c.read(vectorReset + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.SP = 0xFD
	c.P = flagU | flagI
	c.A, c.X, c.Y = 0, 0, 0
}

// Tick executes one instruction and returns the cycles it consumed.
func (c *CPU) Tick() uint32 {
	op := c.fetch()
	return c.execute(op)
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

// --- flags ---

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flagSet(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setZN(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

// --- stack ---

func (c *CPU) push(v uint8) {
	c.write(0x0100+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(0x0100 + uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// --- addressing modes ---
// Each returns the effective address; the indexed modes (absX, absY,
// indirectY) also report whether indexing crossed a page, for the
// +1-cycle penalty a handful of read opcodes charge on that.

func (c *CPU) zp() uint16 {
	return uint16(c.fetch())
}

func (c *CPU) zpX() uint16 {
	return uint16(c.fetch()+c.X) & 0xFF
}

func (c *CPU) zpY() uint16 {
	return uint16(c.fetch()+c.Y) & 0xFF
}

func (c *CPU) abs() uint16 {
	return c.fetch16()
}

func (c *CPU) absX() (uint16, bool) {
	base := c.fetch16()
	eff := base + uint16(c.X)
	return eff, base&0xFF00 != eff&0xFF00
}

func (c *CPU) absY() (uint16, bool) {
	base := c.fetch16()
	eff := base + uint16(c.Y)
	return eff, base&0xFF00 != eff&0xFF00
}

// indirect reproduces the NMOS JMP ($xxFF) page-wrap bug: the high
// byte is fetched from the start of the same page, not the next page.
func (c *CPU) indirect(addr uint16) uint16 {
	lo := c.read(addr)
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := c.read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indirectX() uint16 {
	zp := c.fetch() + c.X
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indirectY() (uint16, bool) {
	zp := c.fetch()
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	base := uint16(hi)<<8 | uint16(lo)
	eff := base + uint16(c.Y)
	return eff, base&0xFF00 != eff&0xFF00
}

// --- shared instruction bodies ---

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v)
	if c.flagSet(flagC) {
		sum++
	}
	result := uint8(sum)
	c.setFlag(flagC, sum > 0xFF)
	c.setFlag(flagV, (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(v uint8) {
	c.adc(v ^ 0xFF)
}

func (c *CPU) cmp(reg, v uint8) {
	c.setFlag(flagC, reg >= v)
	c.setZN(reg - v)
}

func (c *CPU) asl(v uint8) uint8 {
	c.setFlag(flagC, v&0x80 != 0)
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.setFlag(flagC, v&0x01 != 0)
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flagSet(flagC) {
		carryIn = 1
	}
	c.setFlag(flagC, v&0x80 != 0)
	v = v<<1 | carryIn
	c.setZN(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flagSet(flagC) {
		carryIn = 0x80
	}
	c.setFlag(flagC, v&0x01 != 0)
	v = v>>1 | carryIn
	c.setZN(v)
	return v
}

func (c *CPU) branch(cond bool) uint32 {
	offset := int8(c.fetch())
	if !cond {
		return 2
	}
	oldPC := c.PC
	c.PC = uint16(int32(c.PC) + int32(offset))
	if oldPC&0xFF00 != c.PC&0xFF00 {
		return 4
	}
	return 3
}
