package cpu

// execute decodes and runs one opcode, returning cycles consumed.
// Page-crossing cycle penalties are added where the 6502 actually
// charges them (indexed reads); indexed writes and RMW instructions
// always take the non-crossed cycle count.
func (c *CPU) execute(op uint8) uint32 {
	switch op {

	// --- LDA ---
	case 0xA9:
		c.A = c.fetch()
		c.setZN(c.A)
		return 2
	case 0xA5:
		c.A = c.read(c.zp())
		c.setZN(c.A)
		return 3
	case 0xB5:
		c.A = c.read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0xAD:
		c.A = c.read(c.abs())
		c.setZN(c.A)
		return 4
	case 0xBD:
		addr, crossed := c.absX()
		c.A = c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0xB9:
		addr, crossed := c.absY()
		c.A = c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0xA1:
		c.A = c.read(c.indirectX())
		c.setZN(c.A)
		return 6
	case 0xB1:
		addr, crossed := c.indirectY()
		c.A = c.read(addr)
		c.setZN(c.A)
		return extra(5, crossed)

	// --- LDX ---
	case 0xA2:
		c.X = c.fetch()
		c.setZN(c.X)
		return 2
	case 0xA6:
		c.X = c.read(c.zp())
		c.setZN(c.X)
		return 3
	case 0xB6:
		c.X = c.read(c.zpY())
		c.setZN(c.X)
		return 4
	case 0xAE:
		c.X = c.read(c.abs())
		c.setZN(c.X)
		return 4
	case 0xBE:
		addr, crossed := c.absY()
		c.X = c.read(addr)
		c.setZN(c.X)
		return extra(4, crossed)

	// --- LDY ---
	case 0xA0:
		c.Y = c.fetch()
		c.setZN(c.Y)
		return 2
	case 0xA4:
		c.Y = c.read(c.zp())
		c.setZN(c.Y)
		return 3
	case 0xB4:
		c.Y = c.read(c.zpX())
		c.setZN(c.Y)
		return 4
	case 0xAC:
		c.Y = c.read(c.abs())
		c.setZN(c.Y)
		return 4
	case 0xBC:
		addr, crossed := c.absX()
		c.Y = c.read(addr)
		c.setZN(c.Y)
		return extra(4, crossed)

	// --- STA ---
	case 0x85:
		c.write(c.zp(), c.A)
		return 3
	case 0x95:
		c.write(c.zpX(), c.A)
		return 4
	case 0x8D:
		c.write(c.abs(), c.A)
		return 4
	case 0x9D:
		addr, _ := c.absX()
		c.write(addr, c.A)
		return 5
	case 0x99:
		addr, _ := c.absY()
		c.write(addr, c.A)
		return 5
	case 0x81:
		c.write(c.indirectX(), c.A)
		return 6
	case 0x91:
		addr, _ := c.indirectY()
		c.write(addr, c.A)
		return 6

	// --- STX / STY ---
	case 0x86:
		c.write(c.zp(), c.X)
		return 3
	case 0x96:
		c.write(c.zpY(), c.X)
		return 4
	case 0x8E:
		c.write(c.abs(), c.X)
		return 4
	case 0x84:
		c.write(c.zp(), c.Y)
		return 3
	case 0x94:
		c.write(c.zpX(), c.Y)
		return 4
	case 0x8C:
		c.write(c.abs(), c.Y)
		return 4

	// --- register transfers ---
	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
		return 2
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
		return 2
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
		return 2
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
		return 2
	case 0xBA: // TSX
		c.X = c.SP
		c.setZN(c.X)
		return 2
	case 0x9A: // TXS
		c.SP = c.X
		return 2

	// --- stack ---
	case 0x48: // PHA
		c.push(c.A)
		return 3
	case 0x08: // PHP
		c.push(c.P | flagB | flagU)
		return 3
	case 0x68: // PLA
		c.A = c.pop()
		c.setZN(c.A)
		return 4
	case 0x28: // PLP
		c.P = (c.pop() &^ flagB) | flagU
		return 4

	// --- logical ---
	case 0x29:
		c.A &= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x25:
		c.A &= c.read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x35:
		c.A &= c.read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x2D:
		c.A &= c.read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x3D:
		addr, crossed := c.absX()
		c.A &= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x39:
		addr, crossed := c.absY()
		c.A &= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x21:
		c.A &= c.read(c.indirectX())
		c.setZN(c.A)
		return 6
	case 0x31:
		addr, crossed := c.indirectY()
		c.A &= c.read(addr)
		c.setZN(c.A)
		return extra(5, crossed)

	case 0x49:
		c.A ^= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x45:
		c.A ^= c.read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x55:
		c.A ^= c.read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x4D:
		c.A ^= c.read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x5D:
		addr, crossed := c.absX()
		c.A ^= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x59:
		addr, crossed := c.absY()
		c.A ^= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x41:
		c.A ^= c.read(c.indirectX())
		c.setZN(c.A)
		return 6
	case 0x51:
		addr, crossed := c.indirectY()
		c.A ^= c.read(addr)
		c.setZN(c.A)
		return extra(5, crossed)

	case 0x09:
		c.A |= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x05:
		c.A |= c.read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x15:
		c.A |= c.read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x0D:
		c.A |= c.read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x1D:
		addr, crossed := c.absX()
		c.A |= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x19:
		addr, crossed := c.absY()
		c.A |= c.read(addr)
		c.setZN(c.A)
		return extra(4, crossed)
	case 0x01:
		c.A |= c.read(c.indirectX())
		c.setZN(c.A)
		return 6
	case 0x11:
		addr, crossed := c.indirectY()
		c.A |= c.read(addr)
		c.setZN(c.A)
		return extra(5, crossed)

	case 0x24: // BIT zp
		v := c.read(c.zp())
		c.setFlag(flagZ, c.A&v == 0)
		c.setFlag(flagV, v&0x40 != 0)
		c.setFlag(flagN, v&0x80 != 0)
		return 3
	case 0x2C: // BIT abs
		v := c.read(c.abs())
		c.setFlag(flagZ, c.A&v == 0)
		c.setFlag(flagV, v&0x40 != 0)
		c.setFlag(flagN, v&0x80 != 0)
		return 4

	// --- arithmetic ---
	case 0x69:
		c.adc(c.fetch())
		return 2
	case 0x65:
		c.adc(c.read(c.zp()))
		return 3
	case 0x75:
		c.adc(c.read(c.zpX()))
		return 4
	case 0x6D:
		c.adc(c.read(c.abs()))
		return 4
	case 0x7D:
		addr, crossed := c.absX()
		c.adc(c.read(addr))
		return extra(4, crossed)
	case 0x79:
		addr, crossed := c.absY()
		c.adc(c.read(addr))
		return extra(4, crossed)
	case 0x61:
		c.adc(c.read(c.indirectX()))
		return 6
	case 0x71:
		addr, crossed := c.indirectY()
		c.adc(c.read(addr))
		return extra(5, crossed)

	case 0xE9:
		c.sbc(c.fetch())
		return 2
	case 0xE5:
		c.sbc(c.read(c.zp()))
		return 3
	case 0xF5:
		c.sbc(c.read(c.zpX()))
		return 4
	case 0xED:
		c.sbc(c.read(c.abs()))
		return 4
	case 0xFD:
		addr, crossed := c.absX()
		c.sbc(c.read(addr))
		return extra(4, crossed)
	case 0xF9:
		addr, crossed := c.absY()
		c.sbc(c.read(addr))
		return extra(4, crossed)
	case 0xE1:
		c.sbc(c.read(c.indirectX()))
		return 6
	case 0xF1:
		addr, crossed := c.indirectY()
		c.sbc(c.read(addr))
		return extra(5, crossed)

	// --- compare ---
	case 0xC9:
		c.cmp(c.A, c.fetch())
		return 2
	case 0xC5:
		c.cmp(c.A, c.read(c.zp()))
		return 3
	case 0xD5:
		c.cmp(c.A, c.read(c.zpX()))
		return 4
	case 0xCD:
		c.cmp(c.A, c.read(c.abs()))
		return 4
	case 0xDD:
		addr, crossed := c.absX()
		c.cmp(c.A, c.read(addr))
		return extra(4, crossed)
	case 0xD9:
		addr, crossed := c.absY()
		c.cmp(c.A, c.read(addr))
		return extra(4, crossed)
	case 0xC1:
		c.cmp(c.A, c.read(c.indirectX()))
		return 6
	case 0xD1:
		addr, crossed := c.indirectY()
		c.cmp(c.A, c.read(addr))
		return extra(5, crossed)

	case 0xE0:
		c.cmp(c.X, c.fetch())
		return 2
	case 0xE4:
		c.cmp(c.X, c.read(c.zp()))
		return 3
	case 0xEC:
		c.cmp(c.X, c.read(c.abs()))
		return 4

	case 0xC0:
		c.cmp(c.Y, c.fetch())
		return 2
	case 0xC4:
		c.cmp(c.Y, c.read(c.zp()))
		return 3
	case 0xCC:
		c.cmp(c.Y, c.read(c.abs()))
		return 4

	// --- increment / decrement ---
	case 0xE6:
		addr := c.zp()
		v := c.read(addr) + 1
		c.write(addr, v)
		c.setZN(v)
		return 5
	case 0xF6:
		addr := c.zpX()
		v := c.read(addr) + 1
		c.write(addr, v)
		c.setZN(v)
		return 6
	case 0xEE:
		addr := c.abs()
		v := c.read(addr) + 1
		c.write(addr, v)
		c.setZN(v)
		return 6
	case 0xFE:
		addr, _ := c.absX()
		v := c.read(addr) + 1
		c.write(addr, v)
		c.setZN(v)
		return 7

	case 0xC6:
		addr := c.zp()
		v := c.read(addr) - 1
		c.write(addr, v)
		c.setZN(v)
		return 5
	case 0xD6:
		addr := c.zpX()
		v := c.read(addr) - 1
		c.write(addr, v)
		c.setZN(v)
		return 6
	case 0xCE:
		addr := c.abs()
		v := c.read(addr) - 1
		c.write(addr, v)
		c.setZN(v)
		return 6
	case 0xDE:
		addr, _ := c.absX()
		v := c.read(addr) - 1
		c.write(addr, v)
		c.setZN(v)
		return 7

	case 0xE8: // INX
		c.X++
		c.setZN(c.X)
		return 2
	case 0xC8: // INY
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0xCA: // DEX
		c.X--
		c.setZN(c.X)
		return 2
	case 0x88: // DEY
		c.Y--
		c.setZN(c.Y)
		return 2

	// --- shifts ---
	case 0x0A:
		c.A = c.asl(c.A)
		return 2
	case 0x06:
		addr := c.zp()
		c.write(addr, c.asl(c.read(addr)))
		return 5
	case 0x16:
		addr := c.zpX()
		c.write(addr, c.asl(c.read(addr)))
		return 6
	case 0x0E:
		addr := c.abs()
		c.write(addr, c.asl(c.read(addr)))
		return 6
	case 0x1E:
		addr, _ := c.absX()
		c.write(addr, c.asl(c.read(addr)))
		return 7

	case 0x4A:
		c.A = c.lsr(c.A)
		return 2
	case 0x46:
		addr := c.zp()
		c.write(addr, c.lsr(c.read(addr)))
		return 5
	case 0x56:
		addr := c.zpX()
		c.write(addr, c.lsr(c.read(addr)))
		return 6
	case 0x4E:
		addr := c.abs()
		c.write(addr, c.lsr(c.read(addr)))
		return 6
	case 0x5E:
		addr, _ := c.absX()
		c.write(addr, c.lsr(c.read(addr)))
		return 7

	case 0x2A:
		c.A = c.rol(c.A)
		return 2
	case 0x26:
		addr := c.zp()
		c.write(addr, c.rol(c.read(addr)))
		return 5
	case 0x36:
		addr := c.zpX()
		c.write(addr, c.rol(c.read(addr)))
		return 6
	case 0x2E:
		addr := c.abs()
		c.write(addr, c.rol(c.read(addr)))
		return 6
	case 0x3E:
		addr, _ := c.absX()
		c.write(addr, c.rol(c.read(addr)))
		return 7

	case 0x6A:
		c.A = c.ror(c.A)
		return 2
	case 0x66:
		addr := c.zp()
		c.write(addr, c.ror(c.read(addr)))
		return 5
	case 0x76:
		addr := c.zpX()
		c.write(addr, c.ror(c.read(addr)))
		return 6
	case 0x6E:
		addr := c.abs()
		c.write(addr, c.ror(c.read(addr)))
		return 6
	case 0x7E:
		addr, _ := c.absX()
		c.write(addr, c.ror(c.read(addr)))
		return 7

	// --- jumps / calls ---
	case 0x4C: // JMP abs
		c.PC = c.abs()
		return 3
	case 0x6C: // JMP (ind)
		c.PC = c.indirect(c.abs())
		return 5
	case 0x20: // JSR
		addr := c.abs()
		c.push16(c.PC - 1)
		c.PC = addr
		return 6
	case 0x60: // RTS
		c.PC = c.pop16() + 1
		return 6

	// --- branches ---
	case 0x90:
		return c.branch(!c.flagSet(flagC))
	case 0xB0:
		return c.branch(c.flagSet(flagC))
	case 0xF0:
		return c.branch(c.flagSet(flagZ))
	case 0x30:
		return c.branch(c.flagSet(flagN))
	case 0xD0:
		return c.branch(!c.flagSet(flagZ))
	case 0x10:
		return c.branch(!c.flagSet(flagN))
	case 0x50:
		return c.branch(!c.flagSet(flagV))
	case 0x70:
		return c.branch(c.flagSet(flagV))

	// --- flag changes ---
	case 0x18:
		c.setFlag(flagC, false)
		return 2
	case 0xD8:
		c.setFlag(flagD, false)
		return 2
	case 0x58:
		c.setFlag(flagI, false)
		return 2
	case 0xB8:
		c.setFlag(flagV, false)
		return 2
	case 0x38:
		c.setFlag(flagC, true)
		return 2
	case 0xF8:
		c.setFlag(flagD, true)
		return 2
	case 0x78:
		c.setFlag(flagI, true)
		return 2

	// --- system ---
	case 0x00: // BRK
		c.PC++
		c.push16(c.PC)
		c.push(c.P | flagB | flagU)
		c.setFlag(flagI, true)
		c.PC = c.indirect(vectorIRQ)
		return 7
	case 0x40: // RTI
		c.P = (c.pop() &^ flagB) | flagU
		c.PC = c.pop16()
		return 6
	case 0xEA: // NOP
		return 2

	default:
		// Unassigned/illegal opcode: treated as a two-cycle NOP rather
		// than panicking, matching the spec's infallible-dispatch
		// posture for anything outside a defined contract.
		return 2
	}
}

func extra(base uint32, crossed bool) uint32 {
	if crossed {
		return base + 1
	}
	return base
}
