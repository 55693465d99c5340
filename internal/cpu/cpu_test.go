package cpu

import "testing"

// fakeBus is a flat 64KiB array driving the CPU's read/write
// callbacks directly, with no soft-switch side effects.
type fakeBus struct {
	mem [65536]uint8
}

func (b *fakeBus) read(addr uint16) uint8    { return b.mem[addr] }
func (b *fakeBus) write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU(program []uint8, at uint16) (*CPU, *fakeBus) {
	bus := &fakeBus{}
	copy(bus.mem[at:], program)
	bus.mem[0xFFFC] = uint8(at)
	bus.mem[0xFFFD] = uint8(at >> 8)
	c := New(bus.read, bus.write)
	c.Reset()
	return c, bus
}

func TestResetLoadsVectorAndPowerOnState(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xEA}, 0x0300)
	if c.PC != 0x0300 {
		t.Errorf("PC = 0x%04X, want 0x0300", c.PC)
	}
	if c.SP != 0xFD {
		t.Errorf("SP = 0x%02X, want 0xFD", c.SP)
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x00, 0xA9, 0x80}, 0x0300)
	c.Tick()
	if c.A != 0 || !c.flagSet(flagZ) {
		t.Errorf("after LDA #$00: A=0x%02X Z=%v, want A=0 Z=true", c.A, c.flagSet(flagZ))
	}
	c.Tick()
	if c.A != 0x80 || !c.flagSet(flagN) {
		t.Errorf("after LDA #$80: A=0x%02X N=%v, want A=0x80 N=true", c.A, c.flagSet(flagN))
	}
}

func TestSTAZeroPageWritesAccumulator(t *testing.T) {
	c, bus := newTestCPU([]uint8{0xA9, 0x42, 0x85, 0x10}, 0x0300)
	c.Tick()
	c.Tick()
	if bus.mem[0x10] != 0x42 {
		t.Errorf("mem[0x10] = 0x%02X, want 0x42", bus.mem[0x10])
	}
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x7F, 0x69, 0x01}, 0x0300) // LDA #$7F; ADC #$01
	c.Tick()
	c.Tick()
	if c.A != 0x80 {
		t.Errorf("A = 0x%02X, want 0x80", c.A)
	}
	if !c.flagSet(flagV) {
		t.Error("expected overflow flag set for 0x7F + 0x01")
	}
	if c.flagSet(flagC) {
		t.Error("expected no carry out of 0x7F + 0x01")
	}
}

func TestBranchTakenCrossesPageAddsCycles(t *testing.T) {
	// BEQ forward far enough to cross a page boundary from 0x30F0.
	c, _ := newTestCPU([]uint8{0xF0, 0x20}, 0x30F0)
	c.setFlag(flagZ, true)
	cycles := c.Tick()
	if c.PC != 0x3112 {
		t.Errorf("PC after branch = 0x%04X, want 0x3112", c.PC)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4 for a page-crossing taken branch", cycles)
	}
}

func TestBranchNotTakenCosts2Cycles(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xF0, 0x20}, 0x0300)
	c.setFlag(flagZ, false)
	cycles := c.Tick()
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2 for a not-taken branch", cycles)
	}
	if c.PC != 0x0302 {
		t.Errorf("PC = 0x%04X, want 0x0302 (operand skipped, no jump)", c.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	// JSR $0310; at $0310: RTS
	c, bus := newTestCPU([]uint8{0x20, 0x10, 0x03}, 0x0300)
	bus.mem[0x0310] = 0x60
	c.Tick() // JSR
	if c.PC != 0x0310 {
		t.Fatalf("PC after JSR = 0x%04X, want 0x0310", c.PC)
	}
	c.Tick() // RTS
	if c.PC != 0x0303 {
		t.Errorf("PC after RTS = 0x%04X, want 0x0303", c.PC)
	}
}

func TestStackPushPop(t *testing.T) {
	c, bus := newTestCPU([]uint8{0xA9, 0x55, 0x48, 0xA9, 0x00, 0x68}, 0x0300) // LDA #$55; PHA; LDA #$00; PLA
	startSP := c.SP
	c.Tick() // LDA #$55
	c.Tick() // PHA
	if c.SP != startSP-1 {
		t.Errorf("SP after PHA = 0x%02X, want 0x%02X", c.SP, startSP-1)
	}
	c.Tick() // LDA #$00
	c.Tick() // PLA
	if c.A != 0x55 {
		t.Errorf("A after PLA = 0x%02X, want 0x55", c.A)
	}
	if c.SP != startSP {
		t.Errorf("SP after round trip = 0x%02X, want 0x%02X", c.SP, startSP)
	}
	_ = bus
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, bus := newTestCPU([]uint8{0x6C, 0xFF, 0x30}, 0x0300) // JMP ($30FF)
	bus.mem[0x30FF] = 0x80
	bus.mem[0x3000] = 0x04 // NMOS bug: high byte read from $3000, not $3100
	bus.mem[0x3100] = 0xFF
	c.Tick()
	if c.PC != 0x0480 {
		t.Errorf("PC = 0x%04X, want 0x0480 (page-wrap bug reproduced)", c.PC)
	}
}
