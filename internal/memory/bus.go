// Package memory implements the 64 KiB main store, the Language-Card
// banked RAM overlay, and the bus-cycle trace that the machine drains
// once per CPU instruction.
package memory

import (
	"fmt"

	"apple2/internal/apperr"
	"apple2/internal/debug"
)

const (
	memSize      = 0x10000
	romPageStart = 0xC000
	bankRAMStart = 0xD000
	bankRAMSize  = 0x1000
	extRAMStart  = 0xE000
	extRAMSize   = 0x2000

	firmwareSize  = 12288
	firmwareStart = 0xD000
	diskROMSize   = 256
	diskROMStart  = 0xC600

	// writeEnableCountMax mirrors the reference core's WRITE_EN_COUNT_MAX:
	// it takes exactly two consecutive write-enable-switch reads to arm
	// ram_write (one drops the counter to zero, the next latches it).
	writeEnableCountMax = 1
)

// Soft-switch addresses for Language Card bank selection (0xC080-0xC08B)
// and their +4 aliases (0xC084-0xC08F).
const (
	swBank2RAMReadNoWrite = 0xC080
	swBank2ROMReadWrite   = 0xC081
	swBank2ROMReadNoWrite = 0xC082
	swBank2RAMReadWrite   = 0xC083
	swBank1RAMReadNoWrite = 0xC088
	swBank1ROMReadWrite   = 0xC089
	swBank1ROMReadNoWrite = 0xC08A
	swBank1RAMReadWrite   = 0xC08B
	softSwitchAliasOffset = 0x0004
)

// CycleKind distinguishes a bus read from a bus write.
type CycleKind uint8

const (
	CycleRead CycleKind = iota
	CycleWrite
)

func (k CycleKind) String() string {
	if k == CycleWrite {
		return "write"
	}
	return "read"
}

// Cycle is one bus-cycle record: the address touched, the value seen
// (the byte read, or the byte written), and whether it was a read or
// a write.
type Cycle struct {
	Address uint16
	Value   uint8
	Kind    CycleKind
}

// Bus is the Memory Manager (C3): the 64 KiB main store, the two 4 KiB
// Language Card banks, the shared 8 KiB extended RAM region, and the
// bank-switch latch state. It is the single owner of main memory; the
// disk controller and video compositor borrow it but never hold it
// past the end of a machine-loop step.
type Bus struct {
	main  [memSize]uint8
	bank1 [bankRAMSize]uint8
	bank2 [bankRAMSize]uint8
	ext   [extRAMSize]uint8

	bank2Active  bool
	romRead      bool
	ramWrite     bool
	writeEnCount uint8

	cycles []Cycle

	logger *debug.Logger
}

// NewBus creates a Memory Manager with all RAM zeroed and the
// bank-switch state at its reset values.
func NewBus() *Bus {
	b := &Bus{}
	b.Reset()
	return b
}

// SetLogger attaches a debug logger; nil disables logging.
func (b *Bus) SetLogger(logger *debug.Logger) {
	b.logger = logger
}

// LoadFirmware copies the Apple ][+ main ROM image (12,288 bytes)
// verbatim to 0xD000-0xFFFF of the main store, where it reads back
// whenever rom_read is asserted.
func (b *Bus) LoadFirmware(rom []byte) error {
	if len(rom) != firmwareSize {
		return fmt.Errorf("firmware ROM must be %d bytes, got %d: %w", firmwareSize, len(rom), apperr.ErrConfiguration)
	}
	copy(b.main[firmwareStart:], rom)
	return nil
}

// LoadDiskROM copies the Disk II boot ROM (256 bytes) verbatim to
// 0xC600-0xC6FF.
func (b *Bus) LoadDiskROM(rom []byte) error {
	if len(rom) != diskROMSize {
		return fmt.Errorf("disk ROM must be %d bytes, got %d: %w", diskROMSize, len(rom), apperr.ErrConfiguration)
	}
	copy(b.main[diskROMStart:], rom)
	return nil
}

// Reset restores the bank-switch state to its power-on values: bank 2
// engaged, ROM readable, and — per the reference core — RAM write
// already enabled until the first bank-switch touch changes it.
func (b *Bus) Reset() {
	b.bank2Active = true
	b.romRead = true
	b.ramWrite = true
	b.writeEnCount = writeEnableCountMax
	b.cycles = b.cycles[:0]
}

// Read returns the byte at addr per the Memory Manager's read
// semantics and appends a Cycle record. It never fails: every address
// is defined by the memory map.
func (b *Bus) Read(addr uint16) uint8 {
	value := b.readRaw(addr)
	b.cycles = append(b.cycles, Cycle{Address: addr, Value: value, Kind: CycleRead})
	return value
}

func (b *Bus) readRaw(addr uint16) uint8 {
	if addr < bankRAMStart || b.romRead {
		return b.main[addr]
	}
	if addr < extRAMStart {
		if b.bank2Active {
			return b.bank2[addr-bankRAMStart]
		}
		return b.bank1[addr-bankRAMStart]
	}
	return b.ext[addr-extRAMStart]
}

// Write stores value at addr per the Memory Manager's write semantics
// and appends a Cycle record. Writes to the I/O page (0xC000-0xCFFF)
// are discarded here; their soft-switch side effects are dispatched
// separately by the machine from the drained cycle list.
func (b *Bus) Write(addr uint16, value uint8) {
	b.cycles = append(b.cycles, Cycle{Address: addr, Value: value, Kind: CycleWrite})

	if addr < romPageStart {
		b.main[addr] = value
		return
	}
	if addr < bankRAMStart {
		return // I/O page: side-effect only, handled by dispatch
	}
	if !b.ramWrite {
		return
	}
	if addr < extRAMStart {
		if b.bank2Active {
			b.bank2[addr-bankRAMStart] = value
		} else {
			b.bank1[addr-bankRAMStart] = value
		}
	} else {
		b.ext[addr-extRAMStart] = value
	}
}

// WriteMain writes directly into the flat main store, bypassing bank
// selection and cycle tracing. Used by the disk controller to place a
// decoded data-latch byte at the CPU-addressed RAM cell.
func (b *Bus) WriteMain(addr uint16, value uint8) {
	b.main[addr] = value
}

// ReadMain reads directly from the flat main store, bypassing bank
// selection and cycle tracing. Used by the video compositor, which
// always renders from main RAM regardless of the Language Card state.
func (b *Bus) ReadMain(addr uint16) uint8 {
	return b.main[addr]
}

// DrainCycles returns the cycle list accumulated since the last drain
// and clears it. The machine calls this exactly once per instruction.
func (b *Bus) DrainCycles() []Cycle {
	drained := make([]Cycle, len(b.cycles))
	copy(drained, b.cycles)
	b.cycles = b.cycles[:0]
	return drained
}

// HandleBankSwitch applies the soft-switch side effect of a bus cycle
// at a bank-switch address (0xC080-0xC08F, including the +4 aliases).
// Only read accesses change bank state; a write only resets the
// write-enable arm counter.
func (b *Bus) HandleBankSwitch(addr uint16, kind CycleKind) {
	if kind == CycleWrite {
		b.writeEnCount = writeEnableCountMax
		return
	}

	// The +4 aliases differ from their base switch only in bit 2.
	base := addr &^ softSwitchAliasOffset

	switch base {
	case swBank2RAMReadNoWrite:
		b.readEnable(true, false)
	case swBank2ROMReadWrite:
		b.writeEnable(true, true)
	case swBank2ROMReadNoWrite:
		b.readEnable(true, true)
	case swBank2RAMReadWrite:
		b.writeEnable(true, false)
	case swBank1RAMReadNoWrite:
		b.readEnable(false, false)
	case swBank1ROMReadWrite:
		b.writeEnable(false, true)
	case swBank1ROMReadNoWrite:
		b.readEnable(false, true)
	case swBank1RAMReadWrite:
		b.writeEnable(false, false)
	}

	if b.logger != nil {
		b.logger.LogMemory(debug.LogLevelTrace, "bank switch", map[string]interface{}{
			"addr": addr, "bank2": b.bank2Active, "romRead": b.romRead, "ramWrite": b.ramWrite,
		})
	}
}

func (b *Bus) readEnable(bank2 bool, romRead bool) {
	b.bank2Active = bank2
	b.romRead = romRead
	b.ramWrite = false
	b.writeEnCount = writeEnableCountMax
}

func (b *Bus) writeEnable(bank2 bool, romRead bool) {
	b.bank2Active = bank2
	b.romRead = romRead

	if !b.ramWrite {
		if b.writeEnCount == 0 {
			b.ramWrite = true
			b.writeEnCount = writeEnableCountMax
		} else {
			b.writeEnCount--
		}
	}
}

// RAMWriteEnabled reports whether writes currently reach the banked
// overlay RAM.
func (b *Bus) RAMWriteEnabled() bool { return b.ramWrite }

// Bank2Active reports which Language Card bank is engaged at 0xD000-0xDFFF.
func (b *Bus) Bank2Active() bool { return b.bank2Active }

// ROMRead reports whether ROM (rather than banked RAM) is currently readable.
func (b *Bus) ROMRead() bool { return b.romRead }

// IsBankSwitchAddress reports whether addr falls in the bank-switch
// soft-switch range, 0xC080-0xC08F.
func IsBankSwitchAddress(addr uint16) bool {
	return addr >= 0xC080 && addr <= 0xC08F
}
