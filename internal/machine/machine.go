// Package machine hosts the CPU, routes soft-switch touches to the
// memory, video, disk, and speaker components, and paces a frame's
// worth of CPU cycles against audio sample generation (C6).
package machine

import (
	"fmt"

	"apple2/internal/apperr"
	"apple2/internal/audio"
	"apple2/internal/debug"
	"apple2/internal/disk"
	"apple2/internal/memory"
	"apple2/internal/video"
)

const (
	// cpuClockSpeed is the Apple ][+'s nominal clock rate in Hz.
	cpuClockSpeed = 1024000

	keyboardLatchAddr  = 0xC000
	strobeClearStart   = 0xC010
	strobeClearEnd     = 0xC01F
	diskSlot           = 6
	diskPeriphIOStart  = 0xC080 + diskSlot*0x10
	diskPeriphIOEnd    = diskPeriphIOStart + 0x0F
)

// CPU is the external 6502 interpreter contract: reset, tick (one
// instruction, returning the cycles it consumed), and reading the
// reset vector from main memory is the interpreter's own concern,
// driven through the read/write callbacks supplied at construction.
type CPU interface {
	Reset()
	Tick() uint32
}

// CPUFactory builds a CPU bound to the bus read/write callbacks New
// hands it. A factory rather than a ready-made CPU resolves the
// self-referential construction problem the CPU contract calls out:
// the CPU needs the bus's callbacks, but the bus lives inside the
// Machine being constructed around the CPU.
type CPUFactory func(read func(uint16) uint8, write func(uint16, uint8)) CPU

// Machine is the Machine component (C6): it owns the CPU, memory bus,
// video compositor, speaker, and the slot-6 Disk II controller, and
// drives a frame's worth of execution.
type Machine struct {
	cpu         CPU
	bus         *memory.Bus
	compositor  *video.Compositor
	speaker     *audio.Speaker
	ring        *audio.Ring
	diskCtrl    *disk.Controller

	logger      *debug.Logger
	cycleLogger *debug.CycleLogger
}

// New creates a Machine and its bus, then builds the CPU through
// factory, wired to that bus's Read/Write.
func New(factory CPUFactory) *Machine {
	bus := memory.NewBus()
	m := &Machine{
		cpu:      factory(bus.Read, bus.Write),
		bus:      bus,
		speaker:  audio.NewSpeaker(),
		ring:     audio.NewRing(),
		diskCtrl: disk.NewController(diskSlot),
	}
	return m
}

// SetLogger attaches a debug logger to the machine and every
// component it owns; nil disables logging throughout.
func (m *Machine) SetLogger(logger *debug.Logger) {
	m.logger = logger
	m.bus.SetLogger(logger)
	m.diskCtrl.SetLogger(logger)
	if m.compositor != nil {
		m.compositor.SetLogger(logger)
	}
}

// SetCycleLogger attaches a cycle-by-cycle bus trace log; nil disables
// it. Intended for diagnosing soft-switch dispatch ordering bugs, not
// for routine use — it writes one line per drained bus cycle.
func (m *Machine) SetCycleLogger(logger *debug.CycleLogger) {
	m.cycleLogger = logger
}

// Bus returns the memory manager, for wiring into the external CPU's
// read/write callbacks.
func (m *Machine) Bus() *memory.Bus { return m.bus }

// AudioRing returns the PCM sample ring a host audio callback drains.
func (m *Machine) AudioRing() *audio.Ring { return m.ring }

// LoadFirmware installs the main ROM image at 0xD000-0xFFFF.
func (m *Machine) LoadFirmware(rom []byte) error {
	return m.bus.LoadFirmware(rom)
}

// LoadDiskROM installs the Disk II boot ROM at 0xC600-0xC6FF.
func (m *Machine) LoadDiskROM(rom []byte) error {
	return m.bus.LoadDiskROM(rom)
}

// LoadCharROM installs the character generator ROM and creates the
// video compositor. Must be called before the first DrawFrame.
func (m *Machine) LoadCharROM(rom []byte) error {
	if len(rom) != 0x800 {
		return fmt.Errorf("character ROM must be 2048 bytes, got %d: %w", len(rom), apperr.ErrConfiguration)
	}
	m.compositor = video.NewCompositor(rom)
	if m.logger != nil {
		m.compositor.SetLogger(m.logger)
	}
	return nil
}

// InsertDisk mounts a parsed or synthesized disk image on the slot-6
// controller's drive 1.
func (m *Machine) InsertDisk(image *disk.WozImage) {
	m.diskCtrl.LoadImage(image)
}

// EjectDisk unmounts the current disk image.
func (m *Machine) EjectDisk() {
	m.diskCtrl.Eject()
}

// InputChar writes a keyboard-latch byte (already shift/ctrl-mapped
// and bit-7-set per the input mapper) directly to 0xC000.
func (m *Machine) InputChar(latch uint8) {
	m.bus.WriteMain(keyboardLatchAddr, latch)
}

// Reset resets the CPU and memory manager to their power-on state.
func (m *Machine) Reset() {
	m.bus.Reset()
	m.cpu.Reset()
}

// RunFrame ticks the CPU until a frame's worth of cycles has elapsed
// at frameRate frames per second, dispatching soft-switch side
// effects after every instruction and pacing speaker-polarity
// snapshots against the audio sample rate.
func (m *Machine) RunFrame(frameRate int) {
	cyclesPerFrame := cpuClockSpeed / frameRate
	cyclesPerSample := cpuClockSpeed / audio.SampleRate

	frameCycles := 0
	sampleCycles := 0

	var frameSamples []bool
	polarityChanged := false
	prevPolarity := m.speaker.Polarity()

	for frameCycles < cyclesPerFrame {
		cycles := int(m.cpu.Tick())
		frameCycles += cycles
		sampleCycles += cycles

		if sampleCycles >= cyclesPerSample {
			sampleCycles -= cyclesPerSample
			polarity := m.speaker.Polarity()
			frameSamples = append(frameSamples, polarity)
			if polarity != prevPolarity {
				polarityChanged = true
			}
			prevPolarity = polarity
		}

		drained := m.bus.DrainCycles()
		var snapshots []debug.BusCycleSnapshot
		for _, cyc := range drained {
			dispatched := m.dispatch(cyc)
			if m.cycleLogger != nil {
				kind := debug.CycleRead
				if cyc.Kind == memory.CycleWrite {
					kind = debug.CycleWrite
				}
				snapshots = append(snapshots, debug.BusCycleSnapshot{
					Address:  cyc.Address,
					Value:    cyc.Value,
					Kind:     kind,
					Dispatch: dispatched,
				})
			}
		}
		if m.cycleLogger != nil && len(snapshots) > 0 {
			m.cycleLogger.LogInstruction(snapshots)
		}
	}

	// Dropping an unchanged-polarity sample vector avoids a DC-level
	// buzz the host audio device would otherwise produce for a
	// constant non-zero signal.
	if polarityChanged {
		m.ring.InsertPolarities(frameSamples)
	}

	m.diskCtrl.HandleMotorOffDelay()
}

// dispatch classifies one drained bus cycle by address range and
// applies its soft-switch side effect, per the machine's dataflow
// contract. The returned label names the component the cycle was
// routed to, for the cycle logger; callers not tracing cycles can
// ignore it.
func (m *Machine) dispatch(cyc memory.Cycle) string {
	addr := cyc.Address

	switch {
	case addr == keyboardLatchAddr:
		// Read-only latch; no side effect beyond the value already
		// returned by the bus read.
		return "keyboard"
	case addr >= strobeClearStart && addr <= strobeClearEnd:
		m.bus.WriteMain(keyboardLatchAddr, m.bus.ReadMain(keyboardLatchAddr)&0x7F)
		return "keyboard"
	case audio.IsSoftSwitchAddress(addr):
		m.speaker.HandleSoftSwitch(addr)
		return "speaker"
	case video.IsSoftSwitchAddress(addr):
		if m.compositor != nil {
			m.compositor.HandleSoftSwitch(addr)
		}
		return "video"
	case memory.IsBankSwitchAddress(addr):
		m.bus.HandleBankSwitch(addr, cyc.Kind)
		return "bank-switch"
	case addr >= diskPeriphIOStart && addr <= diskPeriphIOEnd:
		m.diskCtrl.HandleSoftSwitch(addr, m.bus)
		return "disk"
	}
	return ""
}

// DrawFrame renders the current screen page(s) from main memory.
// LoadCharROM must have been called first.
func (m *Machine) DrawFrame(frameRate int) []byte {
	return m.compositor.Render(frameRate, m.bus)
}
