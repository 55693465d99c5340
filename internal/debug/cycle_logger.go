package debug

import (
	"fmt"
	"os"
	"sync"
)

// CycleKind mirrors memory.CycleKind without importing the memory
// package, the same way the original cycle logger avoided an import
// cycle against its PPU/APU readers.
type CycleKind uint8

const (
	CycleRead CycleKind = iota
	CycleWrite
)

func (k CycleKind) String() string {
	if k == CycleWrite {
		return "W"
	}
	return "R"
}

// BusCycleSnapshot is one drained memory.Cycle record plus the
// dispatch target the machine routed it to, for cycle-by-cycle
// tracing of invariant #1 (the cycle list is drained exactly once per
// instruction, in issue order).
type BusCycleSnapshot struct {
	Address  uint16
	Value    uint8
	Kind     CycleKind
	Dispatch string // e.g. "keyboard", "speaker", "video", "bank-switch", "disk", ""
}

// CycleLogger logs every drained bus cycle to a file, one line per
// cycle, useful for diagnosing soft-switch dispatch ordering bugs.
type CycleLogger struct {
	file         *os.File
	maxCycles    uint64
	startCycle   uint64
	currentCycle uint64
	totalCycles  uint64
	instructions uint64
	enabled      bool
	mu           sync.Mutex
}

// NewCycleLogger creates a new cycle logger.
// maxCycles: maximum number of cycles to log (0 = unlimited).
// startCycle: start logging after this many bus cycles (0 = immediately).
func NewCycleLogger(filename string, maxCycles uint64, startCycle uint64) (*CycleLogger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create cycle log file: %w", err)
	}

	logger := &CycleLogger{
		file:       file,
		maxCycles:  maxCycles,
		startCycle: startCycle,
		enabled:    true,
	}

	fmt.Fprintf(file, "Bus Cycle Debug Log\n")
	fmt.Fprintf(file, "====================\n\n")
	if startCycle > 0 {
		fmt.Fprintf(file, "Start cycle offset: %d\n", startCycle)
	}
	if maxCycles > 0 {
		fmt.Fprintf(file, "Max cycles to log: %d\n", maxCycles)
	}
	fmt.Fprintf(file, "\nFormat: instr | cycle | R/W | addr | value | dispatch\n\n")

	return logger, nil
}

// LogInstruction logs every bus cycle produced by one CPU instruction,
// in the order they were appended — this is the drain point the
// machine calls once per instruction, never more, never less.
func (c *CycleLogger) LogInstruction(cycles []BusCycleSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}
	c.instructions++

	for _, cyc := range cycles {
		c.totalCycles++
		if c.totalCycles <= c.startCycle {
			continue
		}
		if c.maxCycles > 0 && c.currentCycle >= c.maxCycles {
			c.enabled = false
			return
		}
		c.currentCycle++

		dispatch := cyc.Dispatch
		if dispatch == "" {
			dispatch = "-"
		}
		fmt.Fprintf(c.file, "instr %8d | cycle %10d | %s | $%04X | $%02X | %s\n",
			c.instructions, c.totalCycles, cyc.Kind, cyc.Address, cyc.Value, dispatch)
	}
}

// SetEnabled enables or disables logging
func (c *CycleLogger) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Toggle toggles logging on/off
func (c *CycleLogger) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = !c.enabled
}

// Close closes the log file
func (c *CycleLogger) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = false

	if c.file != nil {
		fmt.Fprintf(c.file, "\n\nLog complete. Total cycles logged: %d\n", c.currentCycle)
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}

// IsEnabled returns whether logging is enabled
func (c *CycleLogger) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && (c.maxCycles == 0 || c.currentCycle < c.maxCycles)
}

// GetStatus returns the current logging status
func (c *CycleLogger) GetStatus() (enabled bool, currentCycle uint64, totalCycles uint64, maxCycles uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled, c.currentCycle, c.totalCycles, c.maxCycles
}
