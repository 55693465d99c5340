package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"apple2/internal/config"
	"apple2/internal/cpu"
	"apple2/internal/debug"
	"apple2/internal/disk"
	"apple2/internal/machine"
	"apple2/internal/presenter"
	"apple2/internal/presenter/debugpanel"
)

func main() {
	romPath := flag.String("rom", "", "Path to the main firmware ROM (0xD000-0xFFFF, 12288 bytes)")
	diskROMPath := flag.String("disk-rom", "", "Path to the Disk II boot ROM (0xC600-0xC6FF, 256 bytes)")
	charROMPath := flag.String("char-rom", "", "Path to the character generator ROM (2048 bytes)")
	diskPath := flag.String("disk", "", "Path to a disk image (.woz, .dsk, or .po) to mount in slot 6")
	scale := flag.Int("scale", 3, "Display scale (1-6)")
	unlimited := flag.Bool("unlimited", false, "Ignore the profile's frame rate and use the 60 fps default (there is no unthrottled mode)")
	enableLog := flag.Bool("log", false, "Enable logging (disabled by default)")
	logComponent := flag.String("log-component", "", "Restrict logging to one component (cpu, memory, video, audio, disk, input, system); empty enables all")
	configPath := flag.String("config", "", "Optional .toml or .yaml machine profile")
	watchConfig := flag.Bool("watch-config", false, "Reload the config file live when it changes on disk")
	screenshotPath := flag.String("screenshot", "", "Dump the first rendered frame to this BMP path and continue running")
	debugUI := flag.Bool("debug-ui", false, "Open a Fyne window showing the live log and debugger state")
	cycleLogPath := flag.String("cycle-log", "", "Trace every drained bus cycle to this file (diagnostic, off by default)")
	cycleLogMax := flag.Uint64("cycle-log-max", 0, "Stop cycle tracing after this many cycles (0 = unlimited)")
	flag.Parse()

	profile := config.Default()
	if *configPath != "" {
		p, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		profile = p
	}

	if *scale != 3 {
		profile.Scale = *scale
	}
	if *unlimited {
		profile.FrameRate = 0 // replaced by the 60 fps default below
	} else if profile.FrameRate == 0 {
		profile.FrameRate = 60
	}
	if *romPath != "" {
		profile.ROMPath = *romPath
	}
	if *diskROMPath != "" {
		profile.DiskROMPath = *diskROMPath
	}
	if *charROMPath != "" {
		profile.CharROMPath = *charROMPath
	}
	if *diskPath != "" {
		profile.DiskPath = *diskPath
	}
	if flag.NArg() > 0 && profile.DiskPath == "" {
		profile.DiskPath = flag.Arg(0)
	}
	if *enableLog {
		profile.LogEnabled = true
	}
	if *logComponent != "" {
		profile.LogComponent = *logComponent
	}

	if profile.ROMPath == "" {
		fmt.Println("Usage: apple2 -rom <firmware.rom> [-disk <image>] [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var logger *debug.Logger
	if profile.LogEnabled {
		logger = debug.NewLogger(10000)
		setComponentLogging(logger, profile.LogComponent)
	}

	romData, err := os.ReadFile(profile.ROMPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	m := machine.New(func(read func(uint16) uint8, write func(uint16, uint8)) machine.CPU {
		return cpu.New(read, write)
	})
	if logger != nil {
		m.SetLogger(logger)
	}

	if *cycleLogPath != "" {
		cycleLogger, err := debug.NewCycleLogger(*cycleLogPath, *cycleLogMax, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating cycle log: %v\n", err)
			os.Exit(1)
		}
		defer cycleLogger.Close()
		m.SetCycleLogger(cycleLogger)
	}

	if err := m.LoadFirmware(romData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading firmware: %v\n", err)
		os.Exit(1)
	}

	if profile.DiskROMPath != "" {
		diskROMData, err := os.ReadFile(profile.DiskROMPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading disk ROM: %v\n", err)
			os.Exit(1)
		}
		if err := m.LoadDiskROM(diskROMData); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading disk ROM: %v\n", err)
			os.Exit(1)
		}
	}

	if profile.CharROMPath != "" {
		charROMData, err := os.ReadFile(profile.CharROMPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading character ROM: %v\n", err)
			os.Exit(1)
		}
		if err := m.LoadCharROM(charROMData); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading character ROM: %v\n", err)
			os.Exit(1)
		}
	}

	if profile.DiskPath != "" {
		image, err := loadDiskImage(profile.DiskPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading disk image: %v\n", err)
			os.Exit(1)
		}
		m.InsertDisk(image)
	}

	m.Reset()

	if *watchConfig && *configPath != "" {
		watcher, err := config.Watch(*configPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not watch config file: %v\n", err)
		} else {
			defer watcher.Close()
			go func() {
				for p := range watcher.Updates() {
					profile = p
				}
			}()
		}
	}

	frameRate := profile.FrameRate
	if frameRate == 0 {
		frameRate = 60
	}

	pres, err := presenter.New(m, profile.Scale, frameRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating presenter: %v\n", err)
		os.Exit(1)
	}
	if *screenshotPath != "" {
		pres.SetScreenshotPath(*screenshotPath)
	}

	if *debugUI {
		panel := debugpanel.New(logger, debug.NewDebugger())
		panel.Show()
		go func() {
			if err := pres.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Presenter error: %v\n", err)
			}
			panel.Close()
		}()
		panel.Run()
		return
	}

	if err := pres.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Presenter error: %v\n", err)
		os.Exit(1)
	}
}

// setComponentLogging enables every component by default, or just one
// when name names a recognized component.
func setComponentLogging(logger *debug.Logger, name string) {
	all := []debug.Component{
		debug.ComponentCPU, debug.ComponentMemory, debug.ComponentVideo,
		debug.ComponentAudio, debug.ComponentDisk, debug.ComponentInput,
		debug.ComponentSystem,
	}
	if name == "" {
		for _, c := range all {
			logger.SetComponentEnabled(c, true)
		}
		return
	}
	for _, c := range all {
		if strings.EqualFold(string(c), name) {
			logger.SetComponentEnabled(c, true)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Warning: unrecognized log component %q, enabling all\n", name)
	for _, c := range all {
		logger.SetComponentEnabled(c, true)
	}
}

// loadDiskImage parses a .woz image directly or synthesizes one from
// a .dsk/.po sector image, picking the interleave by extension. A
// trailing ":ro" forces write-protect on regardless of what the image
// format itself carries (a .dsk/.po always converts writable
// otherwise).
func loadDiskImage(path string) (*disk.WozImage, error) {
	forceReadOnly := false
	if rest, ok := strings.CutSuffix(path, ":ro"); ok {
		path = rest
		forceReadOnly = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var image *disk.WozImage
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".woz":
		image, err = disk.ParseWOZ(data)
	case ".po":
		image, err = disk.ConvertDSK(data, disk.InterleaveProDOS)
	case ".dsk":
		image, err = disk.ConvertDSK(data, disk.InterleaveDOS33)
	default:
		return nil, fmt.Errorf("unrecognized disk image extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if forceReadOnly {
		image.WriteProtected = true
	}
	return image, nil
}
