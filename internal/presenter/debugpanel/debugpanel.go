// Package debugpanel is an optional Fyne window showing the debug
// logger's ring buffer and the debugger's breakpoint/watch list live,
// condensed from the reference's log-viewer panel.
package debugpanel

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"apple2/internal/debug"
)

// Panel is a small Fyne window polling a Logger and Debugger on a
// timer and rendering their current state as plain text lists.
type Panel struct {
	app      fyne.App
	window   fyne.Window
	logger   *debug.Logger
	debugger *debug.Debugger

	logList   *widget.Label
	bpList    *widget.Label
	watchList *widget.Label

	stop chan struct{}
}

// New creates (but does not show) a debug panel over logger and
// debugger. Either may be nil, in which case that section is blank.
func New(logger *debug.Logger, debugger *debug.Debugger) *Panel {
	a := app.New()
	w := a.NewWindow("Debug Panel")

	p := &Panel{
		app:       a,
		window:    w,
		logger:    logger,
		debugger:  debugger,
		logList:   widget.NewLabel(""),
		bpList:    widget.NewLabel(""),
		watchList: widget.NewLabel(""),
		stop:      make(chan struct{}),
	}
	p.logList.Wrapping = fyne.TextWrapWord

	content := container.NewVSplit(
		container.NewVScroll(p.logList),
		container.NewVBox(
			widget.NewLabel("Breakpoints"),
			p.bpList,
			widget.NewLabel("Watches"),
			p.watchList,
		),
	)
	w.SetContent(content)
	w.Resize(fyne.NewSize(480, 360))
	return p
}

// Show displays the window and starts the polling refresh loop in its
// own goroutine; Show itself is non-blocking.
func (p *Panel) Show() {
	go p.refreshLoop()
	p.window.Show()
}

// Run blocks running the Fyne event loop; call from main after Show.
func (p *Panel) Run() {
	p.app.Run()
}

// Close stops the refresh loop and closes the window.
func (p *Panel) Close() {
	close(p.stop)
	p.window.Close()
}

func (p *Panel) refreshLoop() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.refresh()
		case <-p.stop:
			return
		}
	}
}

func (p *Panel) refresh() {
	if p.logger != nil {
		entries := p.logger.GetRecentEntries(200)
		text := ""
		for _, e := range entries {
			text += e.Format() + "\n"
		}
		p.logList.SetText(text)
	}

	if p.debugger != nil {
		bps := p.debugger.GetAllBreakpoints()
		bpText := ""
		for addr, bp := range bps {
			status := "enabled"
			if !bp.Enabled {
				status = "disabled"
			}
			bpText += fmt.Sprintf("$%04X %s hits=%d\n", addr, status, bp.HitCount)
		}
		p.bpList.SetText(bpText)

		watchText := ""
		for i, w := range p.debugger.GetWatches() {
			watchText += fmt.Sprintf("%d: %s = %v (was %v)\n", i, w.Expression, w.Value, w.LastValue)
		}
		p.watchList.SetText(watchText)
	}
}
