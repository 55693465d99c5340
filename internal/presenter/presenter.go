// Package presenter hosts the SDL2 window, renderer, and audio
// device that drive the machine's frame loop and surface its output
// to the user (condensed from the reference's ui.go).
package presenter

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/nfnt/resize"
	"github.com/veandco/go-sdl2/sdl"

	"apple2/internal/input"
	"apple2/internal/machine"
	"apple2/internal/video"
)

const (
	frameWidth  = video.DispWidth
	frameHeight = video.DispHeight
)

// Presenter owns the SDL window/renderer/texture and the host audio
// device, and drives the machine's frame loop.
type Presenter struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audioDev sdl.AudioDeviceID

	machine *machine.Machine
	mapper  *input.Mapper

	scale      int
	frameRate  int
	running    bool
	accelFails bool // set once hardware-accelerated texture copy fails, falling back to software upscaling

	screenshotPath string
}

// New creates a presenter around an already-configured machine.
// LoadCharROM must already have been called on m.
func New(m *machine.Machine, scale, frameRate int) (*Presenter, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	width := int32(frameWidth * scale)
	height := int32(frameHeight * scale)

	window, err := sdl.CreateWindow(
		"Apple ][+ Emulator",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width, height,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, frameWidth, frameHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	audioSpec := sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_F32,
		Channels: 2,
		Samples:  735,
	}
	audioDev, err := sdl.OpenAudioDevice("", false, &audioSpec, nil, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: audio device unavailable: %v\n", err)
		audioDev = 0
	} else {
		sdl.PauseAudioDevice(audioDev, false)
	}

	return &Presenter{
		window:    window,
		renderer:  renderer,
		texture:   texture,
		audioDev:  audioDev,
		machine:   m,
		mapper:    input.NewMapper(),
		scale:     scale,
		frameRate: frameRate,
		running:   true,
	}, nil
}

// SetScreenshotPath arms a one-shot screenshot dump after the next
// rendered frame; empty disables it.
func (p *Presenter) SetScreenshotPath(path string) { p.screenshotPath = path }

// Run drives the presenter's event/frame loop until the window is
// closed or a frame fails to render. Escape resets the machine.
func (p *Presenter) Run() error {
	defer p.Close()

	for p.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			p.handleEvent(event)
		}

		p.machine.RunFrame(p.frameRate)
		p.queueAudio()

		if err := p.renderFrame(); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}

		if p.screenshotPath != "" {
			if err := p.saveScreenshot(p.screenshotPath); err != nil {
				fmt.Fprintf(os.Stderr, "screenshot failed: %v\n", err)
			}
			p.screenshotPath = ""
		}

		sdl.Delay(1)
	}
	return nil
}

func (p *Presenter) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		p.running = false
	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return
		}
		if e.Keysym.Sym == sdl.K_ESCAPE {
			p.machine.Reset()
			return
		}
		mods := sdl.GetModState()
		shift := mods&sdl.KMOD_SHIFT != 0
		ctrl := mods&sdl.KMOD_CTRL != 0
		if latch, ok := p.mapper.MapKey(uint32(e.Keysym.Sym), shift, ctrl); ok {
			p.machine.InputChar(latch)
		}
	}
}

func (p *Presenter) queueAudio() {
	if p.audioDev == 0 {
		return
	}
	samples := make([]float32, 735)
	p.machine.AudioRing().Callback(samples)

	queuedBytes := sdl.GetQueuedAudioSize(p.audioDev)
	maxQueuedBytes := uint32(len(samples) * 2 * 4 * 2)
	if queuedBytes >= maxQueuedBytes {
		return
	}

	stereo := make([]byte, len(samples)*2*4)
	for i, s := range samples {
		b := (*[4]byte)(unsafe.Pointer(&s))
		copy(stereo[i*8:i*8+4], b[:])
		copy(stereo[i*8+4:i*8+8], b[:])
	}
	if err := sdl.QueueAudio(p.audioDev, stereo); err != nil {
		fmt.Fprintf(os.Stderr, "queuing audio: %v\n", err)
	}
}

func (p *Presenter) renderFrame() error {
	pixels := p.machine.DrawFrame(p.frameRate)
	if len(pixels) != frameWidth*frameHeight*3 {
		return fmt.Errorf("frame buffer size mismatch: got %d bytes", len(pixels))
	}

	pitch := frameWidth * 3
	if err := p.texture.Update(nil, unsafe.Pointer(&pixels[0]), pitch); err != nil {
		p.accelFails = true
		return p.renderSoftwareUpscale(pixels)
	}

	p.renderer.Clear()
	dstRect := &sdl.Rect{X: 0, Y: 0, W: int32(frameWidth * p.scale), H: int32(frameHeight * p.scale)}
	if err := p.renderer.Copy(p.texture, nil, dstRect); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	p.renderer.Present()
	return nil
}

// renderSoftwareUpscale is the fallback path when hardware-accelerated
// texture blit fails: it upscales the native frame in software and
// streams the result directly.
func (p *Presenter) renderSoftwareUpscale(pixels []byte) error {
	img := frameToImage(pixels)
	scaled := resize.Resize(uint(frameWidth*p.scale), uint(frameHeight*p.scale), img, resize.NearestNeighbor)

	bounds := scaled.Bounds()
	out := make([]byte, bounds.Dx()*bounds.Dy()*3)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			out[idx] = byte(r >> 8)
			out[idx+1] = byte(g >> 8)
			out[idx+2] = byte(b >> 8)
			idx += 3
		}
	}

	scaledTexture, err := p.renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(bounds.Dx()), int32(bounds.Dy()))
	if err != nil {
		return fmt.Errorf("creating fallback texture: %w", err)
	}
	defer scaledTexture.Destroy()

	if err := scaledTexture.Update(nil, unsafe.Pointer(&out[0]), bounds.Dx()*3); err != nil {
		return fmt.Errorf("updating fallback texture: %w", err)
	}

	p.renderer.Clear()
	if err := p.renderer.Copy(scaledTexture, nil, nil); err != nil {
		return fmt.Errorf("copying fallback texture: %w", err)
	}
	p.renderer.Present()
	return nil
}

// Close releases SDL resources. Safe to call more than once.
func (p *Presenter) Close() {
	if p.audioDev != 0 {
		sdl.CloseAudioDevice(p.audioDev)
		p.audioDev = 0
	}
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
	if p.renderer != nil {
		p.renderer.Destroy()
		p.renderer = nil
	}
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	sdl.Quit()
}
