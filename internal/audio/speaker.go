// Package audio implements the Speaker (C5): the single-bit polarity
// toggle driven by soft-switch touches, and the sample ring the
// machine loop feeds once per frame for a host audio callback to
// drain.
package audio

const (
	swSpeakerStart = 0xC030
	swSpeakerEnd   = 0xC03F

	// SampleRate is the PCM output rate the machine loop paces
	// cycles_per_sample against.
	SampleRate = 44100

	ringBufSize  = 1024
	sampleVolume = 0.5
)

// Speaker holds the single boolean polarity state. Any read of
// 0xC030-0xC03F inverts it.
type Speaker struct {
	polarity bool
}

// NewSpeaker creates a speaker at its power-on polarity (low).
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// HandleSoftSwitch toggles polarity if address falls in the speaker's
// soft-switch range.
func (s *Speaker) HandleSoftSwitch(address uint16) {
	if address >= swSpeakerStart && address <= swSpeakerEnd {
		s.polarity = !s.polarity
	}
}

// Polarity returns the speaker's current boolean state.
func (s *Speaker) Polarity() bool { return s.polarity }

// IsSoftSwitchAddress reports whether address is in the speaker's
// soft-switch range.
func IsSoftSwitchAddress(address uint16) bool {
	return address >= swSpeakerStart && address <= swSpeakerEnd
}

// Ring is a fixed-size circular PCM sample buffer: the machine loop
// writes a frame's worth of polarity snapshots (converted to
// +/-sampleVolume) and a host audio callback drains them at the
// device's own pace. Reader and writer indices wrap independently, so
// a reader that catches up to the writer sees silence rather than
// stale data.
type Ring struct {
	buffer  [ringBufSize]float32
	readIdx int
	bufIdx  int
}

// NewRing creates an empty sample ring.
func NewRing() *Ring {
	return &Ring{}
}

// InsertSample appends a single PCM sample, overwriting the oldest
// unread sample once the ring wraps.
func (r *Ring) InsertSample(sample float32) {
	r.buffer[r.bufIdx] = sample
	r.bufIdx = (r.bufIdx + 1) % ringBufSize
}

// InsertPolarities converts a frame's worth of boolean polarity
// snapshots into PCM samples and appends them.
func (r *Ring) InsertPolarities(samples []bool) {
	for _, s := range samples {
		if s {
			r.InsertSample(sampleVolume)
		} else {
			r.InsertSample(-sampleVolume)
		}
	}
}

// Callback fills out with queued samples, emitting silence once the
// reader catches up to the writer — the same behaviour as the
// reference SDL2 audio callback this ring is modeled on.
func (r *Ring) Callback(out []float32) {
	for i := range out {
		if r.readIdx == r.bufIdx {
			out[i] = 0
			continue
		}
		out[i] = r.buffer[r.readIdx]
		r.readIdx = (r.readIdx + 1) % ringBufSize
	}
}
