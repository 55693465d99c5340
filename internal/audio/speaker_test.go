package audio

import "testing"

// TestSpeakerTogglesOncePerRead covers invariant #9: polarity toggles
// exactly once per touch of any address in 0xC030-0xC03F.
func TestSpeakerTogglesOncePerRead(t *testing.T) {
	s := NewSpeaker()
	initial := s.Polarity()
	for addr := uint16(swSpeakerStart); addr <= swSpeakerEnd; addr++ {
		before := s.Polarity()
		s.HandleSoftSwitch(addr)
		if s.Polarity() == before {
			t.Fatalf("addr 0x%04X: polarity did not toggle", addr)
		}
	}
	// 16 addresses touched: an even count of toggles returns to start.
	if s.Polarity() != initial {
		t.Error("expected polarity to return to its initial value after 16 toggles")
	}
}

func TestSpeakerIgnoresOutOfRangeAddress(t *testing.T) {
	s := NewSpeaker()
	before := s.Polarity()
	s.HandleSoftSwitch(0xC040)
	if s.Polarity() != before {
		t.Error("out-of-range address should not toggle polarity")
	}
}

func TestRingCallbackEmitsSilenceWhenEmpty(t *testing.T) {
	r := NewRing()
	out := make([]float32, 4)
	r.Callback(out)
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0 (silence) on an empty ring", i, v)
		}
	}
}

func TestRingRoundTripsInsertedSamples(t *testing.T) {
	r := NewRing()
	r.InsertPolarities([]bool{true, false, true})

	out := make([]float32, 3)
	r.Callback(out)

	want := []float32{sampleVolume, -sampleVolume, sampleVolume}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
