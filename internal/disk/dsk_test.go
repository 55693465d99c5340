package disk

import "testing"

func makeBlankDSK() []byte {
	return make([]byte, dskImageSize)
}

func TestConvertDSKRejectsWrongSize(t *testing.T) {
	if _, err := ConvertDSK(make([]byte, 100), InterleaveDOS33); err == nil {
		t.Error("expected error for undersized DSK image")
	}
}

func TestConvertDSKProducesAllTracks(t *testing.T) {
	img, err := ConvertDSK(makeBlankDSK(), InterleaveDOS33)
	if err != nil {
		t.Fatalf("ConvertDSK: %v", err)
	}
	for i, track := range img.Tracks {
		if track.BitCount == 0 {
			t.Errorf("track %d has zero bit count", i)
		}
		if len(track.Data) != (int(track.BitCount)+7)/8 {
			t.Errorf("track %d data length %d does not match bit count %d", i, len(track.Data), track.BitCount)
		}
	}
}

func TestConvertDSKAddressFieldSelfSync(t *testing.T) {
	data := makeBlankDSK()
	img, err := ConvertDSK(data, InterleaveDOS33)
	if err != nil {
		t.Fatalf("ConvertDSK: %v", err)
	}

	track := img.Tracks[0]
	found := false
	for i := 0; i+2 < len(track.Data); i++ {
		if track.Data[i] == 0xD5 && track.Data[i+1] == 0xAA && track.Data[i+2] == 0x96 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected an address-field prologue (D5 AA 96) in track 0's bit stream")
	}
}

func TestLogicalSectorDOS33BoundaryCase(t *testing.T) {
	if got := logicalSector(15, InterleaveDOS33); got != 15 {
		t.Errorf("physical sector 15 must map to logical 15, got %d", got)
	}
	if got := logicalSector(0, InterleaveDOS33); got != 0 {
		t.Errorf("physical sector 0 must map to logical 0, got %d", got)
	}
}

func TestLogicalSectorProDOSDiffersFromDOS33(t *testing.T) {
	same := true
	for i := 0; i < numSectors; i++ {
		if logicalSector(i, InterleaveDOS33) != logicalSector(i, InterleaveProDOS) {
			same = false
			break
		}
	}
	if same {
		t.Error("ProDOS and DOS 3.3 interleave tables should not be identical")
	}
}

func TestConvert62BytesAreValidNibbles(t *testing.T) {
	data := make([]byte, bytesPerSector)
	for i := range data {
		data[i] = byte(i)
	}
	gcr := convert62(data)
	for _, b := range gcr {
		if b < 0x96 {
			t.Errorf("GCR byte 0x%02X outside valid nibble range", b)
		}
	}
}
