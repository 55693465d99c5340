// Package disk implements the Disk Image Decoder (C1) and the Disk II
// Controller (C2): parsing WOZ2 floppy images, synthesizing WOZ-style
// track streams from raw DSK/ProDOS sector images, and the stepper
// motor / self-sync bit-stream state machine that reads them.
package disk

import (
	"encoding/binary"
	"fmt"
	"math"

	"apple2/internal/apperr"
)

const (
	// MaxTracks is the number of physical tracks this core supports.
	MaxTracks = 35

	wozSignature    = 0x325A4F57 // "WOZ2" read little-endian as a u32
	tmapEntryCount  = 160
	trackEntrySize  = 8
	woz2HeaderBytes = 12
)

// chunk IDs, stored little-endian in the file ("INFO", "TMAP", "TRKS"
// read as little-endian u32).
const (
	chunkINFO = 0x4F464E49
	chunkTMAP = 0x50414D54
	chunkTRKS = 0x534B5254
)

// WozTrack is one revolution's worth of self-sync bit stream: the
// first BitCount bits of Data, MSB-first within each byte, form a
// circular stream.
type WozTrack struct {
	BitCount uint32
	Data     []byte
}

// WozImage is a parsed (or synthesized) WOZ2 floppy image: one
// WozTrack per integer track, 0..34.
type WozImage struct {
	WriteProtected bool
	Tracks         [MaxTracks]WozTrack
}

// ParseWOZ validates and parses a WOZ2 image buffer per
// applesaucefdc.com/woz/reference2, restricted to the subset this core
// supports: 35 integer tracks, 5.25" disk type, boot-sector format != 2.
func ParseWOZ(buf []byte) (*WozImage, error) {
	if len(buf) < woz2HeaderBytes {
		return nil, fmt.Errorf("WOZ buffer too short (%d bytes): %w", len(buf), apperr.ErrMalformedImage)
	}

	signature := binary.LittleEndian.Uint32(buf[0:4])
	highBits := buf[4]
	lfcr := binary.LittleEndian.Uint32(buf[5:9]) & 0x00FFFFFF
	if signature != wozSignature || highBits != 0xFF || lfcr != 0x0A0D0A {
		return nil, fmt.Errorf("not a WOZ2 image: %w", apperr.ErrUnsupportedImage)
	}

	img := &WozImage{}
	seenTMAP := false
	seenTRKS := false

	pos := 12
	for pos+8 <= len(buf) {
		chunkID := binary.LittleEndian.Uint32(buf[pos : pos+4])
		chunkSize := binary.LittleEndian.Uint32(buf[pos+4 : pos+8])
		pos += 8

		if pos+int(chunkSize) > len(buf) {
			return nil, fmt.Errorf("chunk 0x%08X truncated: %w", chunkID, apperr.ErrMalformedImage)
		}
		body := buf[pos : pos+int(chunkSize)]

		switch chunkID {
		case chunkINFO:
			writeProtected, err := parseInfo(body)
			if err != nil {
				return nil, err
			}
			img.WriteProtected = writeProtected
		case chunkTMAP:
			if err := verifyTrackMap(body); err != nil {
				return nil, err
			}
			seenTMAP = true
		case chunkTRKS:
			if err := parseTracks(buf, pos, img); err != nil {
				return nil, err
			}
			seenTRKS = true
		default:
			// Unknown chunk: skip its body and keep walking.
			pos += int(chunkSize)
			continue
		}

		pos += int(chunkSize)
	}

	if !seenTMAP || !seenTRKS {
		return nil, fmt.Errorf("WOZ image missing TMAP or TRKS chunk: %w", apperr.ErrUnsupportedImage)
	}

	return img, nil
}

func parseInfo(body []byte) (writeProtected bool, err error) {
	if len(body) < 42 {
		return false, fmt.Errorf("INFO chunk too short: %w", apperr.ErrMalformedImage)
	}
	version := body[0]
	diskType := body[1]
	wp := body[2]
	bootSectors := body[38]
	supported := binary.LittleEndian.Uint16(body[40:42])
	compatible := supported == 0 || supported&0x3 != 0

	if version != 2 || diskType != 1 || bootSectors == 2 || !compatible {
		return false, fmt.Errorf("unsupported WOZ INFO fields (version=%d disk_type=%d boot_sectors=%d compatible=%v): %w",
			version, diskType, bootSectors, compatible, apperr.ErrUnsupportedImage)
	}
	return wp == 1, nil
}

func verifyTrackMap(body []byte) error {
	if len(body) < tmapEntryCount {
		return fmt.Errorf("TMAP chunk too short: %w", apperr.ErrMalformedImage)
	}
	for i := 0; i < tmapEntryCount; i++ {
		entry := body[i]
		if i >= 140 {
			if entry != 0xFF {
				return fmt.Errorf("WOZ images using more than 35 tracks are not supported: %w", apperr.ErrUnsupportedImage)
			}
			continue
		}
		if i%4 == 0 {
			if entry != byte(i/4) {
				return fmt.Errorf("unsupported WOZ track mapping at slot %d: %w", i, apperr.ErrUnsupportedImage)
			}
		} else if i%2 == 0 && entry != 0xFF {
			return fmt.Errorf("WOZ images using quarter/half tracks are not supported: %w", apperr.ErrUnsupportedImage)
		}
	}
	return nil
}

func parseTracks(fileBuf []byte, bufPtr int, img *WozImage) error {
	for i := 0; i < MaxTracks; i++ {
		offset := bufPtr + i*trackEntrySize
		if offset+trackEntrySize > len(fileBuf) {
			return fmt.Errorf("TRKS chunk truncated at track %d: %w", i, apperr.ErrMalformedImage)
		}
		startingBlock := binary.LittleEndian.Uint16(fileBuf[offset : offset+2])
		bitCount := binary.LittleEndian.Uint32(fileBuf[offset+4 : offset+8])

		blockAddr := int(startingBlock) * 512
		byteCount := int(math.Ceil(float64(bitCount) / 8.0))
		if blockAddr+byteCount > len(fileBuf) {
			return fmt.Errorf("track %d data extends past end of file: %w", i, apperr.ErrMalformedImage)
		}

		data := make([]byte, byteCount)
		copy(data, fileBuf[blockAddr:blockAddr+byteCount])

		img.Tracks[i] = WozTrack{BitCount: bitCount, Data: data}
	}
	return nil
}
