package flacmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var errNotFlac = errors.New("missing fLaC marker")

// readStreamInfo extracts the sample rate and total sample count from the
// STREAMINFO metadata block, which the FLAC format requires to be the first
// block after the stream marker. Only the header is read; no audio frames
// are touched.
func readStreamInfo(r io.Reader) (sampleRate uint32, totalSamples uint64, err error) {
	var marker [4]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return 0, 0, err
	}
	if string(marker[:]) != "fLaC" {
		return 0, 0, errNotFlac
	}

	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, 0, err
	}
	blockType := header[0] & 0x7f
	if blockType != 0 {
		return 0, 0, fmt.Errorf("first metadata block has type %d, want STREAMINFO", blockType)
	}
	length := uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
	if length < 34 {
		return 0, 0, fmt.Errorf("STREAMINFO block is %d bytes, want 34", length)
	}

	var info [34]byte
	if _, err := io.ReadFull(r, info[:]); err != nil {
		return 0, 0, err
	}

	// Bytes 10..17 pack the sample rate (20 bits), channel count (3),
	// bits per sample (5) and total sample count (36).
	sampleRate = uint32(info[10])<<12 | uint32(info[11])<<4 | uint32(info[12])>>4
	totalSamples = uint64(info[13]&0x0f)<<32 | uint64(binary.BigEndian.Uint32(info[14:18]))
	return sampleRate, totalSamples, nil
}
