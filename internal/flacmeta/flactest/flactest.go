// Package flactest synthesizes minimal FLAC files for tests.
//
// The generated files contain a valid stream marker, STREAMINFO block,
// vorbis comment block and optional picture blocks, but no audio frames.
// That is enough for metadata readers, which never touch frames.
package flactest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// File describes the FLAC file to synthesize.
type File struct {
	SampleRate   uint32 // defaults to 44100
	TotalSamples uint64
	Tags         map[string]string // vorbis comments, e.g. "TITLE": "..."
	Pictures     []Picture
}

// Picture is an embedded picture block.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Write renders the file to path, creating parent directories as needed.
func Write(t *testing.T, path string, f File) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for fixture: %v", err)
	}
	if err := os.WriteFile(path, Render(f), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// Render returns the encoded FLAC byte stream.
func Render(f File) []byte {
	if f.SampleRate == 0 {
		f.SampleRate = 44100
	}

	var buf bytes.Buffer
	buf.WriteString("fLaC")

	blocks := []struct {
		typ  byte
		body []byte
	}{
		{0, streamInfo(f.SampleRate, f.TotalSamples)},
		{4, vorbisComment(f.Tags)},
	}
	for _, p := range f.Pictures {
		blocks = append(blocks, struct {
			typ  byte
			body []byte
		}{6, pictureBlock(p)})
	}

	for i, b := range blocks {
		flags := b.typ
		if i == len(blocks)-1 {
			flags |= 0x80 // last-metadata-block
		}
		buf.WriteByte(flags)
		buf.WriteByte(byte(len(b.body) >> 16))
		buf.WriteByte(byte(len(b.body) >> 8))
		buf.WriteByte(byte(len(b.body)))
		buf.Write(b.body)
	}
	return buf.Bytes()
}

func streamInfo(rate uint32, samples uint64) []byte {
	b := make([]byte, 34)
	binary.BigEndian.PutUint16(b[0:2], 4096) // min block size
	binary.BigEndian.PutUint16(b[2:4], 4096) // max block size
	// Frame sizes stay zero (unknown). Then 64 bits packing sample rate,
	// channels (2), bits per sample (16) and the 36-bit sample count.
	b[10] = byte(rate >> 12)
	b[11] = byte(rate >> 4)
	b[12] = byte(rate&0x0f)<<4 | (2-1)<<1 | byte((16-1)>>4)
	b[13] = byte((16-1)&0x0f)<<4 | byte(samples>>32)&0x0f
	binary.BigEndian.PutUint32(b[14:18], uint32(samples))
	// MD5 of the audio data stays zero; nothing reads it.
	return b
}

func vorbisComment(tags map[string]string) []byte {
	var buf bytes.Buffer
	writeLE := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		buf.Write(n[:])
		buf.WriteString(s)
	}
	writeLE("flactest")
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(tags)))
	buf.Write(count[:])
	for k, v := range tags {
		writeLE(k + "=" + v)
	}
	return buf.Bytes()
}

func pictureBlock(p Picture) []byte {
	var buf bytes.Buffer
	writeBE := func(v uint32) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], v)
		buf.Write(n[:])
	}
	writeBE(3) // front cover
	writeBE(uint32(len(p.MIMEType)))
	buf.WriteString(p.MIMEType)
	writeBE(0) // empty description
	writeBE(140)
	writeBE(140)
	writeBE(24)
	writeBE(0)
	writeBE(uint32(len(p.Data)))
	buf.Write(p.Data)
	return buf.Bytes()
}
