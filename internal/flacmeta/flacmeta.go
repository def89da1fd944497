// Package flacmeta reads tag metadata and embedded pictures from FLAC
// files without decoding any audio.
//
// Tags and pictures are read through github.com/dhowden/tag; the duration
// comes from the mandatory STREAMINFO block, which the tag library does not
// expose. Callers treat this package as a black box: open a file, get tags
// and optionally the embedded picture back.
package flacmeta

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Picture is an embedded image together with its declared media type.
// The media type is whatever the file claims; it is not validated here.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Metadata holds the tag fields the index needs, plus the stream duration.
type Metadata struct {
	Title           string
	Artist          string
	Album           string
	AlbumArtist     string
	SortAlbumArtist string
	Date            string
	DiscNumber      int
	TrackNumber     int
	DurationSeconds int
}

// ReadTags reads the metadata header of the file at path. Embedded picture
// data is deliberately not extracted; index builds do not need it, and
// skipping it keeps the scan cheap. See ReadPicture.
func ReadTags(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	meta := &Metadata{
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		AlbumArtist: m.AlbumArtist(),
	}
	meta.TrackNumber, _ = m.Track()
	meta.DiscNumber, _ = m.Disc()

	if meta.AlbumArtist == "" {
		meta.AlbumArtist = meta.Artist
	}
	meta.SortAlbumArtist = rawString(m, "albumartistsort", "artistsort")
	if meta.SortAlbumArtist == "" {
		meta.SortAlbumArtist = meta.AlbumArtist
	}

	meta.Date = rawString(m, "originaldate", "date")
	if meta.Date == "" && m.Year() != 0 {
		meta.Date = fmt.Sprintf("%04d", m.Year())
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	rate, samples, err := readStreamInfo(f)
	if err != nil {
		return nil, fmt.Errorf("read streaminfo: %w", err)
	}
	if rate > 0 {
		meta.DurationSeconds = int(samples / uint64(rate))
	}

	return meta, nil
}

// ReadPicture reads the embedded picture of the file at path. It returns
// nil without error when the file has no embedded picture. When a file
// carries several picture blocks the tag library keeps the one it read
// last, which matches the behaviour the cover endpoint documents.
func ReadPicture(path string) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	pic := m.Picture()
	if pic == nil {
		return nil, nil
	}
	return &Picture{MIMEType: pic.MIMEType, Data: pic.Data}, nil
}

// rawString looks up the first matching raw vorbis comment, ignoring key
// case. Sort and date tags have no accessor on the tag.Metadata interface.
func rawString(m tag.Metadata, keys ...string) string {
	raw := m.Raw()
	for _, key := range keys {
		for k, v := range raw {
			if !strings.EqualFold(k, key) {
				continue
			}
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
