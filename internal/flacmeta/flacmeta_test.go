package flacmeta

import (
	"bytes"
	"path/filepath"
	"testing"

	"musicat/internal/flacmeta/flactest"
)

func TestReadTags(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "track.flac")
	flactest.Write(t, path, flactest.File{
		SampleRate:   44100,
		TotalSamples: 44100 * 215,
		Tags: map[string]string{
			"TITLE":           "Everything in Its Right Place",
			"ARTIST":          "Radiohead",
			"ALBUM":           "Kid A",
			"ALBUMARTIST":     "Radiohead",
			"ALBUMARTISTSORT": "Radiohead",
			"ORIGINALDATE":    "2000-10-02",
			"TRACKNUMBER":     "1",
			"DISCNUMBER":      "1",
		},
	})

	m, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}

	if m.Title != "Everything in Its Right Place" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Artist != "Radiohead" || m.AlbumArtist != "Radiohead" {
		t.Errorf("Artist = %q, AlbumArtist = %q", m.Artist, m.AlbumArtist)
	}
	if m.Album != "Kid A" {
		t.Errorf("Album = %q", m.Album)
	}
	if m.Date != "2000-10-02" {
		t.Errorf("Date = %q, want 2000-10-02", m.Date)
	}
	if m.TrackNumber != 1 || m.DiscNumber != 1 {
		t.Errorf("disc/track = %d/%d, want 1/1", m.DiscNumber, m.TrackNumber)
	}
	if m.DurationSeconds != 215 {
		t.Errorf("DurationSeconds = %d, want 215", m.DurationSeconds)
	}
}

func TestReadTagsFallbacks(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "track.flac")
	flactest.Write(t, path, flactest.File{
		Tags: map[string]string{
			"TITLE":       "Untitled",
			"ARTIST":      "Someone",
			"ALBUM":       "Somewhere",
			"TRACKNUMBER": "2",
		},
	})

	m, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if m.AlbumArtist != "Someone" {
		t.Errorf("AlbumArtist = %q, want fallback to track artist", m.AlbumArtist)
	}
	if m.SortAlbumArtist != "Someone" {
		t.Errorf("SortAlbumArtist = %q, want fallback to album artist", m.SortAlbumArtist)
	}
}

func TestReadPicture(t *testing.T) {
	t.Parallel()

	art := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02, 0x03}
	path := filepath.Join(t.TempDir(), "track.flac")
	flactest.Write(t, path, flactest.File{
		Tags: map[string]string{"TITLE": "x", "ARTIST": "y", "ALBUM": "z"},
		Pictures: []flactest.Picture{
			{MIMEType: "image/jpeg", Data: art},
		},
	})

	pic, err := ReadPicture(path)
	if err != nil {
		t.Fatalf("ReadPicture: %v", err)
	}
	if pic == nil {
		t.Fatal("ReadPicture returned nil picture")
	}
	if pic.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q", pic.MIMEType)
	}
	if !bytes.Equal(pic.Data, art) {
		t.Errorf("picture bytes differ from embedded data")
	}
}

func TestReadPictureAbsent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bare.flac")
	flactest.Write(t, path, flactest.File{
		Tags: map[string]string{"TITLE": "x", "ARTIST": "y", "ALBUM": "z"},
	})

	pic, err := ReadPicture(path)
	if err != nil {
		t.Fatalf("ReadPicture: %v", err)
	}
	if pic != nil {
		t.Fatalf("ReadPicture = %+v, want nil for a file without pictures", pic)
	}
}

func TestReadStreamInfoRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := readStreamInfo(bytes.NewReader([]byte("not a flac stream")))
	if err == nil {
		t.Fatal("readStreamInfo accepted garbage input")
	}
}
