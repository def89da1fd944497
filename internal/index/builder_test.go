package index

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"musicat/internal/flacmeta/flactest"
	"musicat/internal/ids"
)

// writeLibrary renders the given files under a fresh temp dir and returns
// its path.
func writeLibrary(t *testing.T, files map[string]flactest.File) string {
	t.Helper()
	root := t.TempDir()
	for rel, f := range files {
		flactest.Write(t, filepath.Join(root, rel), f)
	}
	return root
}

func trackFile(title, artist, album, date string, disc, track int) flactest.File {
	tags := map[string]string{
		"TITLE":       title,
		"ARTIST":      artist,
		"ALBUM":       album,
		"ALBUMARTIST": artist,
	}
	if date != "" {
		tags["DATE"] = date
	}
	if disc != 0 {
		tags["DISCNUMBER"] = strconv.Itoa(disc)
	}
	if track != 0 {
		tags["TRACKNUMBER"] = strconv.Itoa(track)
	}
	return flactest.File{Tags: tags}
}

func TestBuildSmallLibrary(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"a/01.flac": trackFile("One", "Alpha", "First", "2001-05-01", 1, 1),
		"a/02.flac": trackFile("Two", "Alpha", "First", "2001-05-01", 1, 2),
		"b/01.flac": trackFile("Uno", "Beta", "Second", "1999", 1, 1),
	})

	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	if len(ix.Albums()) != 2 {
		t.Errorf("Albums() has %d entries, want 2", len(ix.Albums()))
	}
	if ix.ArtistCount() != 2 {
		t.Errorf("ArtistCount() = %d, want 2", ix.ArtistCount())
	}

	// Re-indexing the unchanged library yields the same identifiers.
	again, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	for i, entry := range ix.Tracks() {
		if again.Tracks()[i].ID != entry.ID {
			t.Errorf("track %d changed id across builds: %s vs %s",
				i, entry.ID, again.Tracks()[i].ID)
		}
	}
}

func TestBuildFailsFastOnUnreadableFile(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"good.flac": trackFile("One", "Alpha", "First", "2001", 1, 1),
	})
	if err := os.WriteFile(filepath.Join(root, "broken.flac"), []byte("not flac"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(root, io.Discard)
	if err == nil {
		t.Fatal("Build succeeded despite an unreadable file; the scan must be fail-fast")
	}
	if !strings.Contains(err.Error(), "broken.flac") {
		t.Errorf("error %q does not name the offending file", err)
	}
}

func TestBuildRejectsMissingTags(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"untagged.flac": {Tags: map[string]string{"TITLE": "x"}},
	})

	if _, err := Build(root, io.Discard); err == nil {
		t.Fatal("Build accepted a file without artist and album tags")
	}
}

func TestAlbumTracksSorted(t *testing.T) {
	t.Parallel()

	// Deliberately written out of order on disk: disc 1 track 2 first.
	root := writeLibrary(t, map[string]flactest.File{
		"z-second.flac": trackFile("Second Song", "例", "Title, With Comma", "2020-01-01", 1, 2),
		"a-first.flac":  trackFile("First Song", "例", "Title, With Comma", "2020-01-01", 1, 1),
		"d2.flac":       trackFile("Disc Two Opener", "例", "Title, With Comma", "2020-01-01", 2, 1),
	})

	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	albumID := ids.NewAlbumID("例", "Title, With Comma")
	tracks := ix.AlbumTracks(albumID)
	if len(tracks) != 3 {
		t.Fatalf("AlbumTracks returned %d tracks, want 3", len(tracks))
	}
	for i := 1; i < len(tracks); i++ {
		prev, cur := tracks[i-1].Track, tracks[i].Track
		if prev.DiscNumber > cur.DiscNumber ||
			(prev.DiscNumber == cur.DiscNumber && prev.TrackNumber >= cur.TrackNumber) {
			t.Errorf("tracks out of (disc, track) order at %d: %d/%d before %d/%d",
				i, prev.DiscNumber, prev.TrackNumber, cur.DiscNumber, cur.TrackNumber)
		}
	}
	if got := ix.GetString(tracks[0].Track.Title); got != "First Song" {
		t.Errorf("first track title = %q, want %q", got, "First Song")
	}
}

func TestReferentialIntegrity(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"a.flac": trackFile("A", "Alpha", "First", "2001", 1, 1),
		"b.flac": trackFile("B", "Beta", "Second", "2002", 1, 1),
		"c.flac": trackFile("C", "Beta", "Third", "2003", 1, 1),
	})

	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, entry := range ix.Albums() {
		if _, ok := ix.GetArtist(entry.Album.Artist); !ok {
			t.Errorf("album %s references absent artist %s", entry.ID, entry.Album.Artist)
		}
	}
	for _, entry := range ix.Tracks() {
		if _, ok := ix.GetAlbum(entry.Track.Album); !ok {
			t.Errorf("track %s references absent album %s", entry.ID, entry.Track.Album)
		}
	}
}

func TestTracksGroupedByAlbum(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"x1.flac": trackFile("X1", "Alpha", "Ex", "2001", 1, 1),
		"y1.flac": trackFile("Y1", "Alpha", "Why", "2002", 1, 1),
		"x2.flac": trackFile("X2", "Alpha", "Ex", "2001", 1, 2),
		"y2.flac": trackFile("Y2", "Alpha", "Why", "2002", 1, 2),
		"x3.flac": trackFile("X3", "Alpha", "Ex", "2001", 1, 3),
	})

	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The thumbnail batch relies on iteration visiting each album as one
	// contiguous run.
	seen := make(map[ids.AlbumID]bool)
	var prev ids.AlbumID
	for _, entry := range ix.Tracks() {
		album := entry.Track.Album
		if album == prev {
			continue
		}
		if seen[album] {
			t.Fatalf("album %s appears in more than one run", album)
		}
		seen[album] = true
		prev = album
	}
	if len(seen) != 2 {
		t.Errorf("saw %d album runs, want 2", len(seen))
	}
}

func TestGetAbsentIDs(t *testing.T) {
	t.Parallel()

	root := writeLibrary(t, map[string]flactest.File{
		"a.flac": trackFile("A", "Alpha", "First", "2001", 1, 1),
	})
	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := ix.GetTrack(ids.TrackID(0xdeadbeef)); ok {
		t.Error("GetTrack found a track for an absent id")
	}
	if _, ok := ix.GetAlbum(ids.AlbumID(0xdead0000)); ok {
		t.Error("GetAlbum found an album for an absent id")
	}
	if _, ok := ix.GetArtist(ids.ArtistID(0xdeadbeef)); ok {
		t.Error("GetArtist found an artist for an absent id")
	}
	if got := ix.AlbumTracks(ids.AlbumID(0xdead0000)); len(got) != 0 {
		t.Errorf("AlbumTracks for absent album returned %d tracks", len(got))
	}
}

func TestDiscoverFollowsSymlinks(t *testing.T) {
	t.Parallel()

	real := writeLibrary(t, map[string]flactest.File{
		"inner/a.flac": trackFile("A", "Alpha", "First", "2001", 1, 1),
	})
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(real, "inner"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ix, err := Build(root, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d, want 1 track found through the symlink", ix.Len())
	}
}
