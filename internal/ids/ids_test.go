package ids

import (
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		id := TrackID(rng.Uint64())
		s := id.String()
		if len(s) != 16 {
			t.Fatalf("String() = %q, want 16 characters", s)
		}
		parsed, ok := ParseTrackID(s)
		if !ok {
			t.Fatalf("ParseTrackID(%q) failed", s)
		}
		if parsed != id {
			t.Fatalf("ParseTrackID(%q) = %v, want %v", s, parsed, id)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "f7c153f2b16dc10"},
		{"too long", "f7c153f2b16dc1011"},
		{"non-hex", "f7c153f2b16dc10g"},
		{"sign prefix", "+7c153f2b16dc101"},
		{"embedded space", "f7c153f2 16dc101"},
		{"path traversal", "../../../../etc/"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := ParseTrackID(tt.input); ok {
				t.Errorf("ParseTrackID(%q) succeeded, want failure", tt.input)
			}
			if _, ok := ParseAlbumID(tt.input); ok {
				t.Errorf("ParseAlbumID(%q) succeeded, want failure", tt.input)
			}
			if _, ok := ParseArtistID(tt.input); ok {
				t.Errorf("ParseArtistID(%q) succeeded, want failure", tt.input)
			}
		})
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	t.Parallel()

	a1 := NewAlbumID("Radiohead", "OK Computer")
	a2 := NewAlbumID("Radiohead", "OK Computer")
	if a1 != a2 {
		t.Errorf("same inputs derived different album ids: %v vs %v", a1, a2)
	}
	if a1 != NewAlbumID("Radiohead", "OK Computer") {
		t.Error("album id derivation is not stable")
	}
	if uint64(a1)&0xffff != 0 {
		t.Errorf("album id %v has nonzero low bits", a1)
	}

	// The separator between artist and title must matter.
	if NewAlbumID("ab", "c") == NewAlbumID("a", "bc") {
		t.Error("album id ignores the artist/title boundary")
	}
}

func TestTrackIDEmbedsAlbum(t *testing.T) {
	t.Parallel()

	album := NewAlbumID("Boards of Canada", "Geogaddi")
	tid := NewTrackID(album, 1, 7)
	if tid.Album() != album {
		t.Errorf("Album() = %v, want %v", tid.Album(), album)
	}
	if uint64(tid)&0xffff != 1<<8|7 {
		t.Errorf("low bits = %#x, want %#x", uint64(tid)&0xffff, 1<<8|7)
	}

	// Sorting by track id must order by (disc, track) within an album.
	if NewTrackID(album, 1, 2) >= NewTrackID(album, 2, 1) {
		t.Error("disc number does not dominate track number in id order")
	}
	if NewTrackID(album, 1, 1) >= NewTrackID(album, 1, 2) {
		t.Error("track number does not order ids within a disc")
	}
}
