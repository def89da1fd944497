// Package ids defines the stable identifiers for artists, albums and
// tracks, and the rules for deriving them from file metadata.
//
// Identifiers are 64-bit values derived deterministically from tag content,
// so re-indexing an unchanged library yields the same ids. Their textual
// form is a fixed-width 16 character lowercase hexadecimal string.
//
// The album id occupies the high 48 bits of a track id; the low 16 bits
// hold the disc and track number. Sorting tracks by id therefore groups
// them contiguously by album and orders them by (disc, track) within an
// album, which the thumbnail batch and the album track listing rely on.
package ids

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ArtistID identifies an artist within one built index.
type ArtistID uint64

// AlbumID identifies an album within one built index. The low 16 bits are
// always zero.
type AlbumID uint64

// TrackID identifies a track within one built index.
type TrackID uint64

func (id ArtistID) String() string { return formatID(uint64(id)) }
func (id AlbumID) String() string  { return formatID(uint64(id)) }
func (id TrackID) String() string  { return formatID(uint64(id)) }

func formatID(id uint64) string {
	return fmt.Sprintf("%016x", id)
}

// parseID parses the fixed-width hexadecimal form. It reports failure for
// anything that is not exactly 16 hex digits.
func parseID(s string) (uint64, bool) {
	if len(s) != 16 {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseArtistID parses the textual form of an artist id.
func ParseArtistID(s string) (ArtistID, bool) {
	id, ok := parseID(s)
	return ArtistID(id), ok
}

// ParseAlbumID parses the textual form of an album id.
func ParseAlbumID(s string) (AlbumID, bool) {
	id, ok := parseID(s)
	return AlbumID(id), ok
}

// ParseTrackID parses the textual form of a track id.
func ParseTrackID(s string) (TrackID, bool) {
	id, ok := parseID(s)
	return TrackID(id), ok
}

// NewArtistID derives an artist id from the artist's sort name.
func NewArtistID(sortName string) ArtistID {
	return ArtistID(xxhash.Sum64String(sortName))
}

// NewAlbumID derives an album id from the album artist and album title.
// The low 16 bits are cleared to make room for disc and track numbers in
// the track ids of the album.
func NewAlbumID(albumArtist, title string) AlbumID {
	var h xxhash.Digest
	h.Reset()
	h.WriteString(albumArtist)
	h.Write([]byte{0})
	h.WriteString(title)
	return AlbumID(h.Sum64() &^ 0xffff)
}

// NewTrackID derives a track id from the track's album, disc number and
// track number. Disc and track numbers are masked to 8 bits each.
func NewTrackID(album AlbumID, disc, track int) TrackID {
	return TrackID(uint64(album) | uint64(disc&0xff)<<8 | uint64(track&0xff))
}

// Album returns the album id embedded in a track id.
func (id TrackID) Album() AlbumID {
	return AlbumID(uint64(id) &^ 0xffff)
}
