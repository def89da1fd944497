package index

import (
	"sort"

	"musicat/internal/ids"
	"musicat/internal/intern"
)

// Artist is a distinct album artist in the library.
type Artist struct {
	Name     intern.Handle
	SortName intern.Handle
}

// Album is a distinct release in the library.
type Album struct {
	Title  intern.Handle
	Artist ids.ArtistID
	Date   Date
}

// Track is a single audio file. Its Artist is the track's own credit
// string (which may differ from the album artist, e.g. for featured
// artists); it is deliberately not an artist id.
type Track struct {
	Title           intern.Handle
	Artist          intern.Handle
	Album           ids.AlbumID
	DiscNumber      uint8
	TrackNumber     uint8
	DurationSeconds uint16
	Filename        intern.Handle
}

// TrackEntry pairs a track with its id.
type TrackEntry struct {
	ID    ids.TrackID
	Track Track
}

// AlbumEntry pairs an album with its id.
type AlbumEntry struct {
	ID    ids.AlbumID
	Album Album
}

// ArtistEntry pairs an artist with its id.
type ArtistEntry struct {
	ID     ids.ArtistID
	Artist Artist
}

// ArtistAlbum relates an artist to one of their albums.
type ArtistAlbum struct {
	Artist ids.ArtistID
	Album  ids.AlbumID
}

// MemoryIndex is the immutable in-memory catalog of a music library.
//
// It is fully built before any consumer sees it and never mutated
// afterwards, so concurrent readers need no locking. All entity tables are
// sorted by id; lookups are binary searches.
//
// Tracks are sorted by track id, and a track id embeds its album id in the
// high bits, so iteration over Tracks() visits each album's tracks as one
// contiguous run ordered by (disc, track). The thumbnail batch depends on
// that grouping.
type MemoryIndex struct {
	strings   *intern.Table
	filenames *intern.Table

	artists        []ArtistEntry
	albums         []AlbumEntry
	tracks         []TrackEntry
	albumsByArtist []ArtistAlbum
}

// GetTrack looks up a track by id. Absent ids yield ok == false, never an
// error.
func (ix *MemoryIndex) GetTrack(id ids.TrackID) (Track, bool) {
	i := sort.Search(len(ix.tracks), func(i int) bool {
		return ix.tracks[i].ID >= id
	})
	if i < len(ix.tracks) && ix.tracks[i].ID == id {
		return ix.tracks[i].Track, true
	}
	return Track{}, false
}

// GetAlbum looks up an album by id.
func (ix *MemoryIndex) GetAlbum(id ids.AlbumID) (Album, bool) {
	i := sort.Search(len(ix.albums), func(i int) bool {
		return ix.albums[i].ID >= id
	})
	if i < len(ix.albums) && ix.albums[i].ID == id {
		return ix.albums[i].Album, true
	}
	return Album{}, false
}

// GetArtist looks up an artist by id.
func (ix *MemoryIndex) GetArtist(id ids.ArtistID) (Artist, bool) {
	i := sort.Search(len(ix.artists), func(i int) bool {
		return ix.artists[i].ID >= id
	})
	if i < len(ix.artists) && ix.artists[i].ID == id {
		return ix.artists[i].Artist, true
	}
	return Artist{}, false
}

// GetString resolves a name or title handle obtained from this index.
func (ix *MemoryIndex) GetString(h intern.Handle) string {
	return ix.strings.Get(h)
}

// GetFilename resolves a filename handle obtained from this index.
func (ix *MemoryIndex) GetFilename(h intern.Handle) string {
	return ix.filenames.Get(h)
}

// Albums returns every album in the library in construction order. The
// caller must not modify the returned slice.
func (ix *MemoryIndex) Albums() []AlbumEntry {
	return ix.albums
}

// Tracks returns every track in the library in construction order:
// grouped contiguously by album, ordered by (disc, track) within an album.
// The caller must not modify the returned slice.
func (ix *MemoryIndex) Tracks() []TrackEntry {
	return ix.tracks
}

// AlbumTracks returns the album's tracks sorted by (disc number, track
// number). The returned slice aliases the index and must not be modified.
func (ix *MemoryIndex) AlbumTracks(id ids.AlbumID) []TrackEntry {
	// Track ids of an album occupy [id, id+1<<16); see package ids.
	lo := sort.Search(len(ix.tracks), func(i int) bool {
		return uint64(ix.tracks[i].ID) >= uint64(id)
	})
	hi := len(ix.tracks)
	if next := uint64(id) + 1<<16; next != 0 {
		hi = sort.Search(len(ix.tracks), func(i int) bool {
			return uint64(ix.tracks[i].ID) >= next
		})
	}
	return ix.tracks[lo:hi]
}

// AlbumsByArtist returns the (artist, album) pairs for one artist.
func (ix *MemoryIndex) AlbumsByArtist(id ids.ArtistID) []ArtistAlbum {
	lo := sort.Search(len(ix.albumsByArtist), func(i int) bool {
		return ix.albumsByArtist[i].Artist >= id
	})
	hi := sort.Search(len(ix.albumsByArtist), func(i int) bool {
		return ix.albumsByArtist[i].Artist > id
	})
	return ix.albumsByArtist[lo:hi]
}

// Len returns the total number of tracks.
func (ix *MemoryIndex) Len() int {
	return len(ix.tracks)
}

// ArtistCount returns the number of distinct artists.
func (ix *MemoryIndex) ArtistCount() int {
	return len(ix.artists)
}
