package index

import (
	"encoding/json"
	"fmt"
	"io"

	"musicat/internal/ids"
	"musicat/internal/player"
)

// The JSON views are assembled by hand so the wire format stays exactly
// the compact shape the web player expects. All free-text fields must go
// through writeJSONString; only it keeps quotes, control characters and
// non-ASCII text from corrupting the surrounding skeleton. Structural text
// is never hand-escaped.

// writeJSONString writes s as a JSON string literal, escaped.
func writeJSONString(w io.Writer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteBriefAlbumJSON writes an album without its track list. Used for
// the full album listing and for the albums of one artist.
func (ix *MemoryIndex) WriteBriefAlbumJSON(w io.Writer, id ids.AlbumID, album Album) error {
	// The index is well-formed, so the artist is always present; the id
	// came from the index itself, not from user input.
	artist, _ := ix.GetArtist(album.Artist)

	if _, err := fmt.Fprintf(w, `{"id":"%s","title":`, id); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(album.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `,"artist_id":"%s","artist":`, album.Artist); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.Name)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"sort_artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.SortName)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, `,"date":"%s"}`, album.Date)
	return err
}

// WriteAlbumsJSON writes the brief listing of every album in the library.
func (ix *MemoryIndex) WriteAlbumsJSON(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, entry := range ix.Albums() {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.WriteBriefAlbumJSON(w, entry.ID, entry.Album); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// WriteAlbumJSON writes the album detail view with its ordered track list.
func (ix *MemoryIndex) WriteAlbumJSON(w io.Writer, id ids.AlbumID, album Album) error {
	artist, _ := ix.GetArtist(album.Artist)

	if _, err := io.WriteString(w, `{"title":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(album.Title)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.Name)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"sort_artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.SortName)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `,"date":"%s","tracks":[`, album.Date); err != nil {
		return err
	}
	for i, entry := range ix.AlbumTracks(id) {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		track := entry.Track
		if _, err := fmt.Fprintf(w, `{"id":"%s","disc_number":%d,"track_number":%d,"title":`,
			entry.ID, track.DiscNumber, track.TrackNumber); err != nil {
			return err
		}
		if err := writeJSONString(w, ix.GetString(track.Title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `,"artist":`); err != nil {
			return err
		}
		if err := writeJSONString(w, ix.GetString(track.Artist)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `,"duration_seconds":%d}`, track.DurationSeconds); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]}")
	return err
}

// WriteArtistJSON writes the artist detail view with its brief albums.
func (ix *MemoryIndex) WriteArtistJSON(w io.Writer, artist Artist, albums []ArtistAlbum) error {
	if _, err := io.WriteString(w, `{"name":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.Name)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"albums":[`); err != nil {
		return err
	}
	for i, pair := range albums {
		album, _ := ix.GetAlbum(pair.Album)
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.WriteBriefAlbumJSON(w, pair.Album, album); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]}")
	return err
}

// WriteSearchResultsJSON bundles artist, album and track summaries.
func (ix *MemoryIndex) WriteSearchResultsJSON(
	w io.Writer,
	artists []ids.ArtistID,
	albums []ids.AlbumID,
	tracks []ids.TrackID,
) error {
	if _, err := io.WriteString(w, `{"artists":[`); err != nil {
		return err
	}
	for i, id := range artists {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.writeSearchArtistJSON(w, id); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `],"albums":[`); err != nil {
		return err
	}
	for i, id := range albums {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.writeSearchAlbumJSON(w, id); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `],"tracks":[`); err != nil {
		return err
	}
	for i, id := range tracks {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.writeSearchTrackJSON(w, id); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]}")
	return err
}

func (ix *MemoryIndex) writeSearchArtistJSON(w io.Writer, id ids.ArtistID) error {
	artist, _ := ix.GetArtist(id)
	if _, err := fmt.Fprintf(w, `{"id":"%s","name":`, id); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.Name)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"albums":[`); err != nil {
		return err
	}
	for i, pair := range ix.AlbumsByArtist(id) {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `"%s"`, pair.Album); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]}")
	return err
}

func (ix *MemoryIndex) writeSearchAlbumJSON(w io.Writer, id ids.AlbumID) error {
	album, _ := ix.GetAlbum(id)
	artist, _ := ix.GetArtist(album.Artist)
	if _, err := fmt.Fprintf(w, `{"id":"%s","title":`, id); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(album.Title)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(artist.Name)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, `,"date":"%s"}`, album.Date)
	return err
}

func (ix *MemoryIndex) writeSearchTrackJSON(w io.Writer, id ids.TrackID) error {
	track, _ := ix.GetTrack(id)
	album, _ := ix.GetAlbum(track.Album)
	if _, err := fmt.Fprintf(w, `{"id":"%s","title":`, id); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(track.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `,"album_id":"%s","album":`, track.Album); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(album.Title)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(track.Artist)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "}")
	return err
}

// WriteQueueJSON writes the play queue snapshot list. Position and buffer
// progress come in as milliseconds and go out as seconds with three
// decimals.
func (ix *MemoryIndex) WriteQueueJSON(w io.Writer, snapshots []player.TrackSnapshot) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, snapshot := range snapshots {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := ix.writeQueuedTrackJSON(w, snapshot); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func (ix *MemoryIndex) writeQueuedTrackJSON(w io.Writer, snapshot player.TrackSnapshot) error {
	// The search result track shape, extended with duration and playback
	// progress.
	track, _ := ix.GetTrack(snapshot.TrackID)
	album, _ := ix.GetAlbum(track.Album)
	if _, err := fmt.Fprintf(w, `{"queue_id":"%s","track_id":"%s","title":`,
		snapshot.QueueID, snapshot.TrackID); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(track.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `,"album_id":"%s","album":`, track.Album); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(album.Title)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"artist":`); err != nil {
		return err
	}
	if err := writeJSONString(w, ix.GetString(track.Artist)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w,
		`,"duration_seconds":%d,"position_seconds":%.3f,"buffered_seconds":%.3f,"is_buffering":%t}`,
		track.DurationSeconds,
		float64(snapshot.PositionMs)*1e-3,
		float64(snapshot.BufferedMs)*1e-3,
		snapshot.IsBuffering)
	return err
}

// WriteVolumeJSON writes the current volume, millibels rendered as dB.
func WriteVolumeJSON(w io.Writer, volume player.Millibel) error {
	_, err := fmt.Fprintf(w, `{"volume_db":%.2f}`, float64(volume)*0.01)
	return err
}
