package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"musicat/internal/flacmeta"
	"musicat/internal/ids"
	"musicat/internal/intern"

	"golang.org/x/sync/errgroup"
)

// progressInterval is how often scan progress is written. Frequent enough
// to show a cold-cache scan is alive, rare enough not to slow it down.
const progressInterval = 64

// Build scans the library under root and returns a fully populated index.
//
// The scan is fail-fast: the first file whose metadata cannot be read
// aborts the whole build and no index is returned. Progress text is
// written to progress as the scan runs; it is purely observational.
func Build(root string, progress io.Writer) (*MemoryIndex, error) {
	paths, err := discover(root, progress)
	if err != nil {
		return nil, err
	}

	metas, err := extract(paths, progress)
	if err != nil {
		return nil, err
	}

	return assemble(paths, metas)
}

// discover enumerates all .flac files under root, following symbolic
// links. The full path list is collected before any file is opened for
// metadata; enumerating first measures faster than interleaving discovery
// with extraction because it avoids thrashing cold filesystem caches.
//
// Each directory is read in full and closed before its children are
// visited, so the number of simultaneously open directory handles stays
// bounded by the tree depth.
func discover(root string, progress io.Writer) ([]string, error) {
	var paths []string
	visited := make(map[string]bool)

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			// Stat, not Lstat: symlinked files and directories are
			// followed.
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", path, err)
				}
				if visited[resolved] {
					continue
				}
				visited[resolved] = true
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if filepath.Ext(path) != ".flac" {
				continue
			}
			paths = append(paths, path)
			if len(paths)%progressInterval == 0 {
				fmt.Fprintf(progress, "\r%d files discovered", len(paths))
			}
		}
		return nil
	}

	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	visited[resolved] = true
	if err := walk(root); err != nil {
		return nil, err
	}
	fmt.Fprintf(progress, "\r%d files discovered\n", len(paths))
	return paths, nil
}

// extract reads the metadata header of every discovered file. Extraction
// runs on a bounded worker group, but results land in path order, so the
// build stays deterministic. The first failure cancels the remaining work.
func extract(paths []string, progress io.Writer) ([]*flacmeta.Metadata, error) {
	metas := make([]*flacmeta.Metadata, len(paths))

	var done atomic.Int64
	var progressMu sync.Mutex

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m, err := flacmeta.ReadTags(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			metas[i] = m
			if n := done.Add(1); n%progressInterval == 0 {
				progressMu.Lock()
				fmt.Fprintf(progress, "\r%d files processed", n)
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	fmt.Fprintf(progress, "\r%d files processed\n", len(paths))
	return metas, nil
}

// assemble derives ids, interns all text and freezes the entity tables.
func assemble(paths []string, metas []*flacmeta.Metadata) (*MemoryIndex, error) {
	ix := &MemoryIndex{
		strings:   intern.NewTable(),
		filenames: intern.NewTable(),
	}

	artists := make(map[ids.ArtistID]Artist)
	albums := make(map[ids.AlbumID]Album)
	artistAlbums := make(map[ArtistAlbum]bool)

	for i, m := range metas {
		path := paths[i]
		if m.Title == "" || m.Artist == "" || m.Album == "" {
			return nil, fmt.Errorf("%s: missing title, artist or album tag", path)
		}

		var date Date
		if m.Date != "" {
			var ok bool
			date, ok = ParseDate(m.Date)
			if !ok {
				return nil, fmt.Errorf("%s: malformed date tag %q", path, m.Date)
			}
		}

		disc := m.DiscNumber
		if disc == 0 {
			disc = 1
		}

		artistID := ids.NewArtistID(m.SortAlbumArtist)
		albumID := ids.NewAlbumID(m.AlbumArtist, m.Album)
		trackID := ids.NewTrackID(albumID, disc, m.TrackNumber)

		artists[artistID] = Artist{
			Name:     ix.strings.Intern(m.AlbumArtist),
			SortName: ix.strings.Intern(m.SortAlbumArtist),
		}
		albums[albumID] = Album{
			Title:  ix.strings.Intern(m.Album),
			Artist: artistID,
			Date:   date,
		}
		artistAlbums[ArtistAlbum{Artist: artistID, Album: albumID}] = true

		ix.tracks = append(ix.tracks, TrackEntry{
			ID: trackID,
			Track: Track{
				Title:           ix.strings.Intern(m.Title),
				Artist:          ix.strings.Intern(m.Artist),
				Album:           albumID,
				DiscNumber:      uint8(disc),
				TrackNumber:     uint8(m.TrackNumber),
				DurationSeconds: uint16(m.DurationSeconds),
				Filename:        ix.filenames.Intern(path),
			},
		})
	}

	sort.Slice(ix.tracks, func(i, j int) bool {
		return ix.tracks[i].ID < ix.tracks[j].ID
	})
	for i := 1; i < len(ix.tracks); i++ {
		if ix.tracks[i].ID == ix.tracks[i-1].ID {
			return nil, fmt.Errorf("duplicate track id %s: %s and %s",
				ix.tracks[i].ID,
				ix.filenames.Get(ix.tracks[i-1].Track.Filename),
				ix.filenames.Get(ix.tracks[i].Track.Filename))
		}
	}

	for id, album := range albums {
		ix.albums = append(ix.albums, AlbumEntry{ID: id, Album: album})
	}
	sort.Slice(ix.albums, func(i, j int) bool {
		return ix.albums[i].ID < ix.albums[j].ID
	})

	for id, artist := range artists {
		ix.artists = append(ix.artists, ArtistEntry{ID: id, Artist: artist})
	}
	sort.Slice(ix.artists, func(i, j int) bool {
		return ix.artists[i].ID < ix.artists[j].ID
	})

	for pair := range artistAlbums {
		ix.albumsByArtist = append(ix.albumsByArtist, pair)
	}
	sort.Slice(ix.albumsByArtist, func(i, j int) bool {
		a, b := ix.albumsByArtist[i], ix.albumsByArtist[j]
		if a.Artist != b.Artist {
			return a.Artist < b.Artist
		}
		return a.Album < b.Album
	})

	// Referential integrity is established here, once. Consumers may
	// assume that every album's artist and every track's album resolve;
	// a miss after this point is a bug in the build, not a runtime error.
	for _, entry := range ix.albums {
		if _, ok := artists[entry.Album.Artist]; !ok {
			return nil, fmt.Errorf("album %s references unknown artist %s",
				entry.ID, entry.Album.Artist)
		}
	}
	for _, entry := range ix.tracks {
		if _, ok := albums[entry.Track.Album]; !ok {
			return nil, fmt.Errorf("track %s references unknown album %s",
				entry.ID, entry.Track.Album)
		}
	}

	return ix, nil
}
