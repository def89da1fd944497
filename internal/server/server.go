// Package server maps HTTP requests onto the immutable music index.
//
// The server holds no mutable state: a request either reads the index or
// the filesystem. Every request is answered with exactly one of a typed
// success body, 400, 404 or 500.
package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"musicat/internal/flacmeta"
	"musicat/internal/ids"
	"musicat/internal/index"
	"musicat/internal/logging"

	"github.com/gorilla/mux"
)

// coverMaxAge is how long clients may cache cover art and thumbnails.
// Identifiers are content-derived, so stale cache entries are harmless.
const coverMaxAge = 30 * 24 * time.Hour

// Server serves the catalog, cover art, thumbnails and raw audio.
type Server struct {
	index    *index.MemoryIndex
	cacheDir string
}

// New returns a server reading from the given index and thumbnail cache
// directory. The index must be fully built; it is never mutated here.
func New(ix *index.MemoryIndex, cacheDir string) *Server {
	return &Server{index: ix, cacheDir: cacheDir}
}

// Handler returns the root handler: a method gate in front of the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/cover/{id}", s.handleCover)
	r.HandleFunc("/thumb/{id}", s.handleThumb)
	r.HandleFunc("/track/{file}", s.handleTrack)
	r.HandleFunc("/album/{id}", s.handleAlbum)
	r.HandleFunc("/albums", s.handleAlbums)
	r.HandleFunc("/artist/{id}", s.handleArtist)
	r.HandleFunc("/search", s.handleSearch)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			badRequest(w, "Expected a GET request.")
			return
		}
		r.ServeHTTP(w, req)
	})
}

// The three response helpers below are shared by every handler. They stay
// deliberately minimal: status, content length, plain text body.

func badRequest(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Length", strconv.Itoa(len(reason)))
	w.WriteHeader(http.StatusBadRequest)
	io.WriteString(w, reason)
}

func notFound(w http.ResponseWriter) {
	const body = "Not Found"
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, body)
}

func internalError(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Length", strconv.Itoa(len(reason)))
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, reason)
}

func expires() string {
	return time.Now().Add(coverMaxAge).UTC().Format(http.TimeFormat)
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	trackID, ok := ids.ParseTrackID(mux.Vars(r)["id"])
	if !ok {
		badRequest(w, "Invalid track id.")
		return
	}
	track, ok := s.index.GetTrack(trackID)
	if !ok {
		notFound(w)
		return
	}
	filename := s.index.GetFilename(track.Filename)

	pic, err := flacmeta.ReadPicture(filename)
	if err != nil {
		internalError(w, "Failed to open flac file.")
		return
	}
	if pic == nil {
		// The file has no embedded cover.
		notFound(w)
		return
	}

	mediaType, _, err := mime.ParseMediaType(pic.MIMEType)
	if err != nil {
		logging.Warn("invalid mime type %q in track %s (%s)", pic.MIMEType, trackID, filename)
		internalError(w, "Invalid mime type.")
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Expires", expires())
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(pic.Data)))
	w.Write(pic.Data)
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	albumID, ok := ids.ParseAlbumID(mux.Vars(r)["id"])
	if !ok {
		badRequest(w, "Invalid album id.")
		return
	}

	// Thumbnails are generated offline by the cache subcommand; a miss
	// here stays a miss.
	f, err := os.Open(filepath.Join(s.cacheDir, albumID.String()+".jpg"))
	if err != nil {
		notFound(w)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		internalError(w, "Failed to read cached thumbnail.")
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Expires", expires())
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	// Track urls are of the form /track/f7c153f2b16dc101.flac.
	file := mux.Vars(r)["file"]
	if !strings.HasSuffix(file, ".flac") {
		badRequest(w, "Expected a path ending in .flac.")
		return
	}
	trackID, ok := ids.ParseTrackID(strings.TrimSuffix(file, ".flac"))
	if !ok {
		badRequest(w, "Invalid track id.")
		return
	}
	track, ok := s.index.GetTrack(trackID)
	if !ok {
		notFound(w)
		return
	}

	// The whole file is read into memory before the response starts.
	// Range requests are deliberately unsupported.
	f, err := os.Open(s.index.GetFilename(track.Filename))
	if err != nil {
		internalError(w, "Failed to open file.")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		internalError(w, "Failed to read file.")
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "audio/flac")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, ok := ids.ParseAlbumID(mux.Vars(r)["id"])
	if !ok {
		badRequest(w, "Invalid album id.")
		return
	}
	album, ok := s.index.GetAlbum(albumID)
	if !ok {
		notFound(w)
		return
	}

	var buf bytes.Buffer
	if err := s.index.WriteAlbumJSON(&buf, albumID, album); err != nil {
		internalError(w, "Failed to write album.")
		return
	}
	writeJSON(w, buf.Bytes())
}

func (s *Server) handleAlbums(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.index.WriteAlbumsJSON(&buf); err != nil {
		internalError(w, "Failed to write albums.")
		return
	}
	writeJSON(w, buf.Bytes())
}

// handleArtist is a placeholder; the artist JSON view exists but the web
// player does not consume it yet.
func (s *Server) handleArtist(w http.ResponseWriter, _ *http.Request) {
	io.WriteString(w, "Artist")
}

// handleSearch is a placeholder, like handleArtist.
func (s *Server) handleSearch(w http.ResponseWriter, _ *http.Request) {
	io.WriteString(w, "Search")
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
