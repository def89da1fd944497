// Package thumbnail generates per-album cover thumbnails into the cache
// directory. It is an offline batch step; the server only reads the cache.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	// Cover art in the wild is mostly JPEG and PNG, but GIF, BMP, and
	// WebP show up too.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"musicat/internal/flacmeta"
	"musicat/internal/ids"
	"musicat/internal/index"
	"musicat/internal/intern"
	"musicat/internal/logging"
	"musicat/internal/metrics"
	"musicat/internal/startup"
)

// Engine renders raw embedded cover art into a thumbnail file on disk.
type Engine interface {
	Render(art []byte, outPath string) error
}

// ConvertEngine shells out to ImageMagick. The LAB round-trip makes the
// downscale perceptually uniform, and Cosine keeps edges sharper than
// Lanczos without the ringing of sharper filters. 140x140 is twice the
// display size, for high-DPI screens.
type ConvertEngine struct {
	Bin string
}

func (e *ConvertEngine) Render(art []byte, outPath string) error {
	cmd := exec.Command(e.Bin,
		"-",
		"-colorspace", "LAB",
		"-filter", "Cosine",
		"-distort", "Resize", "140x140!",
		"-colorspace", "sRGB",
		"-quality", "95",
		outPath,
	)
	cmd.Stdin = bytes.NewReader(art)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", e.Bin, err)
	}
	return nil
}

// NativeEngine resizes in-process. It is a fallback for hosts without
// ImageMagick; output differs slightly from ConvertEngine because the
// resample runs in sRGB rather than LAB.
type NativeEngine struct{}

func (NativeEngine) Render(art []byte, outPath string) error {
	img, _, err := image.Decode(bytes.NewReader(art))
	if err != nil {
		return fmt.Errorf("decode cover art: %w", err)
	}
	thumb := imaging.Resize(img, 140, 140, imaging.Lanczos)
	if err := imaging.Save(thumb, outPath, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("save thumbnail: %w", err)
	}
	return nil
}

// EngineFor selects the engine named by the configuration.
func EngineFor(config *startup.Config) Engine {
	if config.ThumbnailEngine == "native" {
		return NativeEngine{}
	}
	return &ConvertEngine{Bin: config.ConvertBin}
}

// Catalog is the slice of the index the generator needs.
type Catalog interface {
	Tracks() []index.TrackEntry
	GetFilename(intern.Handle) string
}

// Generator writes one thumbnail per album into the cache directory.
type Generator struct {
	cacheDir string
	engine   Engine

	readPicture func(path string) (*flacmeta.Picture, error)
}

// New returns a generator writing into cacheDir.
func New(cacheDir string, engine Engine) *Generator {
	return &Generator{
		cacheDir:    cacheDir,
		engine:      engine,
		readPicture: flacmeta.ReadPicture,
	}
}

// Run generates a thumbnail for every album in the catalog. It relies on
// Tracks() grouping each album's tracks contiguously: one render per run
// of equal album ids, taking the art from the run's first track. The
// first error aborts the batch.
func (g *Generator) Run(catalog Catalog) error {
	if err := os.MkdirAll(g.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	var prev ids.AlbumID // zero, which no real album id is
	for _, entry := range catalog.Tracks() {
		if entry.Track.Album == prev {
			continue
		}
		fname := catalog.GetFilename(entry.Track.Filename)
		if err := g.generate(entry.Track.Album, fname); err != nil {
			return fmt.Errorf("album %s (%s): %w", entry.Track.Album, fname, err)
		}
		prev = entry.Track.Album
	}
	return nil
}

func (g *Generator) generate(album ids.AlbumID, fname string) error {
	pic, err := g.readPicture(fname)
	if err != nil {
		return err
	}
	if pic == nil {
		return errors.New("no embedded picture")
	}

	outPath := filepath.Join(g.cacheDir, album.String()+".jpg")
	logging.Info("%s <- %s", outPath, fname)

	start := time.Now()
	if err := g.engine.Render(pic.Data, outPath); err != nil {
		return err
	}
	metrics.ThumbnailsGenerated.Inc()
	metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
	return nil
}
