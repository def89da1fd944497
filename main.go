package main

import (
	"fmt"
	"net/http"
	"os"

	"musicat/internal/cast"
	"musicat/internal/index"
	"musicat/internal/logging"
	"musicat/internal/metrics"
	"musicat/internal/middleware"
	"musicat/internal/server"
	"musicat/internal/startup"
	"musicat/internal/thumbnail"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		runServe(os.Args[2], os.Args[3])
	case "cache":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		runCache(os.Args[2], os.Args[3])
	case "cast":
		runCast()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: ")
	fmt.Println("  musicat serve /path/to/music/library /path/to/cache")
	fmt.Println("  musicat cache /path/to/music/library /path/to/cache")
	fmt.Println("  musicat cast")
}

func runServe(libraryDir, cacheDir string) {
	config := startup.LoadConfig()

	ix := buildIndex(libraryDir)
	metrics.SetIndexStats(ix.Len(), len(ix.Albums()), ix.ArtistCount())

	if config.MetricsEnabled {
		go serveMetrics(config.MetricsPort)
	}

	srv := server.New(ix, cacheDir)
	handler := middleware.Metrics()(srv.Handler())
	handler = middleware.Logging()(handler)

	logging.Info("Indexing complete, starting server on port %s.", config.Port)
	if err := http.ListenAndServe(":"+config.Port, handler); err != nil {
		logging.Fatal("Server error: %v", err)
	}
}

func runCache(libraryDir, cacheDir string) {
	config := startup.LoadConfig()

	ix := buildIndex(libraryDir)

	gen := thumbnail.New(cacheDir, thumbnail.EngineFor(config))
	if err := gen.Run(ix); err != nil {
		logging.Fatal("Thumbnail generation failed: %v", err)
	}
}

func runCast() {
	config := startup.LoadConfig()

	if err := cast.Run(config.CastTimeout); err != nil {
		logging.Fatal("Cast discovery failed: %v", err)
	}
}

// buildIndex scans the library and builds the in-memory index, or exits the
// process if the scan fails. A half-built index is never handed out.
func buildIndex(libraryDir string) *index.MemoryIndex {
	ix, err := index.Build(libraryDir, os.Stdout)
	if err != nil {
		logging.Fatal("Failed to build index: %v", err)
	}
	logging.Info("Index has %d tracks.", ix.Len())
	return ix
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logging.Info("Metrics available on port %s.", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logging.Warn("Metrics server error: %v", err)
	}
}
