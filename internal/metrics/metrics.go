// Package metrics defines the Prometheus metrics of the daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musicat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "musicat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "musicat_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Index metrics. Set once after the build; the index never changes while
// the process lives.
var (
	IndexTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "musicat_index_tracks",
			Help: "Number of tracks in the index",
		},
	)

	IndexAlbums = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "musicat_index_albums",
			Help: "Number of albums in the index",
		},
	)

	IndexArtists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "musicat_index_artists",
			Help: "Number of artists in the index",
		},
	)
)

// Thumbnail batch metrics.
var (
	ThumbnailsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musicat_thumbnails_generated_total",
			Help: "Number of album thumbnails generated",
		},
	)

	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "musicat_thumbnail_duration_seconds",
			Help:    "Time spent generating one thumbnail",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// SetIndexStats records the entity counts of the built index.
func SetIndexStats(tracks, albums, artists int) {
	IndexTracks.Set(float64(tracks))
	IndexAlbums.Set(float64(albums))
	IndexArtists.Set(float64(artists))
}
