// Package player holds the wire-facing types of the playback component.
// Only the snapshot records that the JSON views render live here; the
// player itself is out of scope for this process.
package player

import (
	"fmt"

	"musicat/internal/ids"
)

// QueueID identifies one entry in the play queue. Unlike track ids it is
// not content-derived; the same track can be queued twice.
type QueueID uint64

func (id QueueID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Millibel is a volume in hundredths of a decibel.
type Millibel int32

// TrackSnapshot is a point-in-time view of one queued track.
type TrackSnapshot struct {
	QueueID     QueueID
	TrackID     ids.TrackID
	PositionMs  uint64
	BufferedMs  uint64
	IsBuffering bool
}
