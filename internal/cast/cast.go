// Package cast discovers Chromecast receivers on the local network with a
// one-shot mDNS browse. It is a standalone diagnostic; nothing else in the
// daemon depends on it.
package cast

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"musicat/internal/logging"
)

const castService = "_googlecast._tcp"

// Run browses for cast receivers until one announces both an address and a
// display name, or until the timeout expires. Receivers without a parseable
// name are logged and skipped.
func Run(timeout time.Duration) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		found := false
		for entry := range entries {
			// Keep draining after a hit so the browser can shut
			// down without blocking on the channel.
			if found {
				continue
			}
			addr := entryAddr(entry)
			if addr == nil {
				continue
			}
			name := nameFromTXT(strings.Join(entry.Text, ""))
			if name == "" {
				logging.Info("Found nameless cast at %s.", addr)
				continue
			}
			logging.Info("Found %s at %s.", name, addr)
			found = true
			cancel()
		}
	}()

	if err := resolver.Browse(ctx, castService, "local.", entries); err != nil {
		return fmt.Errorf("mdns browse: %w", err)
	}
	<-done
	return nil
}

func entryAddr(entry *zeroconf.ServiceEntry) net.IP {
	if len(entry.AddrIPv4) > 0 {
		return entry.AddrIPv4[0]
	}
	if len(entry.AddrIPv6) > 0 {
		return entry.AddrIPv6[0]
	}
	return nil
}

// nameFromTXT pulls the friendly name out of the concatenated TXT record
// text. The record holds `key=value` pairs (`fn=` is the name, `ca=` the
// capability bitmask), but the pair boundaries do not survive
// concatenation, so this slices between the two known markers instead of
// decoding key-value pairs. It returns "" when either marker is missing.
func nameFromTXT(txt string) string {
	i := strings.Index(txt, "fn=")
	if i < 0 {
		return ""
	}
	rest := txt[i+len("fn="):]
	j := strings.Index(rest, "ca=")
	if j < 0 {
		return ""
	}
	return rest[:j]
}
