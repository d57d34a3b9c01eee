// Package xid generates prefixed identifiers for stored entities.
// IDs are TEXT primary keys, so the prefix doubles as a readable
// entity tag in logs and API payloads ("tx-...", "cust-...").
package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// New returns "<prefix>-<unixnano>-<8 random hex bytes>". An empty
// prefix falls back to "id"; if the random source fails the hex
// suffix is omitted.
func New(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "id"
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}
