// Package ids provides opaque identifier generation and monotonic
// timestamp helpers shared by every store in the orchestration runtime.
package ids

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter disambiguates IDs minted within the same nanosecond.
var seqCounter uint64

// New returns an opaque ID prefixed with kind, e.g. "task_3fa9c1e2".
func New(kind string) string {
	u := uuid.New().String()
	return kind + "_" + strings.ReplaceAll(u[:8], "-", "")
}

// NewLong returns a full-length opaque ID prefixed with kind, for entities
// that benefit from a lower collision probability (e.g. long-lived agents).
func NewLong(kind string) string {
	return kind + "_" + uuid.New().String()
}

// Clock abstracts time so dispatch logic can be driven by a fake clock
// in tests without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sequence returns a process-wide monotonically increasing counter, useful
// for breaking ties between events minted in the same instant (insertion
// order for priority ties, FIFO ordering within an event bus ring buffer).
func Sequence() uint64 {
	return atomic.AddUint64(&seqCounter, 1)
}

// EventID mints an identifier for an event envelope: "<unixnano>-<seq>",
// mirroring the teacher's events.generateEventID scheme.
func EventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), Sequence())
}
