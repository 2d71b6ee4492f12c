package payments

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const referencePrefix = "GC-"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewReference returns a unique, time-ordered payment reference.
func NewReference() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return referencePrefix + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
