package idx

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// HexSize is the length of a NewHex identifier (128 bits, hex encoded).
const HexSize = 32

// ErrInvalidHex reports a malformed hex identifier.
var ErrInvalidHex = errors.New("idx: invalid hex id")

var (
	globalOnce sync.Once
	global     *generator
)

// generator is a tool to safely generate ULIDs concurrently using a monotonic
// source.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) newAt(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(t), g.entropy)
	return ID(u.String())
}

func initGlobal() {
	src := ulid.Monotonic(rand.Reader, 0) // Max Monotonic Window
	global = &generator{entropy: src}
}

// New returns a new lexicographically sortable ULID-based ID using the
// current time in UTC and a monotonic entropy source. Used for client ids and
// request ids where ordering is useful.
func New() ID {
	globalOnce.Do(initGlobal)
	return global.newAt(time.Now().UTC())
}

// NewHex returns an opaque 128-bit identifier as 32 lowercase hex characters.
// It is a random (version 4) UUID, giving 122 bits of entropy from
// crypto/rand, so concurrent callers can generate ids without coordination.
func NewHex() (ID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return Zero, err
	}
	return ID(hex.EncodeToString(u[:])), nil
}

// ParseHex validates a NewHex identifier.
func ParseHex(s string) (ID, error) {
	if len(s) != HexSize || strings.ToLower(s) != s {
		return Zero, ErrInvalidHex
	}
	if _, err := hex.DecodeString(s); err != nil {
		return Zero, ErrInvalidHex
	}
	return ID(s), nil
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }
