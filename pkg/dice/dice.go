package dice

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"sync"
)

// Roller produces die rolls.
type Roller interface {
	// Roll returns a uniform value in [1, sides].
	Roll(sides int) int
}

type rngRoller struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

var _ Roller = &rngRoller{}

// NewRoller returns a Roller seeded from the operating system's entropy
// source. It is safe for concurrent use.
func NewRoller() Roller {
	return NewSeededRoller(newSeed())
}

// NewSeededRoller returns a Roller with a fixed seed. Rollers with the
// same seed produce the same sequence of rolls.
func NewSeededRoller(seed int64) Roller {
	return &rngRoller{
		rng: mathrand.New(mathrand.NewSource(seed)),
	}
}

func (r *rngRoller) Roll(sides int) int {
	if sides < 1 {
		return 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

// newSeed draws a seed from crypto/rand. It panics if the entropy source
// is unavailable.
func newSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: failed to read random seed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
