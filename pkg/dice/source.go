package dice

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"
)

// Source supplies the randomness behind a roll. Intn must return a value
// in [0, n). Implementations used from multiple goroutines must be safe
// for concurrent use.
type Source interface {
	Intn(n int) int
}

// cryptoSource draws from crypto/rand. It is the production source: no
// shared state, safe for concurrent use, not reproducible.
type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy pool is
		// broken. A stalled roll would wedge the whole session, so
		// degrade to a time-seeded value.
		return mrand.New(mrand.NewSource(time.Now().UnixNano())).Intn(n)
	}
	return int(v.Int64())
}

// NewCryptoSource returns the production randomness source.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// seededSource wraps math/rand for reproducible sequences. Used by the
// replay tooling and anywhere a fixed seed must yield fixed rolls.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. The same seed always
// produces the same sequence of rolls.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// scriptedSource replays a fixed list of die faces, for tests that need
// exact outcomes. Faces are consumed in order and wrap around when
// exhausted.
type scriptedSource struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewScriptedSource returns a Source that produces the given die faces
// in order. A face outside [1, n] is clamped to the die.
func NewScriptedSource(faces ...int) Source {
	if len(faces) == 0 {
		faces = []int{1}
	}
	return &scriptedSource{faces: faces}
}

func (s *scriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next%len(s.faces)]
	s.next++
	if face < 1 {
		face = 1
	}
	if face > n {
		face = n
	}
	return face - 1
}
