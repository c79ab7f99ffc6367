package arena

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is a read-only copy of the arena state. Its JSON form is the
// persisted-state format.
type Snapshot struct {
	Tick     int     `json:"tick"`
	GridSize float64 `json:"grid_size"`
	Bodies   []Body  `json:"bodies"`
}

// Mobile returns the non-static bodies in arena order.
func (s Snapshot) Mobile() []Body {
	out := make([]Body, 0, 2)
	for _, b := range s.Bodies {
		if !b.Static {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the first body of kind k.
func (s Snapshot) Find(k Kind) (Body, bool) {
	for _, b := range s.Bodies {
		if b.Kind == k {
			return b, true
		}
	}
	return Body{}, false
}

// Count returns how many bodies of kind k the snapshot holds.
func (s Snapshot) Count(k Kind) int {
	n := 0
	for _, b := range s.Bodies {
		if b.Kind == k {
			n++
		}
	}
	return n
}

// Fingerprint hashes the exact bit patterns of every field. Two snapshots
// share a fingerprint iff they are bit-identical (barring xxhash collisions).
func (s Snapshot) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	put(uint64(s.Tick))
	put(math.Float64bits(s.GridSize))
	for _, b := range s.Bodies {
		put(uint64(b.Kind))
		put(math.Float64bits(b.Position.X))
		put(math.Float64bits(b.Position.Y))
		put(math.Float64bits(b.Velocity.X))
		put(math.Float64bits(b.Velocity.Y))
		put(uint64(b.Size))
		_, _ = d.Write(b.Color[:])
		if b.Static {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	}
	return d.Sum64()
}
