package delay

import "fmt"

// Gate is a threshold-gated pass-through buffer.
//
// It withholds the first Threshold values it reads and echoes the most
// recently accepted value on every write. While warming up the echoed value
// is empty. The held slice is replaced, never written into, so a consumer
// that kept an earlier result keeps seeing it unchanged.
type Gate[T any] struct {
	data      []T
	count     int
	threshold int
}

// NewGate returns a gate that discards the first threshold values.
func NewGate[T any](threshold int) (*Gate[T], error) {
	if threshold < 0 {
		return nil, fmt.Errorf("gate threshold must be >= 0: %d", threshold)
	}
	return &Gate[T]{data: []T{}, threshold: threshold}, nil
}

// Read counts an inbound value and, once the count exceeds the threshold,
// installs it as the held snapshot.
func (g *Gate[T]) Read(data []T) {
	g.count++
	if g.count > g.threshold {
		g.data = data
	}
}

// Write returns the held snapshot.
func (g *Gate[T]) Write() []T {
	return g.data
}

// Update is a no-op; the gate only reacts to inbound values.
func (g *Gate[T]) Update() {}

// Active reports whether the warm-up is over.
func (g *Gate[T]) Active() bool {
	return g.count > g.threshold
}

// Count returns the number of values read so far.
func (g *Gate[T]) Count() int {
	return g.count
}

// Threshold returns the number of discarded leading values.
func (g *Gate[T]) Threshold() int {
	return g.threshold
}
