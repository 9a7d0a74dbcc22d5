package delay

import "fmt"

// Line is a circular delay line of arbitrary values.
//
// Values are stored by assignment; a Line of slices keeps references to the
// written slices, so writers must not mutate a slice after handing it over.
type Line[T any] struct {
	buffer   []T
	writePos int
}

// NewLine returns a delay line of fixed size.
func NewLine[T any](size int) (*Line[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line[T]{buffer: make([]T, size)}, nil
}

// Write writes one value.
func (d *Line[T]) Write(v T) {
	d.buffer[d.writePos] = v
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples: Read(1) is the most recently
// written value, Read(size) the oldest one still held. Slots never written
// hold the zero value of T.
func (d *Line[T]) Read(delay int) T {
	size := len(d.buffer)
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}
