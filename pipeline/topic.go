package pipeline

import "fmt"

// Topic identifies the kind of vector carried by a Message.
type Topic int

const (
	// ModeCoefficients is the full mode-coefficient command vector.
	ModeCoefficients Topic = iota + 1
	// ResidualModeCoefficients is the loop's measured residual vector. It
	// may be empty when no measurement is available for a tick.
	ResidualModeCoefficients
)

func (t Topic) String() string {
	switch t {
	case ModeCoefficients:
		return "ModeCoefficients"
	case ResidualModeCoefficients:
		return "ResidualModeCoefficients"
	default:
		return fmt.Sprintf("Topic(%d)", int(t))
	}
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	switch t {
	case ModeCoefficients, ResidualModeCoefficients:
		return true
	default:
		return false
	}
}

// Message is a vector published on a topic.
type Message struct {
	topic  Topic
	values []float64
}

// NewMessage wraps values. The message takes ownership of the slice.
func NewMessage(topic Topic, values []float64) Message {
	return Message{topic: topic, values: values}
}

// Topic returns the message topic.
func (m Message) Topic() Topic {
	return m.topic
}

// Values returns the shared, read-only payload.
func (m Message) Values() []float64 {
	return m.values
}

// Len returns the payload length.
func (m Message) Len() int {
	return len(m.values)
}

// Empty reports whether the payload carries no data.
func (m Message) Empty() bool {
	return len(m.values) == 0
}
