package pipeline

import "github.com/cwbudde/algo-optgain/dsp/delay"

// Node is anything a Model can drive.
type Node interface {
	// Update runs once per tick, after inbound messages were delivered and
	// before any output is written.
	Update()
}

// Reader is a node consuming messages.
type Reader interface {
	Node
	Inputs() []Topic
	Read(msg Message)
}

// Writer is a node producing messages.
type Writer interface {
	Node
	Outputs() []Topic
	// Write returns the current value for topic; ok is false when the node
	// has nothing to publish on it.
	Write(topic Topic) (msg Message, ok bool)
}

func declares(topics []Topic, topic Topic) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Source publishes the same vector on every tick.
type Source struct {
	topic  Topic
	values []float64
}

// NewSource returns a source publishing values on topic.
func NewSource(topic Topic, values []float64) *Source {
	return &Source{topic: topic, values: values}
}

// Update is a no-op.
func (s *Source) Update() {}

// Outputs returns the source topic.
func (s *Source) Outputs() []Topic {
	return []Topic{s.topic}
}

// Write publishes the source vector.
func (s *Source) Write(topic Topic) (Message, bool) {
	if topic != s.topic {
		return Message{}, false
	}
	return NewMessage(topic, s.values), true
}

// DelayNode gates a topic with a delay.Gate: the first threshold messages
// are swallowed and an empty vector is published in their place.
type DelayNode struct {
	topic Topic
	gate  *delay.Gate[float64]
}

// NewDelay returns a node delaying topic by threshold ticks.
func NewDelay(topic Topic, threshold int) (*DelayNode, error) {
	gate, err := delay.NewGate[float64](threshold)
	if err != nil {
		return nil, err
	}
	return &DelayNode{topic: topic, gate: gate}, nil
}

// Update is a no-op.
func (d *DelayNode) Update() {
	d.gate.Update()
}

// Inputs returns the gated topic.
func (d *DelayNode) Inputs() []Topic {
	return []Topic{d.topic}
}

// Outputs returns the gated topic.
func (d *DelayNode) Outputs() []Topic {
	return []Topic{d.topic}
}

// Read forwards msg to the gate.
func (d *DelayNode) Read(msg Message) {
	if msg.Topic() != d.topic {
		return
	}
	d.gate.Read(msg.Values())
}

// Write publishes the gate snapshot.
func (d *DelayNode) Write(topic Topic) (Message, bool) {
	if topic != d.topic {
		return Message{}, false
	}
	return NewMessage(topic, d.gate.Write()), true
}

// Active reports whether the warm-up is over.
func (d *DelayNode) Active() bool {
	return d.gate.Active()
}
