package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-optgain/internal/monitoring"
)

type output struct {
	topic     Topic
	consumers []*entry
}

type entry struct {
	name    string
	node    Node
	outputs []*output
	inbox   []Message
}

// Model is a tick-synchronous dataflow graph.
type Model struct {
	entries []*entry
	byNode  map[Node]*entry
	ticks   int
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{byNode: make(map[Node]*entry)}
}

// Add appends a node to the visiting order. Nodes must be pointers.
func (m *Model) Add(name string, node Node) error {
	if node == nil {
		return errors.New("pipeline: nil node")
	}
	if _, ok := m.byNode[node]; ok {
		return fmt.Errorf("pipeline: node %q already added", name)
	}
	e := &entry{name: name, node: node}
	m.entries = append(m.entries, e)
	m.byNode[node] = e
	return nil
}

// Link routes topic from one node to another. Both nodes must have been
// added, from must declare topic as an output and to as an input.
func (m *Model) Link(from, to Node, topic Topic) error {
	if !topic.Valid() {
		return fmt.Errorf("pipeline: unknown topic %v", topic)
	}
	src, ok := m.byNode[from]
	if !ok {
		return fmt.Errorf("pipeline: %v producer not added", topic)
	}
	dst, ok := m.byNode[to]
	if !ok {
		return fmt.Errorf("pipeline: %v consumer not added", topic)
	}
	w, ok := from.(Writer)
	if !ok || !declares(w.Outputs(), topic) {
		return fmt.Errorf("pipeline: %s does not write %v", src.name, topic)
	}
	r, ok := to.(Reader)
	if !ok || !declares(r.Inputs(), topic) {
		return fmt.Errorf("pipeline: %s does not read %v", dst.name, topic)
	}

	for _, out := range src.outputs {
		if out.topic == topic {
			for _, c := range out.consumers {
				if c == dst {
					return fmt.Errorf("pipeline: %s -> %s already linked on %v", src.name, dst.name, topic)
				}
			}
			out.consumers = append(out.consumers, dst)
			return nil
		}
	}
	src.outputs = append(src.outputs, &output{topic: topic, consumers: []*entry{dst}})
	return nil
}

// Step advances the model by one tick.
func (m *Model) Step() {
	for _, e := range m.entries {
		if len(e.inbox) > 0 {
			inbox := e.inbox
			e.inbox = nil
			r := e.node.(Reader)
			for _, msg := range inbox {
				r.Read(msg)
			}
		}

		e.node.Update()

		for _, out := range e.outputs {
			msg, ok := e.node.(Writer).Write(out.topic)
			if !ok {
				continue
			}
			for _, c := range out.consumers {
				c.inbox = append(c.inbox, msg)
			}
		}
	}
	m.ticks++
}

// Run advances the model by ticks steps, stopping early when ctx is done.
func (m *Model) Run(ctx context.Context, ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("pipeline: ticks must be >= 0: %d", ticks)
	}
	monitoring.Logf("pipeline: running %d nodes for %d ticks", len(m.entries), ticks)
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: stopped after %d ticks: %w", m.ticks, err)
		}
		m.Step()
	}
	monitoring.Logf("pipeline: done after %d ticks", m.ticks)
	return nil
}

// Ticks returns the number of completed ticks.
func (m *Model) Ticks() int {
	return m.ticks
}
