// Package pipeline runs tick-synchronous dataflow models built from nodes
// that exchange typed mode-coefficient vectors.
//
// A node declares the topics it consumes (Reader) and produces (Writer) and
// exposes a per-tick Update hook. A Model visits its nodes in the order they
// were added; on every tick each node first receives its pending inbound
// messages, then runs Update, then has each of its output topics written once
// and fanned out to every linked consumer. Messages sent to a node that was
// already visited in the current tick (a feedback link) are delivered on the
// next tick.
//
// Message values are shared between all receivers and must be treated as
// read-only. A node that needs to modify a received vector copies it first;
// a node that hands out its internal buffer hands out a copy.
package pipeline
