// Package testutil provides deterministic stand-ins for the clock and ID
// sources used by the harness and the CLI.
package testutil

import "sync/atomic"

// StepCounter numbers the steps of one scenario run. Trace events carry
// these numbers instead of wall-clock time, so a golden trace is the same
// on every machine.
type StepCounter struct {
	last atomic.Int64
}

// NewStepCounter returns a counter whose first step is 1.
func NewStepCounter() *StepCounter {
	return &StepCounter{}
}

// Next returns the number of the next step.
func (c *StepCounter) Next() int64 {
	return c.last.Add(1)
}

// Steps returns how many steps have been numbered.
func (c *StepCounter) Steps() int64 {
	return c.last.Load()
}
