// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"sync"

	"github.com/platform-engineering-labs/fabrica/internal/metrics"
)

// serializer enforces a total, declaration-consistent order across resource
// operations marked serial. It holds a single chain channel that is swapped
// for each serial operation: the new operation waits on the old tail and its
// own completion channel becomes the new tail. Memory stays O(1) no matter
// how many operations have run.
//
// Non-serial operations (RegisterResourceOutputs in particular) never touch
// the chain: attached outputs frequently depend on properties of resources
// declared later in program order, and chaining them would deadlock.
type serializer struct {
	mu        sync.Mutex
	tail      chan struct{}
	lastLabel string
}

func newSerializer() *serializer {
	tail := make(chan struct{})
	close(tail)
	return &serializer{tail: tail}
}

// swap links a new serial operation into the chain: it returns the channel
// the operation must wait on plus the label of the operation it chains
// after. lastLabel is diagnostic only.
func (s *serializer) swap(done chan struct{}, label string) (chan struct{}, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wait, prev := s.tail, s.lastLabel
	s.tail = done
	s.lastLabel = label
	return wait, prev
}

func (s *serializer) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLabel
}

// runResourceOp schedules one remote resource operation. Serial operations
// run only after every previously chained operation has completed; the chain
// advances even when an operation fails, with the failure surfacing through
// the context error sink instead.
func (c *Context) runResourceOp(label string, serial bool, op func() error) {
	c.rundown.acquire()
	metrics.OperationsStarted.WithLabelValues(label0(label)).Inc()

	var wait, done chan struct{}
	var prev string
	if serial {
		done = make(chan struct{})
		wait, prev = c.serializer.swap(done, label)
	}

	go func() {
		defer c.rundown.release()
		if wait != nil {
			defer close(done)
			if prev != "" {
				c.debugf("operation waiting on chain", "label", label, "after", prev)
			}
			<-wait
		}

		if c.parking.isEngaged() {
			// The engine is tearing down; issue nothing further.
			c.park(label)
			return
		}

		c.debugf("operation starting", "label", label, "serial", serial)
		if err := op(); err != nil {
			metrics.OperationsFailed.WithLabelValues(label0(label)).Inc()
			c.deliverError(err)
		}
	}()
}

// label0 trims an operation label like "RegisterResource(t, n)" down to the
// operation kind for metric labels.
func label0(label string) string {
	for i := 0; i < len(label); i++ {
		if label[i] == '(' {
			return label[:i]
		}
	}
	return label
}
