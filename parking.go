// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"log/slog"
	"sync"

	"github.com/platform-engineering-labs/fabrica/internal/metrics"
)

// parking is the engine-termination latch. When a remote call fails because
// the engine endpoint is unavailable, the engine is already tearing down:
// raising an error here would race its own shutdown output. Instead the
// client halts all forward progress and relies on the engine's process
// supervision to terminate it.
type parking struct {
	once    sync.Once
	engaged chan struct{}
	halt    chan struct{}
}

func newParking() *parking {
	return &parking{
		engaged: make(chan struct{}),
		halt:    make(chan struct{}),
	}
}

// engage flips the latch. Every operation checks it before issuing a remote
// call, so no further calls leave this client instance.
func (p *parking) engage() {
	p.once.Do(func() {
		close(p.engaged)
	})
}

func (p *parking) isEngaged() bool {
	select {
	case <-p.engaged:
		return true
	default:
		return false
	}
}

// park engages the latch and blocks on a channel that is never signaled in
// production; tests release it through an in-package hook.
func (c *Context) park(label string) {
	c.parking.engage()
	metrics.OperationsParked.Inc()
	slog.Debug("engine is shutting down; parking", "label", label)
	<-c.parking.halt
}
