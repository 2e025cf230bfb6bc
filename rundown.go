// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"log/slog"
	"sync"
)

// rundown counts outstanding asynchronous work. Every scheduled resource
// operation acquires a token before starting and releases it unconditionally
// on completion, so the hosting process does not exit while remote calls are
// in flight. A parked operation holds its token forever, which is what keeps
// Run from returning after an engine shutdown.
type rundown struct {
	mu          sync.Mutex
	outstanding int
	idle        chan struct{}
}

func (r *rundown) acquire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outstanding++
}

func (r *rundown) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outstanding == 0 {
		// Token accounting bug; dropped and logged like a double fulfill.
		slog.Error("keep-alive token released with none outstanding")
		return
	}
	r.outstanding--
	if r.outstanding == 0 && r.idle != nil {
		close(r.idle)
		r.idle = nil
	}
}

// wait blocks until no tokens are outstanding.
func (r *rundown) wait() {
	r.mu.Lock()
	if r.outstanding == 0 {
		r.mu.Unlock()
		return
	}
	if r.idle == nil {
		r.idle = make(chan struct{})
	}
	idle := r.idle
	r.mu.Unlock()
	<-idle
}
