// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"log/slog"
	"sync"
)

// Output is a deferred value owned by a resource. It carries two
// independently fulfillable slots: the raw value and the apply-eligibility
// flag ("known"). A known=false value typically means "only available after
// a real deployment run"; consumers must not run dependent transformations
// on it yet.
//
// Each slot fulfills at most once. A second fulfillment attempt is dropped
// and logged; it indicates a bug in the orchestrator, never a condition user
// programs can produce.
type Output struct {
	owner *ResourceState

	mu       sync.Mutex
	value    any
	err      error
	known    bool
	valueSet bool
	knownSet bool

	valueDone chan struct{}
	knownDone chan struct{}
}

func newOutput(owner *ResourceState) *Output {
	return &Output{
		owner:     owner,
		valueDone: make(chan struct{}),
		knownDone: make(chan struct{}),
	}
}

// fulfillValue settles the raw value slot.
func (o *Output) fulfillValue(value any, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.valueSet {
		slog.Error("output value fulfilled twice", "owner", o.ownerLabel(), "dropped", value)
		return
	}

	o.value = value
	o.err = err
	o.valueSet = true
	close(o.valueDone)
}

// fulfillKnown settles the apply-eligibility slot.
func (o *Output) fulfillKnown(known bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.knownSet {
		slog.Error("output known flag fulfilled twice", "owner", o.ownerLabel())
		return
	}

	o.known = known
	o.knownSet = true
	close(o.knownDone)
}

// resolve settles both slots at once.
func (o *Output) resolve(value any, known bool, err error) {
	o.fulfillValue(value, err)
	o.fulfillKnown(known)
}

// fail settles any slot that is still pending with an error, leaving already
// settled slots untouched. Failure paths use it so awaiting consumers reject
// instead of blocking forever.
func (o *Output) fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.valueSet {
		o.err = err
		o.valueSet = true
		close(o.valueDone)
	}
	if !o.knownSet {
		o.knownSet = true
		close(o.knownDone)
	}
}

func (o *Output) ownerLabel() string {
	if o.owner == nil {
		return "<free>"
	}
	return o.owner.name
}

// Await blocks until both slots are settled (or ctx is done) and returns the
// raw value, the apply-eligibility flag, and any resolution error.
func (o *Output) Await(ctx context.Context) (any, bool, error) {
	select {
	case <-o.valueDone:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	select {
	case <-o.knownDone:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.known, o.err
}

// Apply derives a new deferred value by running fn once this one is known.
// When this value is unknown (preview), fn is not run and the derived value
// is unknown as well. The derived value is free-standing: it has no owning
// resource and does not hold the process alive.
func (o *Output) Apply(ctx context.Context, fn func(any) (any, error)) *Output {
	out := newOutput(nil)
	go func() {
		v, known, err := o.Await(ctx)
		if err != nil {
			out.resolve(nil, false, err)
			return
		}
		if !known {
			out.resolve(nil, false, nil)
			return
		}
		dv, err := fn(v)
		out.resolve(dv, err == nil, err)
	}()
	return out
}

// resolved constructs an already-settled output, used for engine-returned
// properties that had no input counterpart.
func resolvedOutput(owner *ResourceState, value any, known bool) *Output {
	out := newOutput(owner)
	out.resolve(value, known, nil)
	return out
}
