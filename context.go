// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/platform-engineering-labs/fabrica/pkg/engine"
)

// Context is the per-program registration context: it owns the engine
// client, the operation serializer, the keep-alive rundown, the parking
// latch, and the error sink. All mutable state is confined here rather than
// in package globals, so independent programs (and tests) do not interfere.
type Context struct {
	ctx     context.Context
	client  engine.Client
	preview bool
	serial  bool
	verbose bool

	serializer *serializer
	rundown    *rundown
	parking    *parking
	tracer     trace.Tracer

	mu   sync.Mutex
	errs []error
}

// Option configures a Context.
type Option func(*Context)

// WithPreview marks the run as a preview: unknown output values stay
// unknown instead of resolving to concrete state.
func WithPreview(preview bool) Option {
	return func(c *Context) { c.preview = preview }
}

// WithSerialOperations makes every read and register operation serial by
// default, enforcing a total, declaration-consistent remote call order.
// Individual operations can override this through ResourceOptions.Serial.
func WithSerialOperations(serial bool) Option {
	return func(c *Context) { c.serial = serial }
}

// WithVerboseDebug enables per-operation chain diagnostics in the debug log.
func WithVerboseDebug(verbose bool) Option {
	return func(c *Context) { c.verbose = verbose }
}

// NewContext builds a registration context around an engine client.
func NewContext(ctx context.Context, client engine.Client, opts ...Option) *Context {
	c := &Context{
		ctx:        ctx,
		client:     client,
		serializer: newSerializer(),
		rundown:    &rundown{},
		parking:    newParking(),
		tracer:     otel.Tracer("fabrica"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a declarative infrastructure program against the engine and
// waits until every registration it started has completed. It returns the
// program's own error joined with every operation failure delivered during
// the run. After an engine shutdown it never returns; the engine's process
// supervision is the failure boundary then.
func Run(ctx context.Context, client engine.Client, program func(*Context) error, opts ...Option) error {
	c := NewContext(ctx, client, opts...)
	if err := program(c); err != nil {
		c.deliverError(err)
	}
	c.Wait()
	return c.result()
}

// Wait blocks until all outstanding operations have completed.
func (c *Context) Wait() {
	c.rundown.wait()
}

// Preview reports whether this run is a preview.
func (c *Context) Preview() bool { return c.preview }

// deliverError records a failure for the run's top-level result. Operation
// failures land here rather than aborting the chain, so one failing
// registration does not mask the others.
func (c *Context) deliverError(err error) {
	slog.Error("resource operation failed", "error", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *Context) result() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.errs...)
}

func (c *Context) debugf(msg string, args ...any) {
	if c.verbose {
		slog.Debug(msg, args...)
	}
}
