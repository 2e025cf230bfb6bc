// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"sync"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
	"github.com/platform-engineering-labs/fabrica/pkg/property"
)

// Map is a bag of input or output properties. Values may be concrete Go
// values, nested maps and slices, *Output handles, or *ResourceState
// references (which serialize to their URN and count as implicit
// dependencies).
type Map map[string]any

// ResourceState is a remotely-managed resource as seen by the program:
// a deferred URN, a deferred ID for custom resources, and one deferred
// output per property. All deferred values are attached before the
// registration call suspends, so a concurrently running consumer never
// observes a partially-constructed resource.
type ResourceState struct {
	typ    string
	name   string
	custom bool

	urn *Output
	id  *Output

	mu      sync.Mutex
	outputs map[string]*Output
}

// Type returns the resource type token, e.g. "fabrica::storage::Bucket".
func (r *ResourceState) Type() string { return r.typ }

// Name returns the program-assigned resource name.
func (r *ResourceState) Name() string { return r.name }

// Custom reports whether the resource's lifecycle is performed by an
// external provider (and it therefore carries an identity ID).
func (r *ResourceState) Custom() bool { return r.custom }

// URN returns the deferred engine-assigned identifier.
func (r *ResourceState) URN() *Output { return r.urn }

// ID returns the deferred provider-assigned identity, or nil for component
// resources, which have none.
func (r *ResourceState) ID() *Output { return r.id }

// Output returns the deferred value for one property, or nil when the
// resource has no such property.
func (r *ResourceState) Output(key string) *Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputs[key]
}

// attachOutput adds a property that only exists on the engine side, already
// settled. Input-declared properties are attached during allocation instead.
func (r *ResourceState) attachOutput(key string, out *Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outputs[key]; !ok {
		r.outputs[key] = out
	}
}

// ResourceURN makes a resource usable inside property bags; the codec
// flattens it to its URN and records the implicit dependency.
func (r *ResourceState) ResourceURN() property.Deferred { return r.urn }

// ResourceOptions carries the creation options for a registration or read.
type ResourceOptions struct {
	// Parent establishes the resource hierarchy; the parent's URN is sent to
	// the engine.
	Parent *ResourceState

	// DependsOn lists explicit dependencies beyond those discovered inside
	// input property values.
	DependsOn []*ResourceState

	// Provider selects the provider instance that manages a custom resource.
	Provider *ResourceState

	// Protect asks the engine to refuse deletion of the resource.
	Protect bool

	// ID is the pre-known identity for ReadResource. Reads fail without it.
	ID model.ID

	// Serial forces this operation into (true) or out of (false) the total
	// operation order. Unset means the context-wide default applies.
	Serial *bool
}

func (o *ResourceOptions) serial(fallback bool) bool {
	if o == nil || o.Serial == nil {
		return fallback
	}
	return *o.Serial
}
