// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
	"github.com/platform-engineering-labs/fabrica/pkg/property"
)

// resolverBundle is the ephemeral state of one registration call: the
// callbacks that settle the resource's deferred values, plus the gathered
// inputs ready for transmission. It is created fresh per call and discarded
// once the call completes.
type resolverBundle struct {
	resolveURN func(model.URN)
	resolveID  func(model.ID)
	fail       func(error)
	properties map[string]func(value any, known bool)

	parent       model.URN
	provider     string
	serialized   json.RawMessage
	dependencies []model.URN
}

// allocateResource is the synchronous prefix of a registration: it wires
// every deferred value onto the resource before any suspension can happen.
// It performs no channel operations and must stay that way; a suspension
// here would let a concurrent consumer observe a resource with some outputs
// attached and others missing.
func (c *Context) allocateResource(typ, name string, custom bool, inputs Map) (*ResourceState, *resolverBundle) {
	res := &ResourceState{
		typ:     typ,
		name:    name,
		custom:  custom,
		outputs: make(map[string]*Output, len(inputs)),
	}
	res.urn = newOutput(res)

	b := &resolverBundle{
		resolveURN: func(urn model.URN) {
			res.urn.resolve(urn, true, nil)
		},
		properties: make(map[string]func(any, bool), len(inputs)),
	}

	// fail rejects every deferred value that has not settled yet. Without it a
	// failed registration would leave consumers of this resource blocked
	// forever instead of seeing the failure.
	b.fail = func(err error) {
		res.urn.fail(err)
		if res.id != nil {
			res.id.fail(err)
		}
		res.mu.Lock()
		defer res.mu.Unlock()
		for _, out := range res.outputs {
			out.fail(err)
		}
	}

	if custom {
		res.id = newOutput(res)
		b.resolveID = func(id model.ID) {
			if id == "" {
				// No identity yet (previews). Explicit "no id", never a
				// falsy scalar.
				res.id.resolve(nil, false, nil)
				return
			}
			res.id.resolve(id, true, nil)
		}
	}

	for key := range inputs {
		out := newOutput(res)
		res.outputs[key] = out
		b.properties[key] = func(value any, known bool) {
			out.resolve(value, known, nil)
		}
	}

	return res, b
}

// gatherInputs is the suspending continuation of preparation: it awaits
// dependency URNs, serializes the input bag (discovering implicit
// dependencies along the way), and resolves parent and provider references.
func (c *Context) gatherInputs(b *resolverBundle, custom bool, inputs Map, opts *ResourceOptions) error {
	ctx := c.ctx
	depSet := make(map[model.URN]struct{})

	if opts != nil {
		for _, dep := range opts.DependsOn {
			urn, err := awaitURN(ctx, dep)
			if err != nil {
				return fmt.Errorf("resolving dependency '%s': %w", dep.name, err)
			}
			depSet[urn] = struct{}{}
		}
	}

	wire, refs, err := property.SerializeProperties(ctx, inputs)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		v, _, err := ref.ResourceURN().Await(ctx)
		if err != nil {
			return err
		}
		if urn, ok := v.(model.URN); ok {
			depSet[urn] = struct{}{}
		}
	}

	b.serialized, err = property.Marshal(wire)
	if err != nil {
		return err
	}

	if opts != nil && opts.Parent != nil {
		b.parent, err = awaitURN(ctx, opts.Parent)
		if err != nil {
			return fmt.Errorf("resolving parent '%s': %w", opts.Parent.name, err)
		}
	}

	if custom && opts != nil && opts.Provider != nil {
		if err := c.resolveProviderReference(b, opts.Provider); err != nil {
			return err
		}
	}

	b.dependencies = make([]model.URN, 0, len(depSet))
	for urn := range depSet {
		b.dependencies = append(b.dependencies, urn)
	}
	sort.Slice(b.dependencies, func(i, j int) bool {
		return b.dependencies[i] < b.dependencies[j]
	})

	return nil
}

// resolveProviderReference composes the `providerURN::providerID` reference
// for a custom resource. When the provider's ID is not yet known (previews),
// the unknown sentinel stands in for it.
func (c *Context) resolveProviderReference(b *resolverBundle, provider *ResourceState) error {
	if !provider.custom {
		return fmt.Errorf("provider '%s' must be a custom resource", provider.name)
	}

	urn, err := awaitURN(c.ctx, provider)
	if err != nil {
		return fmt.Errorf("resolving provider '%s': %w", provider.name, err)
	}

	v, known, err := provider.id.Await(c.ctx)
	if err != nil {
		return fmt.Errorf("resolving provider '%s' id: %w", provider.name, err)
	}

	id := model.ID(model.UnknownPropertySentinel)
	if known {
		if concrete, ok := v.(model.ID); ok {
			id = concrete
		}
	}

	b.provider = model.ProviderReference(urn, id)
	return nil
}

// prepareAsync runs gatherInputs off the calling goroutine, holding a
// keep-alive token for its duration. The registration operation picks up the
// result from the returned channel once its turn in the chain comes.
func (c *Context) prepareAsync(b *resolverBundle, custom bool, inputs Map, opts *ResourceOptions) <-chan error {
	prepared := make(chan error, 1)
	c.rundown.acquire()
	go func() {
		defer c.rundown.release()
		prepared <- c.gatherInputs(b, custom, inputs, opts)
	}()
	return prepared
}

func awaitURN(ctx context.Context, res *ResourceState) (model.URN, error) {
	v, _, err := res.urn.Await(ctx)
	if err != nil {
		return "", err
	}
	urn, ok := v.(model.URN)
	if !ok {
		return "", fmt.Errorf("resource '%s' resolved to a non-URN value", res.name)
	}
	return urn, nil
}
