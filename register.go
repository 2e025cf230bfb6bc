// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/platform-engineering-labs/fabrica/internal/util"
	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
	"github.com/platform-engineering-labs/fabrica/pkg/property"
)

// RegisterResource declares a custom resource — one whose lifecycle is
// performed by an external provider — with the engine. The returned resource
// is fully wired immediately; its URN, ID, and output properties resolve
// asynchronously once the engine responds.
func (c *Context) RegisterResource(typ, name string, inputs Map, opts *ResourceOptions) (*ResourceState, error) {
	return c.registerResource(typ, name, true, inputs, opts)
}

// RegisterComponentResource declares a composite resource, which groups
// other resources and carries no provider-assigned identity.
func (c *Context) RegisterComponentResource(typ, name string, inputs Map, opts *ResourceOptions) (*ResourceState, error) {
	return c.registerResource(typ, name, false, inputs, opts)
}

func (c *Context) registerResource(typ, name string, custom bool, inputs Map, opts *ResourceOptions) (*ResourceState, error) {
	if typ == "" || name == "" {
		return nil, fmt.Errorf("resource type and name are required")
	}

	res, bundle := c.allocateResource(typ, name, custom, inputs)
	prepared := c.prepareAsync(bundle, custom, inputs, opts)

	label := fmt.Sprintf("RegisterResource(%s, %s)", typ, name)
	op := func() error {
		if err := <-prepared; err != nil {
			return &RegistrationError{Type: typ, Name: name, Err: err}
		}

		ctx, span := c.tracer.Start(c.ctx, "RegisterResource", trace.WithAttributes(
			attribute.String("fabrica.resource.type", typ),
			attribute.String("fabrica.resource.name", name),
		))
		defer span.End()

		resp, err := c.client.RegisterResource(ctx, &model.RegisterResourceRequest{
			RequestID:    util.NewID(),
			Type:         typ,
			Name:         name,
			Parent:       bundle.parent,
			Custom:       custom,
			Properties:   bundle.serialized,
			Protect:      opts != nil && opts.Protect,
			Provider:     bundle.provider,
			Dependencies: bundle.dependencies,
		})
		if err != nil {
			if engine.IsUnavailable(err) {
				c.park(label)
				return nil
			}
			span.RecordError(err)
			return &RegistrationError{Type: typ, Name: name, Err: err}
		}

		bundle.resolveURN(resp.URN)
		if custom {
			bundle.resolveID(resp.ID)
		}

		outs, err := property.Unmarshal(resp.Properties)
		if err != nil {
			return &RegistrationError{Type: typ, Name: name, Err: err}
		}
		if err := c.mergeOutputs(res, bundle, inputs, outs); err != nil {
			return &RegistrationError{Type: typ, Name: name, Err: err}
		}

		return nil
	}

	c.runResourceOp(label, opts.serial(c.serial), func() error {
		err := op()
		if err != nil {
			// Reject everything still pending so dependents fail instead of
			// awaiting this resource forever.
			bundle.fail(err)
		}
		return err
	})

	return res, nil
}
