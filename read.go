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

// ReadResource looks up an existing custom resource by its pre-known ID. The
// ID must be supplied in the options; the call fails synchronously, before
// any remote operation, when it is absent. The serialized inputs act as read
// filters on the engine side.
//
// A read never substitutes an engine-assigned identity: the resource's ID
// always resolves to the caller-supplied one.
func (c *Context) ReadResource(typ, name string, inputs Map, opts *ResourceOptions) (*ResourceState, error) {
	if typ == "" || name == "" {
		return nil, fmt.Errorf("resource type and name are required")
	}
	if opts == nil || opts.ID == "" {
		return nil, &MissingIDError{Type: typ, Name: name}
	}
	id := opts.ID

	res, bundle := c.allocateResource(typ, name, true, inputs)
	prepared := c.prepareAsync(bundle, true, inputs, opts)

	label := fmt.Sprintf("ReadResource(%s, %s)", typ, name)
	op := func() error {
		if err := <-prepared; err != nil {
			return &RegistrationError{Type: typ, Name: name, Err: err}
		}

		ctx, span := c.tracer.Start(c.ctx, "ReadResource", trace.WithAttributes(
			attribute.String("fabrica.resource.type", typ),
			attribute.String("fabrica.resource.name", name),
		))
		defer span.End()

		resp, err := c.client.ReadResource(ctx, &model.ReadResourceRequest{
			RequestID:    util.NewID(),
			Type:         typ,
			Name:         name,
			ID:           id,
			Parent:       bundle.parent,
			Provider:     bundle.provider,
			Properties:   bundle.serialized,
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
		bundle.resolveID(id)

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
