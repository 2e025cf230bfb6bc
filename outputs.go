// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"fmt"

	"github.com/platform-engineering-labs/fabrica/internal/util"
	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
	"github.com/platform-engineering-labs/fabrica/pkg/property"
)

// RegisterResourceOutputs attaches an output property bag to an
// already-declared resource. The bag may be wholly or partly deferred; the
// operation awaits the resource's URN and the bag's values before issuing
// the call.
//
// This operation deliberately never joins the serial chain: attached outputs
// frequently depend on properties of resources declared later in program
// order, and a total order here would be a dependency cycle that can never
// resolve.
func (c *Context) RegisterResourceOutputs(res *ResourceState, outputs Map) error {
	if res == nil {
		return fmt.Errorf("resource is required")
	}

	label := fmt.Sprintf("RegisterResourceOutputs(%s, %s)", res.typ, res.name)
	c.runResourceOp(label, false, func() error {
		urn, err := awaitURN(c.ctx, res)
		if err != nil {
			return &OutputsError{Err: err}
		}

		wire, _, err := property.SerializeProperties(c.ctx, outputs)
		if err != nil {
			return &OutputsError{URN: urn, Err: err}
		}
		raw, err := property.Marshal(wire)
		if err != nil {
			return &OutputsError{URN: urn, Err: err}
		}

		err = c.client.RegisterResourceOutputs(c.ctx, &model.RegisterResourceOutputsRequest{
			RequestID: util.NewID(),
			URN:       urn,
			Outputs:   raw,
		})
		if err != nil {
			if engine.IsUnavailable(err) {
				c.park(label)
				return nil
			}
			return &OutputsError{URN: urn, Err: err}
		}

		c.debugf("outputs registered", "urn", urn)
		return nil
	})

	return nil
}
