// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"testing"

	goccy "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterResourceOutputs_SendsResolvedBag(t *testing.T) {
	eng := newFakeEngine()
	ctx := context.Background()

	err := Run(ctx, eng, func(c *Context) error {
		stack, err := c.RegisterComponentResource("fabrica::app::Stack", "stack", nil, nil)
		if err != nil {
			return err
		}
		return c.RegisterResourceOutputs(stack, Map{
			"endpoint": "https://example.test",
		})
	})
	require.NoError(t, err)

	reqs := eng.outputsRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, fakeURN("fabrica::app::Stack", "stack"), reqs[0].URN)

	var outs map[string]any
	require.NoError(t, goccy.Unmarshal(reqs[0].Outputs, &outs))
	assert.Equal(t, "https://example.test", outs["endpoint"])
}

// Attached outputs may reference resources declared later in program order,
// so the operation must not join the serial chain: chaining it would wait on
// a URN that only resolves further down the chain.
func TestRegisterResourceOutputs_DoesNotJoinSerialChain(t *testing.T) {
	eng := newFakeEngine()
	ctx := context.Background()

	err := Run(ctx, eng, func(c *Context) error {
		stack, err := c.RegisterComponentResource("fabrica::app::Stack", "stack", nil, nil)
		if err != nil {
			return err
		}

		if err := c.RegisterResourceOutputs(stack, Map{}); err != nil {
			return err
		}

		// Declared after the outputs call that will reference it.
		late, err := c.RegisterResource("fabrica::compute::Instance", "late", nil, nil)
		if err != nil {
			return err
		}
		return c.RegisterResourceOutputs(stack, Map{"instance": late})
	}, WithSerialOperations(true))
	require.NoError(t, err)

	reqs := eng.outputsRequests()
	require.Len(t, reqs, 2)

	var outs map[string]any
	require.NoError(t, goccy.Unmarshal(reqs[1].Outputs, &outs))
	assert.Equal(t, string(fakeURN("fabrica::compute::Instance", "late")), outs["instance"])
}

func TestRegisterResourceOutputs_RequiresResource(t *testing.T) {
	eng := newFakeEngine()

	err := Run(context.Background(), eng, func(c *Context) error {
		return c.RegisterResourceOutputs(nil, Map{"k": "v"})
	})
	require.Error(t, err)
	assert.Zero(t, eng.callCount())
}
