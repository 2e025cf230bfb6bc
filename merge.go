// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"fmt"

	"github.com/platform-engineering-labs/fabrica/pkg/property"
)

// mergeOutputs reconciles the engine-returned output bag with the original
// inputs and settles every pending property on the resource.
//
// The engine's values win. Input keys the engine did not return fall back to
// the input value after a serialize/deserialize round trip, which handles
// unknown sentinels uniformly between preview and real runs. A key whose
// round-tripped value has no wire form is dropped, never defaulted to a
// placeholder.
func (c *Context) mergeOutputs(res *ResourceState, b *resolverBundle, inputs Map, engineOuts map[string]any) error {
	merged := engineOuts
	if merged == nil {
		merged = map[string]any{}
	}

	for key, v := range inputs {
		if _, ok := merged[key]; ok {
			continue
		}
		rt, err := property.RoundTrip(c.ctx, v)
		if err != nil {
			return fmt.Errorf("round-tripping input '%s': %w", key, err)
		}
		if rt == nil {
			continue
		}
		merged[key] = rt
	}

	// Settle every captured resolver exactly once: from the merged bag when
	// the key survived, otherwise as an absent value. A nested unknown
	// anywhere inside a value makes the whole value unknown.
	for key, settle := range b.properties {
		v, ok := merged[key]
		switch {
		case ok && property.ContainsUnknown(v):
			settle(nil, false)
		case ok:
			settle(v, true)
		default:
			settle(nil, !c.preview)
		}
	}

	// Engine-side keys with no input counterpart become new, already-settled
	// outputs on the resource.
	for key, v := range merged {
		if _, ok := b.properties[key]; ok {
			continue
		}
		if property.ContainsUnknown(v) {
			res.attachOutput(key, resolvedOutput(res, nil, false))
			continue
		}
		res.attachOutput(key, resolvedOutput(res, v, true))
	}

	return nil
}
