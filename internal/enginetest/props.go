// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package enginetest

import (
	"encoding/json"

	goccy "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// cannedOutputs builds the output bag for a response: the request's
// serialized inputs echoed back, overlaid with any outputs canned for the
// resource type.
func (e *Engine) cannedOutputs(resourceType string, inputs json.RawMessage) map[string]any {
	out := map[string]any{}
	if len(inputs) > 0 && gjson.ValidBytes(inputs) {
		gjson.ParseBytes(inputs).ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = value.Value()
			return true
		})
	}

	e.mu.Lock()
	canned := e.outputs[resourceType]
	e.mu.Unlock()
	for k, v := range canned {
		out[k] = v
	}

	return out
}

func marshalProps(props map[string]any) (json.RawMessage, error) {
	if len(props) == 0 {
		return nil, nil
	}
	return goccy.Marshal(props)
}
