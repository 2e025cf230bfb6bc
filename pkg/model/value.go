// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

// UnknownPropertySentinel is the wire-level marker for a property value that
// will only be known after a real deployment run. It shows up in serialized
// property bags during previews and must survive a serialize/deserialize
// round trip unchanged.
const UnknownPropertySentinel = "90b9f147-6e4c-4b8a-8c2e-5d1f0a7e3b21"

// Unknown is the in-memory representation of the unknown sentinel after
// deserialization.
type Unknown struct{}

// IsUnknown reports whether a deserialized value is the unknown marker.
func IsUnknown(v any) bool {
	_, ok := v.(Unknown)
	return ok
}
