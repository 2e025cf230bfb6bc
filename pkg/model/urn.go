// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
	"strings"
)

// URN is the globally unique identifier the engine assigns to a resource.
// The client treats it as opaque; helpers below only split the conventional
// `urn:fabrica:<type>::<name>` shape for display purposes.
type URN string

func (u URN) String() string {
	return string(u)
}

// Type returns the resource type token embedded in the URN, or "" when the
// URN does not follow the conventional shape.
func (u URN) Type() string {
	parts := strings.Split(string(u), "::")
	if len(parts) < 2 {
		return ""
	}
	frags := strings.Split(parts[0], ":")
	return frags[len(frags)-1]
}

// Name returns the resource name embedded in the URN, or "" when the URN
// does not follow the conventional shape.
func (u URN) Name() string {
	parts := strings.Split(string(u), "::")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// ID is the provider-assigned identity of a custom resource. Composite
// resources have no ID.
type ID string

func (id ID) String() string {
	return string(id)
}

// ProviderReference identifies the provider instance that manages a custom
// resource, in the composite `providerURN::providerID` form.
func ProviderReference(urn URN, id ID) string {
	return fmt.Sprintf("%s::%s", urn, id)
}
