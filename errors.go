// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"fmt"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// MissingIDError is returned synchronously when ReadResource is called
// without a pre-known ID, before any remote call is issued.
type MissingIDError struct {
	Type string
	Name string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("cannot read resource '%s' (type: %s): no ID was provided", e.Name, e.Type)
}

// RegistrationError wraps a non-shutdown failure of a read or register
// operation. It names the resource so the failing deployment run points at
// the right declaration.
type RegistrationError struct {
	Type string
	Name string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register resource '%s' (type: %s): %v", e.Name, e.Type, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// OutputsError wraps a non-shutdown failure of a RegisterResourceOutputs
// call.
type OutputsError struct {
	URN model.URN
	Err error
}

func (e *OutputsError) Error() string {
	return fmt.Sprintf("failed to register outputs for '%s': %v", e.URN, e.Err)
}

func (e *OutputsError) Unwrap() error { return e.Err }
