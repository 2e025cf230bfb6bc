// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package engine is the transport to the deployment engine. The engine owns
// planning, diffing, and persistence; this package only carries the three
// resource operations across the wire and classifies transport failures.
package engine

import (
	"context"
	"errors"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Client issues the three remote operations against the engine. The SDK core
// depends on this interface only; the HTTP implementation lives in this
// package and tests substitute in-memory fakes.
type Client interface {
	ReadResource(ctx context.Context, req *model.ReadResourceRequest) (*model.ReadResourceResponse, error)
	RegisterResource(ctx context.Context, req *model.RegisterResourceRequest) (*model.RegisterResourceResponse, error)
	RegisterResourceOutputs(ctx context.Context, req *model.RegisterResourceOutputsRequest) error
}

// ErrUnavailable means the engine endpoint refused or shed the connection.
// The client takes this as the engine tearing down and parks instead of
// raising an error.
var ErrUnavailable = errors.New("engine endpoint unavailable")

// IsUnavailable reports whether a remote operation failed because the engine
// endpoint is unavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
