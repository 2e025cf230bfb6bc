// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"syscall"

	"github.com/masterminds/semver"
	"resty.dev/v3"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

const (
	BasePath              = "/api/v1"
	ReadResourceRoute     = BasePath + "/resources/read"
	RegisterResourceRoute = BasePath + "/resources"
	RegisterOutputsRoute  = BasePath + "/resources/outputs"
	VersionRoute          = BasePath + "/version"
	HealthRoute           = BasePath + "/health"
)

// CompatibleEngineVersions is the protocol window this client accepts during
// the version handshake.
const CompatibleEngineVersions = ">= 0.3.0, < 1.0.0"

// HTTPClient talks to the engine over its HTTP endpoint.
type HTTPClient struct {
	endpoint string
	resty    *resty.Client
}

// NewHTTPClient creates a transport for the engine at the given endpoint
// (e.g. "http://127.0.0.1:7667"). A custom *http.Client may be supplied for
// tests; pass nil for the default.
func NewHTTPClient(endpoint string, net *http.Client) *HTTPClient {
	client := resty.New()
	if net != nil {
		client = resty.NewWithClient(net)
	}

	return &HTTPClient{
		endpoint: endpoint,
		resty:    client,
	}
}

// Handshake verifies the engine speaks a compatible protocol version. It is
// optional; operations work without it, but mismatched engines then fail
// with less helpful errors.
func (c *HTTPClient) Handshake(ctx context.Context) error {
	var out struct {
		Version string `json:"Version"`
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&out).
		Get(c.endpoint + VersionRoute)
	if err != nil {
		return classify(err)
	}

	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return classifyStatus(resp.StatusCode())
	}

	ver, err := semver.NewVersion(out.Version)
	if err != nil {
		return fmt.Errorf("engine reported unparsable version %q: %w", out.Version, err)
	}

	window, err := semver.NewConstraint(CompatibleEngineVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint: %w", err)
	}

	if !window.Check(ver) {
		return fmt.Errorf("engine version %s is outside the compatible window %q", ver, CompatibleEngineVersions)
	}

	slog.Debug("engine handshake complete", "version", out.Version)
	return nil
}

func (c *HTTPClient) ReadResource(ctx context.Context, req *model.ReadResourceRequest) (*model.ReadResourceResponse, error) {
	var out model.ReadResourceResponse
	if err := c.post(ctx, ReadResourceRoute, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegisterResource(ctx context.Context, req *model.RegisterResourceRequest) (*model.RegisterResourceResponse, error) {
	var out model.RegisterResourceResponse
	if err := c.post(ctx, RegisterResourceRoute, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegisterResourceOutputs(ctx context.Context, req *model.RegisterResourceOutputsRequest) error {
	return c.post(ctx, RegisterOutputsRoute, req, nil)
}

func (c *HTTPClient) post(ctx context.Context, route string, body any, out any) error {
	r := c.resty.R().
		SetContext(ctx).
		SetBody(body)
	if out != nil {
		r = r.SetResult(out)
	}

	resp, err := r.Post(c.endpoint + route)
	if err != nil {
		return classify(err)
	}

	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return classifyStatus(resp.StatusCode())
	}

	return nil
}

func classify(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func classifyStatus(code int) error {
	if code == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: engine returned status %d", ErrUnavailable, code)
	}
	return fmt.Errorf("unexpected status code: %d", code)
}
