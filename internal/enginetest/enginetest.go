// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package enginetest is an in-process deployment engine double. It speaks
// the same HTTP surface as a real engine, assigns URNs and IDs, echoes
// serialized inputs back as outputs, and records the order in which calls
// arrive so tests can assert on operation ordering. It can be flipped into
// unavailable mode to exercise the engine-shutdown path.
package enginetest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Version is what the fake engine reports during the handshake; it sits
// inside the client's compatible window.
const Version = "0.3.1"

// Call is one recorded remote operation.
type Call struct {
	Op   string
	Type string
	Name string
	URN  model.URN
}

// Engine is the fake engine. Create with New, stop with Close.
type Engine struct {
	echo *echo.Echo
	srv  *httptest.Server

	mu          sync.Mutex
	unavailable bool
	calls       []Call
	outputs     map[string]map[string]any
	registered  map[model.URN]*model.RegisterResourceRequest
}

func New() *Engine {
	eng := &Engine{
		outputs:    make(map[string]map[string]any),
		registered: make(map[model.URN]*model.RegisterResourceRequest),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET(engine.VersionRoute, eng.version)
	e.GET(engine.HealthRoute, eng.health)
	e.POST(engine.ReadResourceRoute, eng.readResource)
	e.POST(engine.RegisterResourceRoute, eng.registerResource)
	e.POST(engine.RegisterOutputsRoute, eng.registerOutputs)

	eng.echo = e
	eng.srv = httptest.NewServer(e)
	return eng
}

// URL is the engine endpoint to hand to an HTTP client.
func (e *Engine) URL() string {
	return e.srv.URL
}

func (e *Engine) Close() {
	e.srv.Close()
}

// SetUnavailable makes every subsequent request fail with 503, the signal a
// tearing-down engine emits.
func (e *Engine) SetUnavailable(unavailable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unavailable = unavailable
}

// SetOutputs cans extra output properties returned for a resource type.
func (e *Engine) SetOutputs(resourceType string, outputs map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs[resourceType] = outputs
}

// Calls returns a copy of every recorded call in arrival order.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// RegisterOrder returns the resource names of RegisterResource calls in
// arrival order.
func (e *Engine) RegisterOrder() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for _, c := range e.calls {
		if c.Op == "RegisterResource" {
			names = append(names, c.Name)
		}
	}
	return names
}

// Registered returns the recorded registration request for a URN.
func (e *Engine) Registered(urn model.URN) *model.RegisterResourceRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registered[urn]
}

func (e *Engine) record(c Call) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, c)
	return e.unavailable
}

func (e *Engine) version(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"Version": Version})
}

func (e *Engine) health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func urnFor(typ, name string) model.URN {
	return model.URN("urn:fabrica:" + typ + "::" + name)
}

func (e *Engine) readResource(c echo.Context) error {
	var req model.ReadResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	urn := urnFor(req.Type, req.Name)
	if e.record(Call{Op: "ReadResource", Type: req.Type, Name: req.Name, URN: urn}) {
		return c.NoContent(http.StatusServiceUnavailable)
	}

	props := e.cannedOutputs(req.Type, req.Properties)
	raw, err := marshalProps(props)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, &model.ReadResourceResponse{
		URN:        urn,
		Properties: raw,
	})
}

func (e *Engine) registerResource(c echo.Context) error {
	var req model.RegisterResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	urn := urnFor(req.Type, req.Name)
	if e.record(Call{Op: "RegisterResource", Type: req.Type, Name: req.Name, URN: urn}) {
		return c.NoContent(http.StatusServiceUnavailable)
	}

	e.mu.Lock()
	e.registered[urn] = &req
	e.mu.Unlock()

	var id model.ID
	if req.Custom {
		id = model.ID(ksuid.New().String())
	}

	props := e.cannedOutputs(req.Type, req.Properties)
	raw, err := marshalProps(props)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, &model.RegisterResourceResponse{
		URN:        urn,
		ID:         id,
		Properties: raw,
	})
}

func (e *Engine) registerOutputs(c echo.Context) error {
	var req model.RegisterResourceOutputsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if e.record(Call{Op: "RegisterResourceOutputs", URN: req.URN}) {
		return c.NoContent(http.StatusServiceUnavailable)
	}

	return c.JSON(http.StatusOK, map[string]any{})
}
