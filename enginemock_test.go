// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	goccy "github.com/goccy/go-json"

	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// fakeEngine is an in-memory engine.Client double. It assigns URNs from the
// type and name, hands out sequential IDs, and echoes serialized inputs back
// as outputs (overlaid with canned ones), which is what a real engine does
// for properties it does not rewrite.
type fakeEngine struct {
	mu          sync.Mutex
	unavailable bool
	failWith    error
	nextID      int
	calls       int
	order       []string
	registered  map[string]*model.RegisterResourceRequest
	outputsReqs []*model.RegisterResourceOutputsRequest
	canned      map[string]map[string]any
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		registered: make(map[string]*model.RegisterResourceRequest),
		canned:     make(map[string]map[string]any),
	}
}

func (f *fakeEngine) setUnavailable(unavailable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = unavailable
}

func (f *fakeEngine) setCanned(resourceType string, outputs map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canned[resourceType] = outputs
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEngine) registerOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

func (f *fakeEngine) request(name string) *model.RegisterResourceRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered[name]
}

func (f *fakeEngine) outputsRequests() []*model.RegisterResourceOutputsRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.RegisterResourceOutputsRequest, len(f.outputsReqs))
	copy(out, f.outputsReqs)
	return out
}

// err must be called with f.mu held.
func (f *fakeEngine) err() error {
	if f.unavailable {
		return fmt.Errorf("%w: engine is gone", engine.ErrUnavailable)
	}
	return f.failWith
}

func (f *fakeEngine) echoProps(resourceType string, inputs json.RawMessage) (json.RawMessage, error) {
	props := map[string]any{}
	if len(inputs) > 0 {
		if err := goccy.Unmarshal(inputs, &props); err != nil {
			return nil, err
		}
	}
	for k, v := range f.canned[resourceType] {
		props[k] = v
	}
	if len(props) == 0 {
		return nil, nil
	}
	return goccy.Marshal(props)
}

func fakeURN(typ, name string) model.URN {
	return model.URN("urn:fabrica:" + typ + "::" + name)
}

func (f *fakeEngine) ReadResource(_ context.Context, req *model.ReadResourceRequest) (*model.ReadResourceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.err(); err != nil {
		return nil, err
	}

	props, err := f.echoProps(req.Type, req.Properties)
	if err != nil {
		return nil, err
	}
	return &model.ReadResourceResponse{
		URN:        fakeURN(req.Type, req.Name),
		Properties: props,
	}, nil
}

func (f *fakeEngine) RegisterResource(_ context.Context, req *model.RegisterResourceRequest) (*model.RegisterResourceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.err(); err != nil {
		return nil, err
	}

	f.order = append(f.order, req.Name)
	f.registered[req.Name] = req

	var id model.ID
	if req.Custom {
		f.nextID++
		id = model.ID(fmt.Sprintf("id-%d", f.nextID))
	}

	props, err := f.echoProps(req.Type, req.Properties)
	if err != nil {
		return nil, err
	}
	return &model.RegisterResourceResponse{
		URN:        fakeURN(req.Type, req.Name),
		ID:         id,
		Properties: props,
	}, nil
}

func (f *fakeEngine) RegisterResourceOutputs(_ context.Context, req *model.RegisterResourceOutputsRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.err(); err != nil {
		return err
	}
	f.outputsReqs = append(f.outputsReqs, req)
	return nil
}
