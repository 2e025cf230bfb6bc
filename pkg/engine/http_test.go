// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package engine_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/fabrica/internal/enginetest"
	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

func TestHandshake(t *testing.T) {
	eng := enginetest.New()
	defer eng.Close()

	client := engine.NewHTTPClient(eng.URL(), nil)
	require.NoError(t, client.Handshake(context.Background()))
}

func TestHandshake_RejectsIncompatibleVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Version":"2.0.0"}`))
	}))
	defer srv.Close()

	client := engine.NewHTTPClient(srv.URL, nil)
	err := client.Handshake(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "compatible window")
}

func TestHandshake_RejectsUnparsableVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Version":"not-semver"}`))
	}))
	defer srv.Close()

	client := engine.NewHTTPClient(srv.URL, nil)
	require.Error(t, client.Handshake(context.Background()))
}

func TestRegisterResource_RoundTrip(t *testing.T) {
	eng := enginetest.New()
	defer eng.Close()

	client := engine.NewHTTPClient(eng.URL(), nil)
	resp, err := client.RegisterResource(context.Background(), &model.RegisterResourceRequest{
		Type:   "fabrica::storage::Bucket",
		Name:   "media",
		Custom: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.URN)
	assert.NotEmpty(t, resp.ID, "custom resources get a provider-assigned ID")
	assert.NotNil(t, eng.Registered(resp.URN))
}

func TestRegisterResource_ComponentGetsNoID(t *testing.T) {
	eng := enginetest.New()
	defer eng.Close()

	client := engine.NewHTTPClient(eng.URL(), nil)
	resp, err := client.RegisterResource(context.Background(), &model.RegisterResourceRequest{
		Type: "fabrica::app::Stack",
		Name: "stack",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
}

func TestReadResource_EchoesFiltersAsOutputs(t *testing.T) {
	eng := enginetest.New()
	defer eng.Close()

	client := engine.NewHTTPClient(eng.URL(), nil)
	resp, err := client.ReadResource(context.Background(), &model.ReadResourceRequest{
		Type:       "fabrica::storage::Volume",
		Name:       "data",
		ID:         "vol-1",
		Properties: []byte(`{"zone":"eu-west-1a"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.URN)
	assert.Contains(t, string(resp.Properties), "eu-west-1a")
}

func TestServiceSheddingIsUnavailable(t *testing.T) {
	eng := enginetest.New()
	defer eng.Close()
	eng.SetUnavailable(true)

	client := engine.NewHTTPClient(eng.URL(), nil)
	_, err := client.RegisterResource(context.Background(), &model.RegisterResourceRequest{
		Type: "fabrica::test::Thing",
		Name: "t",
	})
	require.Error(t, err)
	assert.True(t, engine.IsUnavailable(err))
}

func TestConnectionRefusedIsUnavailable(t *testing.T) {
	eng := enginetest.New()
	endpoint := eng.URL()
	eng.Close()

	client := engine.NewHTTPClient(endpoint, nil)
	err := client.RegisterResourceOutputs(context.Background(), &model.RegisterResourceOutputsRequest{
		URN: "urn:fabrica:test::t",
	})
	require.Error(t, err)
	assert.True(t, engine.IsUnavailable(err))
}

func TestUnexpectedStatusIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := engine.NewHTTPClient(srv.URL, nil)
	_, err := client.RegisterResource(context.Background(), &model.RegisterResourceRequest{
		Type: "fabrica::test::Thing",
		Name: "t",
	})
	require.Error(t, err)
	assert.False(t, engine.IsUnavailable(err))
}
