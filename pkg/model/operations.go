// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import "encoding/json"

// Wire types for the three remote operations the engine exposes. Property
// bags travel as raw JSON; the property codec owns their interpretation.

type ReadResourceRequest struct {
	RequestID    string          `json:"RequestID,omitempty"`
	Type         string          `json:"Type"`
	Name         string          `json:"Name"`
	ID           ID              `json:"ID"`
	Parent       URN             `json:"Parent,omitempty"`
	Provider     string          `json:"Provider,omitempty"`
	Properties   json.RawMessage `json:"Properties,omitempty"`
	Dependencies []URN           `json:"Dependencies,omitempty"`
}

type ReadResourceResponse struct {
	URN        URN             `json:"URN"`
	Properties json.RawMessage `json:"Properties,omitempty"`
}

type RegisterResourceRequest struct {
	RequestID    string          `json:"RequestID,omitempty"`
	Type         string          `json:"Type"`
	Name         string          `json:"Name"`
	Parent       URN             `json:"Parent,omitempty"`
	Custom       bool            `json:"Custom"`
	Properties   json.RawMessage `json:"Properties,omitempty"`
	Protect      bool            `json:"Protect,omitempty"`
	Provider     string          `json:"Provider,omitempty"`
	Dependencies []URN           `json:"Dependencies,omitempty"`
}

type RegisterResourceResponse struct {
	URN        URN             `json:"URN"`
	ID         ID              `json:"ID,omitempty"`
	Properties json.RawMessage `json:"Properties,omitempty"`
}

type RegisterResourceOutputsRequest struct {
	RequestID string          `json:"RequestID,omitempty"`
	URN       URN             `json:"URN"`
	Outputs   json.RawMessage `json:"Outputs,omitempty"`
}
