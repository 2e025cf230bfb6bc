// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

var Version = "0.1.0"

// ProtocolVersion is the engine wire protocol version this SDK speaks. The
// HTTP transport refuses to talk to engines outside the compatible range.
const ProtocolVersion = "0.3.0"
