// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializerSwapChainsTails(t *testing.T) {
	s := newSerializer()

	first := make(chan struct{})
	wait, prev := s.swap(first, "op-1")
	assert.Empty(t, prev)

	// The initial tail is pre-closed: the first operation never blocks.
	select {
	case <-wait:
	default:
		t.Fatal("first operation's wait channel should be closed")
	}

	second := make(chan struct{})
	wait, prev = s.swap(second, "op-2")
	assert.Equal(t, "op-1", prev)

	// The second operation waits on the first's completion channel.
	select {
	case <-wait:
		t.Fatal("second operation should block until the first completes")
	default:
	}
	close(first)
	<-wait

	assert.Equal(t, "op-2", s.last())
}

func TestLabel0(t *testing.T) {
	assert.Equal(t, "RegisterResource", label0("RegisterResource(fabrica::test::Thing, name)"))
	assert.Equal(t, "ReadResource", label0("ReadResource(t, n)"))
	assert.Equal(t, "bare", label0("bare"))
}
