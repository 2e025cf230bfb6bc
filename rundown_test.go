// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRundownWaitReturnsWhenDrained(t *testing.T) {
	r := &rundown{}
	r.acquire()
	r.acquire()

	waited := make(chan struct{})
	go func() {
		defer close(waited)
		r.wait()
	}()

	r.release()
	select {
	case <-waited:
		t.Fatal("wait returned with a token still outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	r.release()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the last release")
	}
}

func TestRundownStrayReleaseIsDropped(t *testing.T) {
	r := &rundown{}
	r.release()
	assert.Zero(t, r.outstanding)

	// Accounting still works after the stray release.
	r.acquire()
	assert.Equal(t, 1, r.outstanding)
	r.release()
	assert.Zero(t, r.outstanding)
	r.wait()
}
