// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package fabrica

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput_AwaitBlocksUntilBothSlotsSettle(t *testing.T) {
	out := newOutput(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, known, err := out.Await(context.Background())
		assert.NoError(t, err)
		assert.True(t, known)
		assert.Equal(t, "value", v)
	}()

	out.fulfillValue("value", nil)
	select {
	case <-done:
		t.Fatal("Await returned before the known slot settled")
	case <-time.After(50 * time.Millisecond):
	}

	out.fulfillKnown(true)
	<-done
}

func TestOutput_SecondFulfillmentIsDropped(t *testing.T) {
	out := newOutput(nil)
	out.resolve("first", true, nil)

	out.fulfillValue("second", nil)
	out.fulfillKnown(false)

	v, known, err := out.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, "first", v)
}

func TestOutput_AwaitHonorsContextCancellation(t *testing.T) {
	out := newOutput(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := out.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutput_ApplyTransformsKnownValues(t *testing.T) {
	out := newOutput(nil)
	out.resolve(21, true, nil)

	derived := out.Apply(context.Background(), func(v any) (any, error) {
		return v.(int) * 2, nil
	})

	v, known, err := derived.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 42, v)
}

func TestOutput_ApplySkipsUnknownValues(t *testing.T) {
	out := newOutput(nil)
	out.resolve(nil, false, nil)

	ran := false
	derived := out.Apply(context.Background(), func(v any) (any, error) {
		ran = true
		return v, nil
	})

	v, known, err := derived.Await(context.Background())
	require.NoError(t, err)
	assert.False(t, known)
	assert.Nil(t, v)
	assert.False(t, ran)
}

func TestOutput_ApplyPropagatesErrors(t *testing.T) {
	out := newOutput(nil)
	out.resolve("v", true, nil)

	boom := errors.New("boom")
	derived := out.Apply(context.Background(), func(any) (any, error) {
		return nil, boom
	})

	_, known, err := derived.Await(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, known)
}
