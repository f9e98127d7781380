package device_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sdr/device"
)

func TestCommandQueueFIFO(t *testing.T) {
	q := device.NewCommandQueue()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Push(func() error {
			order = append(order, i)
			return nil
		})
	}
	require.Equal(t, 5, q.Len())

	require.NoError(t, q.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 0, q.Len())
}

func TestCommandQueueStopsAtFirstError(t *testing.T) {
	q := device.NewCommandQueue()

	ran := 0
	q.Push(func() error { ran++; return nil })
	q.Push(func() error { return fmt.Errorf("register write rejected") })
	q.Push(func() error { ran++; return nil })

	err := q.Drain()
	require.Error(t, err)
	assert.Equal(t, 1, ran)
	// The failing command and its successor stay queued.
	assert.Equal(t, 2, q.Len())
}

func TestCommandQueueDrainEmpty(t *testing.T) {
	q := device.NewCommandQueue()
	require.NoError(t, q.Drain())
}
