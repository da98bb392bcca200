package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle_CollectsEveryOutcome(t *testing.T) {
	boom := errors.New("smtp down")

	outcomes := Settle(context.Background(),
		Task{Name: "email", Run: func(context.Context) error { return boom }},
		Task{Name: "sheets", Run: func(context.Context) error { return nil }},
		Task{Name: "zalo", Run: func(context.Context) error { panic("nil map") }},
	)

	require.Len(t, outcomes, 3)
	assert.Equal(t, "email", outcomes[0].Name)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.True(t, outcomes[1].OK())
	assert.ErrorIs(t, outcomes[2].Err, ErrPanic)
	assert.Contains(t, outcomes[2].Err.Error(), "nil map")
}

func TestSettle_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	task := func(context.Context) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	start := time.Now()
	Settle(context.Background(), Task{Name: "a", Run: task}, Task{Name: "b", Run: task}, Task{Name: "c", Run: task})

	assert.Equal(t, int32(3), peak.Load())
	assert.Less(t, time.Since(start), 140*time.Millisecond)
}

func TestSettle_NoTasks(t *testing.T) {
	assert.Empty(t, Settle(context.Background()))
}

func TestEach_KeepsOrderAndIsolatesFailures(t *testing.T) {
	ids := []string{"111", "222", "333"}

	results := Each(context.Background(), ids, func(_ context.Context, id string) (string, error) {
		switch id {
		case "222":
			return "", errors.New("user not follow OA")
		case "333":
			panic("bad payload")
		}
		return "sent:" + id, nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, "sent:111", results[0].Value)
	assert.NoError(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "user not follow OA")
	assert.ErrorIs(t, results[2].Err, ErrPanic)
}
