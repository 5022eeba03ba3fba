package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller(t *testing.T) {
	t.Run("polls until stopped", func(t *testing.T) {
		var calls atomic.Int32
		p := NewPoller("test", 5*time.Millisecond, func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("errors are logged, polling goes on")
		})

		done := make(chan struct{})
		go func() {
			p.Start(t.Context())
			close(done)
		}()

		assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
		p.Stop()
		assert.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := NewPoller("test", time.Hour, func(ctx context.Context) error { return nil })

		done := make(chan struct{})
		go func() {
			p.Start(ctx)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not stop")
		}
	})
}
