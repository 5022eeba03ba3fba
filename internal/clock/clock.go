// Package clock provides the current unix time to the staking operations.
package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	// Now returns the current time in unix seconds
	Now() int64
}

type System struct{}

func (System) Now() int64 {
	return time.Now().Unix()
}

// Manual is a Clock that only moves when told to. It is safe for
// concurrent use.
type Manual struct {
	now atomic.Int64
}

func NewManual(now int64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

func (m *Manual) Now() int64 {
	return m.now.Load()
}

func (m *Manual) Set(now int64) {
	m.now.Store(now)
}

func (m *Manual) Advance(seconds int64) int64 {
	return m.now.Add(seconds)
}
