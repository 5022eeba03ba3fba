package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, int64(100), c.Now())

	assert.Equal(t, int64(110), c.Advance(10))
	assert.Equal(t, int64(110), c.Now())

	c.Set(5)
	assert.Equal(t, int64(5), c.Now())
}

func TestSystem(t *testing.T) {
	now := time.Now().Unix()
	assert.InDelta(t, now, System{}.Now(), 1)
}
